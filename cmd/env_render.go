/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"errors"
	"fmt"

	clierrors "github.com/coffeeshop/cli/internal/errors"
	"github.com/coffeeshop/cli/pkg/environment"
	"github.com/coffeeshop/cli/pkg/settingsfile"
	"github.com/coffeeshop/cli/pkg/styles"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Render the validated settings into a file consumed by the frontend build or the backend.
type envRenderOpts struct {
	flagFormat string
	flagOutput string
}

func init() {
	o := envRenderOpts{}

	cmd := &cobra.Command{
		Use:   "render [flags]",
		Short: "Render the settings for the frontend build or the backend",
		Long: renderLong(&o, `
			Validate the resolved settings of the selected build mode and render them in
			one of the following formats:
			- ts: Angular environment file (export const environment = {...};).
			- json: the environment object as JSON, for runtime configuration.
			- yaml: a settings file with only the selected build mode.
			- dotenv: COFFEESHOP_* variables, plus AUTH0_DOMAIN and API_AUDIENCE for the backend.

			The output is written to stdout, or atomically replaces the file given with --output.
			Invalid settings are never rendered.
		`),
		Example: renderExample(`
			# Generate the Angular production environment file.
			coffeeshop env render --mode production --output src/environments/environment.prod.ts

			# Generate the backend .env file.
			coffeeshop env render --format dotenv --output backend/.env
		`),
		Run: runCommand(&o),
	}

	addEnumFlag(cmd, &o.flagFormat, "format", string(environment.FormatTypeScript), formatNames(), parseFormatFlag, "Output format")
	cmd.Flags().StringVarP(&o.flagOutput, "output", "o", "", "Write to this file instead of stdout")

	envCmd.AddCommand(cmd)
}

func (o *envRenderOpts) Prepare(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	return nil
}

func (o *envRenderOpts) Run(cmd *cobra.Command) error {
	resolved, err := loadSelectedSettings()
	if err != nil {
		return err
	}

	for _, warning := range resolved.Environment.Warnings() {
		log.Warn().Msgf("Warning: %s", warning)
	}

	env, err := activateSettings(resolved)
	if err != nil {
		return err
	}

	content, err := environment.Render(env, environment.Format(o.flagFormat))
	if err != nil {
		return clierrors.Wrap(err, "Failed to render the settings")
	}

	if o.flagOutput == "" {
		_, err = cmd.OutOrStdout().Write(content)
		return err
	}

	if err := settingsfile.WriteFileAtomic(o.flagOutput, content); err != nil {
		return clierrors.Wrapf(err, "Failed to write %s", o.flagOutput)
	}
	log.Info().Msgf("%s Wrote %s settings to %s (%s)", styles.RenderSuccess("✓"), resolved.Mode, styles.RenderTechnical(o.flagOutput), humanize.Bytes(uint64(len(content))))
	return nil
}

// activateSettings freezes the resolved settings for the rest of the process
// and returns the active copy. Activating identical settings again is allowed.
func activateSettings(resolved *resolvedSettings) (environment.Environment, error) {
	err := environment.Activate(resolved.Environment)
	if errors.Is(err, environment.ErrAlreadyActive) {
		active, _ := environment.Active()
		if active != resolved.Environment {
			return active, clierrors.Wrap(err, "Different settings are already active in this process")
		}
	} else if err != nil {
		return resolved.Environment, invalidSettingsError(resolved.Mode, err)
	}

	active, _ := environment.Active()
	return active, nil
}
