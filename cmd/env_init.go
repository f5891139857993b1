/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"fmt"
	"os"

	clierrors "github.com/coffeeshop/cli/internal/errors"
	"github.com/coffeeshop/cli/internal/tui"
	"github.com/coffeeshop/cli/pkg/environment"
	"github.com/coffeeshop/cli/pkg/settingsfile"
	"github.com/coffeeshop/cli/pkg/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Create a settings file with the built-in defaults of both build modes.
type envInitOpts struct {
	flagForce bool
}

func init() {
	o := envInitOpts{}

	cmd := &cobra.Command{
		Use:   "init [flags]",
		Short: "Create a settings file with the built-in defaults",
		Long: renderLong(&o, `
			Create a settings file (--config, or coffeeshop.yaml) with the built-in
			development and production settings.

			The production client ID is left empty: set it with
			'coffeeshop env set --mode production auth0.clientId <id>' before
			rendering production builds.

			An existing settings file is only replaced after confirmation, or with --force.
		`),
		Example: renderExample(`
			# Create coffeeshop.yaml in the current directory.
			coffeeshop env init

			# Replace an existing settings file without asking.
			coffeeshop env init --config config/coffeeshop.yaml --force
		`),
		Run: runCommand(&o),
	}

	cmd.Flags().BoolVar(&o.flagForce, "force", false, "Replace an existing settings file without asking")

	envCmd.AddCommand(cmd)
}

func (o *envInitOpts) Prepare(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	return nil
}

func (o *envInitOpts) Run(cmd *cobra.Command) error {
	targetPath := settingsFilePath()

	if _, err := os.Stat(targetPath); err == nil && !o.flagForce {
		if !tui.IsInteractiveMode() {
			return clierrors.Newf("Settings file %s already exists", targetPath).
				WithSuggestion("Use --force to replace it")
		}

		confirmed, err := tui.DoConfirmQuestion(cmd.Context(), fmt.Sprintf("Settings file %s already exists. Replace it?", targetPath), false)
		if err != nil {
			return err
		}
		if !confirmed {
			log.Info().Msg("Aborted, the settings file was not modified.")
			return nil
		}
	}

	content, err := environment.RenderSettingsFile(map[environment.Mode]environment.Environment{
		environment.ModeDevelopment: environment.Development(),
		environment.ModeProduction:  environment.ProductionDefaults(),
	})
	if err != nil {
		return clierrors.Wrap(err, "Failed to render the settings file")
	}

	// JSON settings files are written as JSON.
	if settingsfile.IsJSONFile(targetPath) {
		content, err = settingsfile.ToJSON(content)
		if err != nil {
			return clierrors.Wrap(err, "Failed to convert the settings file to JSON")
		}
	}

	if err := settingsfile.WriteFileAtomic(targetPath, content); err != nil {
		return clierrors.Wrapf(err, "Failed to write %s", targetPath)
	}

	log.Info().Msgf("%s Created settings file %s", styles.RenderSuccess("✓"), styles.RenderTechnical(targetPath))
	log.Info().Msg("")
	log.Info().Msg("Next, set the client ID of the production Auth0 application:")
	log.Info().Msg(styles.RenderTechnical("  coffeeshop env set --mode production auth0.clientId <client-id>"))
	return nil
}
