/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"fmt"
	"os"

	"github.com/coffeeshop/cli/pkg/environment"
	"github.com/coffeeshop/cli/pkg/styles"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Show the resolved settings of the selected build mode.
type envShowOpts struct {
	flagFormat string
}

func init() {
	o := envShowOpts{}

	cmd := &cobra.Command{
		Use:   "show [flags]",
		Short: "Show the resolved settings of the selected build mode",
		Long: renderLong(&o, `
			Show the resolved settings of the selected build mode, where they come from
			and the Auth0 values derived from them.

			With --format json, only the settings object is printed, in the same shape
			as the frontend's environment object.
		`),
		Example: renderExample(`
			# Show the development settings.
			coffeeshop env show

			# Show the production settings as JSON.
			coffeeshop env show --mode production --format json
		`),
		Run: runCommand(&o),
	}

	addEnumFlag(cmd, &o.flagFormat, "format", "text", []string{"text", "json"}, nil, "Output format")

	envCmd.AddCommand(cmd)
}

func (o *envShowOpts) Prepare(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	return nil
}

func (o *envShowOpts) Run(cmd *cobra.Command) error {
	resolved, err := loadSelectedSettings()
	if err != nil {
		return err
	}
	env := resolved.Environment

	if o.flagFormat == "json" {
		content, err := environment.Render(env, environment.FormatJSON)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(content)
		return err
	}

	log.Info().Msg("")
	log.Info().Msg(styles.RenderTitle(fmt.Sprintf("Coffee Shop %s settings", resolved.Mode)))
	log.Info().Msg("")
	log.Info().Msg(styles.RenderKeyValue("Settings file", describeSettingsFile(resolved.SettingsFilePath), 17))
	log.Info().Msg("")

	for _, field := range env.Fields() {
		value := field.Value
		if value == "" {
			value = styles.RenderMuted("(empty)")
		}
		log.Info().Msg(styles.RenderKeyValue(field.Path, value, 17))
	}

	log.Info().Msg("")
	log.Info().Msg(styles.RenderBright("Derived Auth0 values"))
	log.Info().Msg(styles.RenderKeyValue("Domain", env.Auth0.Domain(), 17))
	log.Info().Msg(styles.RenderKeyValue("Issuer", env.Auth0.Issuer(), 17))
	log.Info().Msg(styles.RenderKeyValue("JWKS URL", env.Auth0.JWKSURL(), 17))
	log.Info().Msg("")

	for _, warning := range env.Warnings() {
		log.Warn().Msgf("Warning: %s", warning)
	}
	if err := env.Validate(); err != nil {
		log.Warn().Msgf("The %s settings are invalid, run 'coffeeshop env validate' for details", resolved.Mode)
	} else {
		log.Info().Msg(styles.RenderSuccess(fmt.Sprintf("The %s settings are valid", resolved.Mode)))
	}
	return nil
}

// describeSettingsFile names the settings file and when it was last modified.
func describeSettingsFile(path string) string {
	if path == "" {
		return "none, using built-in defaults"
	}
	info, err := os.Stat(path)
	if err != nil {
		return path
	}
	return fmt.Sprintf("%s (modified %s)", path, humanize.Time(info.ModTime()))
}
