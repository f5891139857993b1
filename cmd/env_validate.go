/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"errors"
	"fmt"

	clierrors "github.com/coffeeshop/cli/internal/errors"
	"github.com/coffeeshop/cli/pkg/environment"
	"github.com/coffeeshop/cli/pkg/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Validate the resolved settings of one or all build modes.
type envValidateOpts struct {
	flagAll bool
}

func init() {
	o := envValidateOpts{}

	cmd := &cobra.Command{
		Use:   "validate [flags]",
		Short: "Check that the settings are complete and well-formed",
		Long: renderLong(&o, `
			Check the resolved settings of the selected build mode (or all modes with --all):
			- apiServerUrl, auth0.audience and auth0.callbackURL must be http(s) URLs.
			- auth0.url must be an Auth0 domain prefix, eg, 'dev-6jfqn48i.us'.
			- auth0.clientId must be set and must not be a placeholder.

			Production settings that point at plain-http or loopback addresses are
			reported as warnings.

			Exits with code 3 if any of the checked settings are invalid.
		`),
		Example: renderExample(`
			# Validate the settings of the current build mode.
			coffeeshop env validate

			# Validate both the development and production settings.
			coffeeshop env validate --all
		`),
		Run: runCommand(&o),
	}

	cmd.Flags().BoolVar(&o.flagAll, "all", false, "Validate all build modes instead of only the selected one")

	envCmd.AddCommand(cmd)
}

func (o *envValidateOpts) Prepare(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	if o.flagAll && flagMode != "" {
		return clierrors.NewUsageError("Flags --all and --mode cannot be used together")
	}
	return nil
}

func (o *envValidateOpts) Run(cmd *cobra.Command) error {
	modes := environment.AllModes
	if !o.flagAll {
		mode, err := resolveMode()
		if err != nil {
			return err
		}
		modes = []environment.Mode{mode}
	}

	var failures []error
	var failedModes []environment.Mode
	for _, mode := range modes {
		resolved, err := loadSettings(mode)
		if err != nil {
			return err
		}

		for _, warning := range resolved.Environment.Warnings() {
			log.Warn().Msgf("Warning: %s: %s", mode, warning)
		}

		if err := resolved.Environment.Validate(); err != nil {
			log.Info().Msgf("%s The %s settings are invalid", styles.RenderError("✗"), mode)
			failures = append(failures, err)
			failedModes = append(failedModes, mode)
			continue
		}
		log.Info().Msgf("%s The %s settings are valid", styles.RenderSuccess("✓"), mode)
	}

	switch len(failures) {
	case 0:
		return nil
	case 1:
		return invalidSettingsError(failedModes[0], failures[0])
	default:
		issues := []string{}
		for ndx, failure := range failures {
			var validationErr *environment.ValidationError
			if errors.As(failure, &validationErr) {
				for _, issue := range validationErr.Issues {
					issues = append(issues, fmt.Sprintf("%s: %s", failedModes[ndx], issue))
				}
			}
		}
		return clierrors.NewInvalidSettings(fmt.Sprintf("The settings of %d build modes are invalid", len(failures)), issues...)
	}
}
