/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"fmt"
	"path/filepath"

	clierrors "github.com/coffeeshop/cli/internal/errors"
	"github.com/coffeeshop/cli/internal/tui"
	"github.com/coffeeshop/cli/pkg/environment"
	"github.com/coffeeshop/cli/pkg/filesetwriter"
	"github.com/coffeeshop/cli/pkg/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Angular environment file of each build mode, relative to --dir.
var angularEnvironmentFiles = map[environment.Mode]string{
	environment.ModeDevelopment: "environment.ts",
	environment.ModeProduction:  "environment.prod.ts",
}

// Generate the frontend environment files of all build modes, and optionally the backend .env file.
type envGenerateOpts struct {
	flagDir          string
	flagBackendEnv   string
	flagYes          bool
	flagSkipExisting bool
}

func init() {
	o := envGenerateOpts{}

	cmd := &cobra.Command{
		Use:   "generate [flags]",
		Short: "Generate the frontend environment files of all build modes",
		Long: renderLong(&o, `
			Generate the Angular environment files of both build modes into --dir:
			- environment.ts from the development settings.
			- environment.prod.ts from the production settings.

			With --backend-env, the backend .env file (AUTH0_DOMAIN, API_AUDIENCE and the
			COFFEESHOP_* variables) is also written from the settings of the selected build mode.

			All settings are validated before anything is written. Files whose content
			would change are only replaced after confirmation, or with --yes.
		`),
		Example: renderExample(`
			# Generate src/environments/environment.ts and environment.prod.ts.
			coffeeshop env generate

			# Also write the backend's .env, without asking.
			coffeeshop env generate --backend-env backend/.env --yes
		`),
		Run: runCommand(&o),
	}

	flags := cmd.Flags()
	flags.StringVar(&o.flagDir, "dir", filepath.Join("src", "environments"), "Directory of the Angular environment files")
	flags.StringVar(&o.flagBackendEnv, "backend-env", "", "Also write the backend .env file to this path")
	flags.BoolVar(&o.flagYes, "yes", false, "Replace changed files without asking")
	flags.BoolVar(&o.flagSkipExisting, "skip-existing", false, "Keep existing files that differ instead of replacing them")

	envCmd.AddCommand(cmd)
}

func (o *envGenerateOpts) Prepare(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	if o.flagDir == "" {
		return clierrors.NewUsageError("Flag --dir must not be empty")
	}
	if o.flagYes && o.flagSkipExisting {
		return clierrors.NewUsageError("Flags --yes and --skip-existing cannot be used together")
	}
	return nil
}

func (o *envGenerateOpts) Run(cmd *cobra.Command) error {
	plan := filesetwriter.NewPlan()

	issues := []string{}
	for _, mode := range environment.AllModes {
		resolved, err := loadSettings(mode)
		if err != nil {
			return err
		}
		if err := resolved.Environment.Validate(); err != nil {
			cliErr, _ := clierrors.AsCLIError(invalidSettingsError(mode, err))
			for _, issue := range cliErr.Details {
				issues = append(issues, fmt.Sprintf("%s: %s", mode, issue))
			}
			continue
		}

		content, err := environment.Render(resolved.Environment, environment.FormatTypeScript)
		if err != nil {
			return clierrors.Wrapf(err, "Failed to render the %s settings", mode)
		}
		plan.Add(filepath.Join(o.flagDir, angularEnvironmentFiles[mode]), content, 0644, fmt.Sprintf("%s settings", mode))
	}

	if o.flagBackendEnv != "" {
		resolved, err := loadSelectedSettings()
		if err != nil {
			return err
		}
		if err := resolved.Environment.Validate(); err == nil {
			content, err := environment.Render(resolved.Environment, environment.FormatDotEnv)
			if err != nil {
				return clierrors.Wrap(err, "Failed to render the backend variables")
			}
			plan.Add(o.flagBackendEnv, content, 0644, fmt.Sprintf("backend variables, %s", resolved.Mode))
		}
	}

	if len(issues) > 0 {
		return clierrors.NewInvalidSettings("Invalid settings, no files were generated", issues...).
			WithSuggestion("Run 'coffeeshop env validate --all' for details")
	}

	if o.flagSkipExisting {
		plan.SetConflictPolicy(filesetwriter.Skip)
	}
	if err := plan.Scan(); err != nil {
		return err
	}

	log.Info().Msg(styles.RenderTitle("Files to generate:"))
	plan.Preview()
	log.Info().Msg("")

	if plan.FilesToWrite() == 0 {
		log.Info().Msg(styles.RenderSuccess("✓ All files are up to date"))
		return nil
	}

	if plan.HasConflicts() && !o.flagYes {
		if !tui.IsInteractiveMode() {
			return clierrors.New("Generating would replace files with different content").
				WithSuggestion("Use --yes to replace them, or --skip-existing to keep them")
		}
		confirmed, err := tui.DoConfirmQuestion(cmd.Context(), "Replace the files marked with (overwrite)?", true)
		if err != nil {
			return err
		}
		if !confirmed {
			log.Info().Msg("Aborted, no files were written.")
			return nil
		}
	}

	if err := plan.Execute(); err != nil {
		return err
	}
	log.Info().Msg(styles.RenderSuccess(fmt.Sprintf("✓ Generated %d file(s)", len(plan.Written()))))
	return nil
}
