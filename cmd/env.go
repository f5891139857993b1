/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"errors"
	"fmt"
	"os"

	clierrors "github.com/coffeeshop/cli/internal/errors"
	"github.com/coffeeshop/cli/pkg/environment"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// envCmd represents the env command
var envCmd = &cobra.Command{
	Use:     "env",
	Aliases: []string{"environment"},
	Short:   "Inspect, validate, edit and render the environment settings",
	Long: trimIndent(`
		Inspect, validate, edit and render the environment settings of the frontend.

		The settings for the selected build mode are resolved in this order, later
		sources overriding earlier ones:
		1. Built-in defaults of the build mode.
		2. The variant of the build mode in the settings file (--config, or
		   coffeeshop.yaml in the working directory if it exists).
		3. COFFEESHOP_PRODUCTION, COFFEESHOP_API_SERVER_URL, COFFEESHOP_AUTH0_URL,
		   COFFEESHOP_AUTH0_AUDIENCE, COFFEESHOP_AUTH0_CLIENT_ID and
		   COFFEESHOP_AUTH0_CALLBACK_URL environment variables.

		Variables are also read from $ENV_FILE, or from .env.local and .env when
		ENV_FILE is not set. Variables already set in the environment win.
	`),
}

func init() {
	rootCmd.AddCommand(envCmd)
}

// resolvedSettings is the outcome of resolving the settings of one build mode.
type resolvedSettings struct {
	Mode             environment.Mode
	Environment      environment.Environment
	SettingsFilePath string // Settings file used, empty if none
}

// loadDotEnv loads the .env files once per process.
var dotEnvLoaded bool

func loadDotEnv() error {
	if dotEnvLoaded {
		return nil
	}
	if err := environment.LoadDotEnvFiles(); err != nil {
		return clierrors.Wrap(err, "Failed to load .env files")
	}
	dotEnvLoaded = true
	return nil
}

// resolveMode returns the build mode selected with --mode or $COFFEESHOP_MODE.
func resolveMode() (environment.Mode, error) {
	if err := loadDotEnv(); err != nil {
		return "", err
	}
	mode, err := environment.ResolveMode(environment.Mode(flagMode), os.LookupEnv)
	if err != nil {
		return "", clierrors.WrapUsageError(err, err.Error()).
			WithSuggestion("Use --mode development or --mode production")
	}
	return mode, nil
}

// settingsFilePath returns the settings file targeted by --config, or the default one.
func settingsFilePath() string {
	if flagConfigPath != "" {
		return flagConfigPath
	}
	return environment.DefaultSettingsFileName
}

// usedSettingsFilePath returns the settings file Load reads for the current
// flags, or an empty string if there is none.
func usedSettingsFilePath() string {
	if flagConfigPath != "" {
		return flagConfigPath
	}
	if _, err := os.Stat(environment.DefaultSettingsFileName); err == nil {
		return environment.DefaultSettingsFileName
	}
	return ""
}

// loadSettings resolves the settings of a build mode. The result is not validated.
func loadSettings(mode environment.Mode) (*resolvedSettings, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	env, err := environment.Load(environment.LoadOptions{
		Mode:             mode,
		SettingsFilePath: flagConfigPath,
		SkipDotEnv:       true,
	})
	if err != nil {
		cliErr := clierrors.Wrapf(err, "Failed to load the %s settings", mode)
		if errors.Is(err, os.ErrNotExist) {
			cliErr.WithSuggestion("Create a settings file with 'coffeeshop env init'")
		}
		return nil, cliErr
	}

	log.Debug().Msgf("Resolved %s settings: %+v", mode, *env)
	return &resolvedSettings{
		Mode:             mode,
		Environment:      *env,
		SettingsFilePath: usedSettingsFilePath(),
	}, nil
}

// loadSelectedSettings resolves the settings of the build mode selected with --mode.
func loadSelectedSettings() (*resolvedSettings, error) {
	mode, err := resolveMode()
	if err != nil {
		return nil, err
	}
	return loadSettings(mode)
}

// invalidSettingsError converts a validation failure into a CLI error listing each issue.
func invalidSettingsError(mode environment.Mode, err error) error {
	var validationErr *environment.ValidationError
	if !errors.As(err, &validationErr) {
		return clierrors.Wrapf(err, "The %s settings are invalid", mode)
	}

	issues := make([]string, len(validationErr.Issues))
	for ndx, issue := range validationErr.Issues {
		issues[ndx] = issue.String()
	}
	return clierrors.NewInvalidSettings(fmt.Sprintf("The %s settings are invalid", mode), issues...).
		WithSuggestion(fmt.Sprintf("Fix the values with 'coffeeshop env set --mode %s KEY VALUE' or the COFFEESHOP_* variables", mode))
}
