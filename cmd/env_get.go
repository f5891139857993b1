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
	"github.com/spf13/cobra"
)

// Print the value of a single setting.
type envGetOpts struct {
	UsePositionalArgs

	argKey       string
	flagFromFile bool
}

func newEnvGetOpts() *envGetOpts {
	o := &envGetOpts{}
	args := o.Arguments()
	args.AddStringArgumentOpt(&o.argKey, "KEY", "Setting to print, eg, 'auth0.clientId'. Chosen from a list if omitted in an interactive terminal.")
	return o
}

func init() {
	o := newEnvGetOpts()

	cmd := &cobra.Command{
		Use:   "get [KEY] [flags]",
		Short: "Print the value of a single setting",
		Long: renderLong(o, `
			Print the resolved value of a single setting of the selected build mode.

			With --from-file, the value is read as written in the settings file, ignoring
			the built-in defaults and COFFEESHOP_* overrides.

			{Arguments}
		`),
		Example: renderExample(`
			# Print the API server URL used by development builds.
			coffeeshop env get apiServerUrl

			# Print the production client ID stored in the settings file.
			coffeeshop env get auth0.clientId --mode production --from-file
		`),
		ValidArgsFunction: completeSettingKeys,
		Run:               runCommand(o),
	}

	cmd.Flags().BoolVar(&o.flagFromFile, "from-file", false, "Read the value from the settings file instead of the resolved settings")

	envCmd.AddCommand(cmd)
}

func (o *envGetOpts) Prepare(cmd *cobra.Command, args []string) error {
	if o.argKey == "" && !tui.IsInteractiveMode() {
		return clierrors.NewUsageError("Missing required argument KEY").
			WithSuggestion(fmt.Sprintf("Valid keys are: %v", environment.FieldPaths))
	}
	if o.argKey != "" {
		if _, known := (environment.Environment{}).Lookup(o.argKey); !known {
			return clierrors.NewUsageErrorf("Unknown setting '%s'", o.argKey).
				WithSuggestion(fmt.Sprintf("Valid keys are: %v", environment.FieldPaths))
		}
	}
	return nil
}

func (o *envGetOpts) Run(cmd *cobra.Command) error {
	resolved, err := loadSelectedSettings()
	if err != nil {
		return err
	}

	if o.argKey == "" {
		field, err := tui.ChooseSetting("Select the setting to print:", resolved.Environment)
		if err != nil {
			return err
		}
		o.argKey = field.Path
	}

	var value string
	if o.flagFromFile {
		filePath := settingsFilePath()
		if _, err := os.Stat(filePath); err != nil {
			return clierrors.Wrapf(err, "Settings file %s not found", filePath).
				WithSuggestion("Create it with 'coffeeshop env init'")
		}
		value, err = settingsfile.Get(filePath, resolved.Mode, o.argKey)
		if err != nil {
			return clierrors.Wrapf(err, "Failed to read '%s' from %s", settingsfile.Key(resolved.Mode, o.argKey), filePath)
		}
	} else {
		field, _ := resolved.Environment.Lookup(o.argKey)
		value = field.Value
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), value)
	return err
}
