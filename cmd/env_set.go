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
	"github.com/coffeeshop/cli/pkg/settingsfile"
	"github.com/coffeeshop/cli/pkg/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Change a single setting in the settings file.
type envSetOpts struct {
	UsePositionalArgs

	argKey   string
	argValue string
}

func newEnvSetOpts() *envSetOpts {
	o := &envSetOpts{}
	args := o.Arguments()
	args.AddStringArgument(&o.argKey, "KEY", "Setting to change, eg, 'auth0.clientId'.")
	args.AddStringArgument(&o.argValue, "VALUE", "New value. 'production' accepts true or false.")
	return o
}

func init() {
	o := newEnvSetOpts()

	cmd := &cobra.Command{
		Use:   "set KEY VALUE [flags]",
		Short: "Change a single setting in the settings file",
		Long: renderLong(o, `
			Change a single setting of the selected build mode in the settings file.

			The rest of the file is kept as is, including comments and key order. If the
			file has no variant for the build mode, one is added with the built-in
			defaults. The file is replaced atomically.

			{Arguments}
		`),
		Example: renderExample(`
			# Set the client ID of the production Auth0 application.
			coffeeshop env set --mode production auth0.clientId 632cdd55c566bc91751b04bd

			# Point development builds to another API server.
			coffeeshop env set apiServerUrl http://192.168.1.20:5000
		`),
		ValidArgsFunction: completeSettingKeys,
		Run:               runCommand(o),
	}

	envCmd.AddCommand(cmd)
}

func (o *envSetOpts) Prepare(cmd *cobra.Command, args []string) error {
	if _, err := (environment.Environment{}).With(o.argKey, o.argValue); err != nil {
		return clierrors.WrapUsageError(err, err.Error()).
			WithSuggestion(fmt.Sprintf("Valid keys are: %v", environment.FieldPaths))
	}
	return nil
}

func (o *envSetOpts) Run(cmd *cobra.Command) error {
	mode, err := resolveMode()
	if err != nil {
		return err
	}

	filePath := settingsFilePath()
	if err := settingsfile.Set(filePath, mode, o.argKey, o.argValue); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return clierrors.Wrapf(err, "Settings file %s not found", filePath).
				WithSuggestion("Create it with 'coffeeshop env init'")
		}
		return clierrors.Wrapf(err, "Failed to set '%s' in %s", settingsfile.Key(mode, o.argKey), filePath)
	}
	log.Info().Msgf("%s Set %s to %s in %s", styles.RenderSuccess("✓"), styles.RenderTechnical(settingsfile.Key(mode, o.argKey)), styles.RenderTechnical(o.argValue), filePath)

	// Report what the change means for the resolved settings, without failing.
	settingsFile, err := environment.LoadSettingsFile(filePath)
	if err != nil {
		return clierrors.Wrapf(err, "Failed to read back %s", filePath)
	}
	env := settingsFile.Environments[mode]
	for _, warning := range env.Warnings() {
		log.Warn().Msgf("Warning: %s", warning)
	}
	if err := env.Validate(); err != nil {
		log.Warn().Msgf("The %s settings in %s are not valid yet: %v", mode, filePath, err)
	}
	return nil
}
