/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"encoding/json"
	"fmt"

	clierrors "github.com/coffeeshop/cli/internal/errors"
	"github.com/coffeeshop/cli/pkg/environment"
	"github.com/coffeeshop/cli/pkg/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Compare the resolved settings of two build modes.
type envDiffOpts struct {
	UsePositionalArgs

	argModeA   string
	argModeB   string
	flagFormat string

	modeA environment.Mode
	modeB environment.Mode
}

func newEnvDiffOpts() *envDiffOpts {
	o := &envDiffOpts{
		argModeA:   string(environment.ModeDevelopment),
		argModeB:   string(environment.ModeProduction),
		flagFormat: "text",
	}
	args := o.Arguments()
	args.AddStringArgumentOpt(&o.argModeA, "MODE_A", "Build mode to compare from (default: development).")
	args.AddStringArgumentOpt(&o.argModeB, "MODE_B", "Build mode to compare to (default: production).")
	return o
}

func init() {
	o := newEnvDiffOpts()

	cmd := &cobra.Command{
		Use:   "diff [MODE_A] [MODE_B] [flags]",
		Short: "Show the settings that differ between two build modes",
		Long: renderLong(o, `
			Show the settings that differ between the resolved settings of two build modes.

			{Arguments}
		`),
		Example: renderExample(`
			# Compare development and production settings.
			coffeeshop env diff

			# Print the differences as JSON.
			coffeeshop env diff development production --format json
		`),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) >= 2 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return modeNames(), cobra.ShellCompDirectiveNoFileComp
		},
		Run: runCommand(o),
	}

	addEnumFlag(cmd, &o.flagFormat, "format", "text", []string{"text", "json"}, nil, "Output format")

	envCmd.AddCommand(cmd)
}

func (o *envDiffOpts) Prepare(cmd *cobra.Command, args []string) error {
	var err error
	if o.modeA, err = environment.ParseMode(o.argModeA); err != nil {
		return clierrors.WrapUsageError(err, err.Error())
	}
	if o.modeB, err = environment.ParseMode(o.argModeB); err != nil {
		return clierrors.WrapUsageError(err, err.Error())
	}
	return nil
}

func (o *envDiffOpts) Run(cmd *cobra.Command) error {
	resolvedA, err := loadSettings(o.modeA)
	if err != nil {
		return err
	}
	resolvedB, err := loadSettings(o.modeB)
	if err != nil {
		return err
	}

	changes := environment.Diff(resolvedA.Environment, resolvedB.Environment)

	if o.flagFormat == "json" {
		type changeJSON struct {
			Path string `json:"path"`
			From string `json:"from"`
			To   string `json:"to"`
		}
		out := make([]changeJSON, len(changes))
		for ndx, change := range changes {
			out[ndx] = changeJSON{Path: change.Path, From: change.From, To: change.To}
		}
		content, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal to JSON: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(content))
		return err
	}

	if len(changes) == 0 {
		log.Info().Msgf("The %s and %s settings are identical", o.modeA, o.modeB)
		return nil
	}

	width := 0
	for _, change := range changes {
		width = max(width, len(change.Path))
	}

	log.Info().Msg(styles.RenderTitle(fmt.Sprintf("Settings differing between %s and %s:", o.modeA, o.modeB)))
	for _, change := range changes {
		log.Info().Msgf("  %s %s", styles.RenderMuted(fmt.Sprintf("%-*s", width+1, change.Path+":")), styles.RenderChange(change.From, change.To))
	}
	return nil
}
