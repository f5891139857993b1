/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/coffeeshop/cli/internal/version"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Show the version info of the application.
type versionOpts struct {
	flagFormat string
}

func init() {
	o := versionOpts{}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version information of this CLI",
		Run:   runCommand(&o),
	}

	addEnumFlag(cmd, &o.flagFormat, "format", "text", []string{"text", "json"}, nil, "Output format")

	rootCmd.AddCommand(cmd)
}

func (o *versionOpts) Prepare(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	return nil
}

func (o *versionOpts) Run(cmd *cobra.Command) error {
	info, err := version.GetInfo()
	if err != nil {
		log.Debug().Msgf("Failed to parse version: %v", err)
	}

	if o.flagFormat == "json" {
		infoJSON, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal to JSON: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(infoJSON))
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "coffeeshop %s (%s)\n", info.AppVersion, info.GitCommit)
	return err
}
