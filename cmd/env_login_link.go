/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"fmt"
	"strings"

	clierrors "github.com/coffeeshop/cli/internal/errors"
	"github.com/coffeeshop/cli/pkg/environment"
	"github.com/spf13/cobra"
)

// Print the Auth0 login link the frontend opens.
type envLoginLinkOpts struct {
	flagPath string
}

func init() {
	o := envLoginLinkOpts{}

	cmd := &cobra.Command{
		Use:   "login-link [flags]",
		Short: "Print the Auth0 login link of the selected build mode",
		Long: renderLong(&o, `
			Print the Auth0 authorize link the frontend opens to sign users in, built from
			the resolved settings of the selected build mode. After signing in, Auth0
			redirects to auth0.callbackURL followed by --path.

			The link is only printed, nothing is opened or requested.
		`),
		Example: renderExample(`
			# Print the development login link.
			coffeeshop env login-link

			# Redirect to the start page after signing in.
			coffeeshop env login-link --path /tabs/home
		`),
		Run: runCommand(&o),
	}

	cmd.Flags().StringVar(&o.flagPath, "path", environment.DefaultLoginCallbackPath, "Frontend path to return to after signing in")

	envCmd.AddCommand(cmd)
}

func (o *envLoginLinkOpts) Prepare(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	if o.flagPath != "" && !strings.HasPrefix(o.flagPath, "/") {
		return clierrors.NewUsageErrorf("Invalid --path '%s', it must start with '/'", o.flagPath)
	}
	return nil
}

func (o *envLoginLinkOpts) Run(cmd *cobra.Command) error {
	resolved, err := loadSelectedSettings()
	if err != nil {
		return err
	}
	if err := resolved.Environment.Validate(); err != nil {
		return invalidSettingsError(resolved.Mode, err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), resolved.Environment.Auth0.LoginLink(o.flagPath))
	return err
}
