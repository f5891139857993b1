/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"fmt"
	"strings"

	"github.com/coffeeshop/cli/pkg/environment"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// enumFlag is a string flag restricted to a set of values. The parse function
// maps accepted aliases to their canonical value.
type enumFlag struct {
	value   *string
	allowed []string
	parse   func(string) (string, error)
}

var _ pflag.Value = (*enumFlag)(nil)

func (f *enumFlag) String() string { return *f.value }
func (f *enumFlag) Type() string   { return strings.Join(f.allowed, "|") }

func (f *enumFlag) Set(str string) error {
	if f.parse != nil {
		parsed, err := f.parse(str)
		if err != nil {
			return err
		}
		*f.value = parsed
		return nil
	}

	for _, allowed := range f.allowed {
		if str == allowed {
			*f.value = str
			return nil
		}
	}
	return fmt.Errorf("must be one of: %s", strings.Join(f.allowed, ", "))
}

// addEnumFlag registers an enum flag with shell completion of the allowed values.
func addEnumFlag(cmd *cobra.Command, valuePtr *string, name string, defaultValue string, allowed []string, parse func(string) (string, error), usage string) {
	*valuePtr = defaultValue
	cmd.Flags().Var(&enumFlag{value: valuePtr, allowed: allowed, parse: parse}, name, usage)
	registerEnumCompletion(cmd, name, allowed)
}

func registerEnumCompletion(cmd *cobra.Command, name string, allowed []string) {
	_ = cmd.RegisterFlagCompletionFunc(name, func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return allowed, cobra.ShellCompDirectiveNoFileComp
	})
}

func registerModeCompletion(cmd *cobra.Command, name string) {
	registerEnumCompletion(cmd, name, modeNames())
}

func modeNames() []string {
	names := make([]string, len(environment.AllModes))
	for ndx, mode := range environment.AllModes {
		names[ndx] = string(mode)
	}
	return names
}

func formatNames() []string {
	names := make([]string, len(environment.AllFormats))
	for ndx, format := range environment.AllFormats {
		names[ndx] = string(format)
	}
	return names
}

func parseFormatFlag(str string) (string, error) {
	format, err := environment.ParseFormat(str)
	return string(format), err
}

// completeSettingKeys completes the setting names for commands taking a KEY argument.
func completeSettingKeys(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return environment.FieldPaths, cobra.ShellCompDirectiveNoFileComp
}
