/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"fmt"
	"os"
	"strings"

	clierrors "github.com/coffeeshop/cli/internal/errors"
	"github.com/coffeeshop/cli/pkg/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// CommandOptions is implemented by the options struct of each command.
// Prepare validates the arguments and flags, Run executes the command.
type CommandOptions interface {
	Prepare(cmd *cobra.Command, args []string) error
	Run(cmd *cobra.Command) error
}

// Options that declare positional arguments via UsePositionalArgs.
type positionalArgsOwner interface {
	Arguments() *PositionalArgs
}

// runCommand returns a cobra Run function that executes the command and exits
// the process with the error's exit code on failure.
func runCommand(opts CommandOptions) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		if err := executeCommand(cmd, args, opts); err != nil {
			printError(cmd, err)
			os.Exit(clierrors.GetExitCode(err))
		}
	}
}

// executeCommand parses the positional arguments, then runs Prepare and Run.
// Errors from argument parsing and Prepare are usage errors.
func executeCommand(cmd *cobra.Command, args []string, opts CommandOptions) error {
	if owner, ok := opts.(positionalArgsOwner); ok {
		if err := owner.Arguments().ParseCommandLine(args); err != nil {
			return clierrors.WrapUsageError(err, err.Error()).
				WithSuggestion(owner.Arguments().GetHelpText())
		}
	}

	if err := opts.Prepare(cmd, args); err != nil {
		if _, isCLIError := clierrors.AsCLIError(err); isCLIError {
			return err
		}
		return clierrors.WrapUsageError(err, err.Error())
	}

	return opts.Run(cmd)
}

func printError(cmd *cobra.Command, err error) {
	cliErr, ok := clierrors.AsCLIError(err)
	if !ok {
		cliErr = clierrors.Wrap(err, err.Error())
	}

	// Headline through the logger, the rest straight to stderr.
	lines := cliErr.Format()
	log.Error().Msgf("%s %s", styles.RenderError("Error:"), lines[0])
	errOut := cmd.ErrOrStderr()
	for _, line := range lines[1:] {
		fmt.Fprintln(errOut, styles.RenderMuted(line))
	}

	if cliErr.IsUsageError() {
		fmt.Fprintln(errOut, styles.RenderMuted("Run '"+cmd.CommandPath()+" --help' for usage."))
	}
}

// renderLong formats the long help text of a command: the common indent is
// removed and '{Arguments}' is replaced with the positional argument help.
func renderLong(opts CommandOptions, text string) string {
	text = trimIndent(text)
	if owner, ok := opts.(positionalArgsOwner); ok {
		text = strings.ReplaceAll(text, "{Arguments}", owner.Arguments().GetHelpText())
	}
	return text
}

// renderExample formats the example section of a command.
func renderExample(text string) string {
	lines := strings.Split(trimIndent(text), "\n")
	for ndx, line := range lines {
		if line != "" {
			lines[ndx] = "  " + line
		}
	}
	return strings.Join(lines, "\n")
}

// trimIndent removes the leading and trailing blank lines and the indentation
// common to all non-empty lines.
func trimIndent(text string) string {
	lines := strings.Split(text, "\n")

	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lineIndent := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || lineIndent < indent {
			indent = lineIndent
		}
	}

	for ndx, line := range lines {
		if len(line) >= indent && indent > 0 {
			lines[ndx] = line[indent:]
		} else {
			lines[ndx] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.Join(lines, "\n")
}
