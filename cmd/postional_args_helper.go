/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"fmt"
	"strings"
)

type PositionalArgSpec struct {
	Name        string  // Name of the argument (eg, KEY)
	Description string  // Description of the argument
	IsRequired  bool    // Is the argument required (or optional)?
	ValuePtr    *string // Pointer to the parsed value
}

type PositionalArgs struct {
	Specs []PositionalArgSpec // Array of arguments for the command
}

func (args *PositionalArgs) AddStringArgument(valuePtr *string, name string, description string) {
	args.Specs = append(args.Specs, PositionalArgSpec{
		Name:        name,
		Description: description,
		IsRequired:  true,
		ValuePtr:    valuePtr,
	})
}

func (args *PositionalArgs) AddStringArgumentOpt(valuePtr *string, name string, description string) {
	args.Specs = append(args.Specs, PositionalArgSpec{
		Name:        name,
		Description: description,
		IsRequired:  false,
		ValuePtr:    valuePtr,
	})
}

func (args *PositionalArgs) requiredCount() int {
	count := 0
	for _, spec := range args.Specs {
		if spec.IsRequired {
			count++
		}
	}
	return count
}

func (args *PositionalArgs) GetHelpText() string {
	if len(args.Specs) == 0 {
		return "No positional arguments are required for this command."
	}

	lines := []string{"Arguments:"}
	for _, spec := range args.Specs {
		optionalText := ""
		if !spec.IsRequired {
			optionalText = " (optional)"
		}
		lines = append(lines, fmt.Sprintf("  - %s%s -- %s", spec.Name, optionalText, spec.Description))
	}

	return strings.Join(lines, "\n")
}

// ParseCommandLine stores argv into the declared arguments in order. Missing
// optional arguments keep their current value.
func (args *PositionalArgs) ParseCommandLine(argv []string) error {
	if len(argv) < args.requiredCount() {
		missing := []string{}
		for _, spec := range args.Specs[len(argv):] {
			if spec.IsRequired {
				missing = append(missing, spec.Name)
			}
		}
		return fmt.Errorf("missing required argument(s): %s", strings.Join(missing, ", "))
	}

	if len(argv) > len(args.Specs) {
		return fmt.Errorf("unexpected extra argument(s): %s", strings.Join(argv[len(args.Specs):], " "))
	}

	for ndx, value := range argv {
		*args.Specs[ndx].ValuePtr = value
	}
	return nil
}

type UsePositionalArgs struct {
	args PositionalArgs
}

func (o *UsePositionalArgs) Arguments() *PositionalArgs {
	return &o.args
}
