/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/coffeeshop/cli/pkg/environment"
)

// ChooseSetting lets the user pick one of the settings of env from a list.
// The current values are shown next to the setting names.
func ChooseSetting(title string, env environment.Environment) (*environment.Field, error) {
	if !isInteractiveMode {
		return nil, fmt.Errorf("cannot choose a setting in non-interactive mode, specify it explicitly")
	}

	fields := env.Fields()
	items := make([]list.Item, len(fields))
	for ndx, field := range fields {
		description := fmt.Sprintf("(%s)", field.Value)
		if field.Value == "" {
			description = "(empty)"
		}
		items[ndx] = compactListItem{
			index:       ndx,
			name:        field.Path,
			description: description,
		}
	}

	chosen, err := chooseFromList(title, items)
	if err != nil {
		return nil, err
	}
	return &fields[chosen], nil
}
