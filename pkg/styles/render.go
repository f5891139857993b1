/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func RenderBright(str string) string    { return StyleBright.Render(str) }
func RenderTitle(str string) string     { return StyleTitle.Render(str) }
func RenderError(str string) string     { return StyleError.Render(str) }
func RenderWarning(str string) string   { return StyleWarning.Render(str) }
func RenderTechnical(str string) string { return StyleTechnical.Render(str) }
func RenderAttention(str string) string { return StyleWarning.Render(str) }
func RenderSuccess(str string) string   { return StyleSuccess.Render(str) }
func RenderMuted(str string) string     { return StyleMuted.Render(str) }
func RenderPrompt(str string) string    { return StylePrompt.Render(str) }

// RenderComment renders text in a comment style (darker green).
func RenderComment(text string) string {
	return StyleComment.Render(text)
}

func RenderListTechnical(list []string) string {
	// Build comma-separated list of keys with technical styling
	elements := make([]string, 0, len(list))
	for _, str := range list {
		elements = append(elements, RenderTechnical(str))
	}
	return strings.Join(elements, ", ")
}

// RenderKeyValue renders an aligned 'key: value' line. The key is padded to keyWidth.
func RenderKeyValue(key string, value string, keyWidth int) string {
	return fmt.Sprintf("  %s %s", RenderMuted(fmt.Sprintf("%-*s", keyWidth+1, key+":")), RenderTechnical(value))
}

// RenderChange renders a changed value as 'old -> new' with removal and addition colors.
func RenderChange(from string, to string) string {
	return StyleRemoved.Render(quoteEmpty(from)) + RenderMuted(" -> ") + StyleAdded.Render(quoteEmpty(to))
}

func quoteEmpty(str string) string {
	if str == "" {
		return `""`
	}
	return str
}

// DisableColors turns off all styling, eg, when the output is not a terminal.
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
