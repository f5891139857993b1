/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coffeeshop/cli/pkg/styles"
)

var customUsageTemplate = `{{StyleHeading "Usage:"}}{{if .Runnable}}
  {{StyleCommand .UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{StyleCommand .CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

{{StyleHeading "Aliases:"}}
  {{StyleAliases .NameAndAliases}}{{end}}{{if .HasExample}}

{{StyleHeading "Examples:"}}
{{StyleExample .Example}}{{end}}{{if .HasAvailableSubCommands}}{{$cmds := .Commands}}{{if eq (len .Groups) 0}}

{{StyleHeading "Available Commands:"}}{{range $cmds}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{StyleCommand (rpad .Name .NamePadding)}} {{.Short}}{{end}}{{end}}{{else}}{{range $group := .Groups}}

{{StyleHeading .Title}}{{range $cmds}}{{if (and (eq .GroupID $group.ID) (or .IsAvailableCommand (eq .Name "help")))}}
  {{StyleCommand (rpad .Name .NamePadding)}} {{.Short}}{{end}}{{end}}{{end}}{{if not .AllChildCommandsHaveGroup}}

{{StyleHeading "Additional Commands:"}}{{range $cmds}}{{if (and (eq .GroupID "") (or .IsAvailableCommand (eq .Name "help")))}}
  {{StyleCommand (rpad .Name .NamePadding)}} {{.Short}}{{end}}{{end}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{StyleHeading "Flags:"}}
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces | StyleFlags}}{{end}}{{if .HasAvailableInheritedFlags}}

{{StyleHeading "Global Flags:"}}
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces | StyleFlags}}{{end}}{{if .HasHelpSubCommands}}

{{StyleHeading "Additional help topics:"}}{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .CommandPath .CommandPathPadding}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`

var customHelpTemplate = `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces | styleInlineCode}}

{{end}}{{if or .Runnable .HasSubCommands}}{{.UsageString}}{{end}}`

// Initialize the colored help templates for Cobra
func initColoredHelpTemplates(rootCmd *cobra.Command) {
	cobra.AddTemplateFunc("StyleHeading", styles.RenderBright)
	cobra.AddTemplateFunc("StyleCommand", styles.RenderTechnical)
	cobra.AddTemplateFunc("StyleExample", styleExample)
	cobra.AddTemplateFunc("StyleFlags", styleFlags)
	cobra.AddTemplateFunc("StyleAliases", styleAliases)
	cobra.AddTemplateFunc("styleInlineCode", styleInlineCode)

	rootCmd.SetUsageTemplate(customUsageTemplate)
	rootCmd.SetHelpTemplate(customHelpTemplate)
}

var (
	// Leading indent and the rest of a flag usage line.
	flagLineIndentPattern = regexp.MustCompile(`^(\s*)(.*?)$`)
	// Flags (and type) separated from the description by at least two spaces.
	flagLinePartsPattern = regexp.MustCompile(`^(.+?)(\s{2,})(.*)$`)
	// '-c, --config string' or '--verbose'.
	flagNamesPattern = regexp.MustCompile(`^((?:-[^,\s]+)(?:, (?:--[^\s]+))?)(?:\s+(\S+))?$`)
	// Environment variable names mentioned in help texts.
	envVarPattern = regexp.MustCompile(`\$?\b(COFFEESHOP_[A-Z0-9_]+|ENV_FILE)\b`)
)

func styleFlags(text string) string {
	lines := strings.Split(text, "\n")

	for ndx, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		indentMatch := flagLineIndentPattern.FindStringSubmatch(line)
		if len(indentMatch) < 3 {
			continue
		}
		indent := indentMatch[1]

		parts := flagLinePartsPattern.FindStringSubmatch(indentMatch[2])
		if len(parts) < 4 {
			continue
		}
		leftPart, space, description := parts[1], parts[2], parts[3]

		flagsMatch := flagNamesPattern.FindStringSubmatch(leftPart)
		if len(flagsMatch) < 2 {
			continue
		}

		flagParts := strings.Split(flagsMatch[1], ", ")
		for j, flag := range flagParts {
			flagParts[j] = styles.RenderTechnical(flag)
		}
		styledLeftPart := strings.Join(flagParts, ", ")
		if len(flagsMatch) > 2 && flagsMatch[2] != "" {
			styledLeftPart += " " + styles.RenderMuted(flagsMatch[2])
		}

		lines[ndx] = fmt.Sprintf("%s%s%s%s", indent, styledLeftPart, space, styleEnvVars(description))
	}

	return strings.Join(lines, "\n")
}

// Style inline code (text between backticks) and environment variable names.
func styleInlineCode(text string) string {
	parts := strings.Split(text, "`")
	for i := range parts {
		if i%2 == 1 {
			parts[i] = styles.RenderTechnical(parts[i])
		} else {
			parts[i] = styleEnvVars(parts[i])
		}
	}
	return strings.Join(parts, "`")
}

func styleEnvVars(text string) string {
	return envVarPattern.ReplaceAllStringFunc(text, styles.RenderTechnical)
}

// Style examples with different colors for comment and command lines
func styleExample(text string) string {
	lines := strings.Split(text, "\n")
	for ndx, line := range lines {
		trimmedLine := strings.TrimSpace(line)
		if strings.HasPrefix(trimmedLine, "#") {
			lines[ndx] = styles.RenderComment(line)
		} else if trimmedLine != "" {
			lines[ndx] = styles.RenderTechnical(line)
		}
	}
	return strings.Join(lines, "\n")
}

func styleAliases(text string) string {
	parts := strings.Split(text, ", ")
	for i, alias := range parts {
		parts[i] = styles.RenderTechnical(alias)
	}
	return strings.Join(parts, ", ")
}
