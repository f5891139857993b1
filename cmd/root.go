/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/coffeeshop/cli/internal/tui"
	"github.com/coffeeshop/cli/pkg/styles"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Value of the --config (or -c).
var flagConfigPath string

// Value of the --mode (or -m).
var flagMode string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "coffeeshop",
	Short: "Coffee Shop CLI: manage the frontend environment settings",
	Long: trimIndent(`
		This CLI manages the environment settings of the Coffee Shop frontend: the API
		server address and the Auth0 settings used to sign users in.

		Settings are resolved from the built-in defaults, the coffeeshop.yaml settings
		file and COFFEESHOP_* environment variables (also read from .env files).
		The result can be validated and rendered into the files the frontend build and
		the backend consume.
	`),
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		isVerbose, _ := cmd.Flags().GetBool("verbose")
		initLogger(isVerbose)

		tui.SetInteractiveMode(tui.DetectInteractiveMode())
		if !isTerminal(os.Stdout) {
			styles.DisableColors()
		}
	},
}

// ExecuteContext runs the root command. Errors from cobra itself (unknown
// commands or flags) are reported as usage errors.
func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		initLogger(false)
		log.Error().Msgf("%s %s", styles.RenderError("Error:"), err)
		fmt.Fprintln(os.Stderr, styles.RenderMuted("Run 'coffeeshop --help' for usage."))
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&flagConfigPath, "config", "c", "", "Path to the settings file (default: ./coffeeshop.yaml if it exists)")
	rootCmd.PersistentFlags().StringVarP(&flagMode, "mode", "m", "", "Build mode: 'development' or 'production' (default: $COFFEESHOP_MODE or development)")
	registerModeCompletion(rootCmd, "mode")

	initColoredHelpTemplates(rootCmd)
}

func isTerminal(file *os.File) bool {
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// Customer version of zerolog's ConsoleWriter that writes out the full
// line with a color dependent on the log level. Intended for the default
// CLI non-decorated output mode. Warnings and errors go to ErrOut so they
// do not mix with output piped from stdout.
type coloredLineConsoleWriter struct {
	Out       io.Writer
	ErrOut    io.Writer
	UseColors bool
}

func (w *coloredLineConsoleWriter) Write(p []byte) (n int, err error) {
	var event map[string]any
	if err := json.Unmarshal(p, &event); err != nil {
		return 0, err
	}

	level, _ := event["level"].(string)
	message, _ := event["message"].(string)

	var color string
	switch level {
	case "trace":
		color = "\033[95m" // Bright Magenta
	case "debug":
		color = "\033[94m" // Bright Blue
	case "info":
		color = "" // Default color
	case "warn":
		color = "\033[93m" // Bright Yellow
	case "error":
		color = "\033[91m" // Bright Red
	default:
		color = "\033[37m"
	}

	var buf bytes.Buffer
	if w.UseColors && color != "" {
		buf.WriteString(color)
		buf.WriteString(message)
		buf.WriteString("\033[0m")
	} else {
		buf.WriteString(message)
	}
	buf.WriteString("\n")

	out := w.Out
	if w.ErrOut != nil && (level == "warn" || level == "error") {
		out = w.ErrOut
	}
	if _, err := out.Write(buf.Bytes()); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Initialize zerolog:
// In verbose mode, the output includes timestamps and log levels and goes
// to stderr, so rendered output on stdout stays clean.
// In non-verbose mode, the output is plain-text only, so its compatible with
// piping to `jq` and other tools. Colors are auto-detected based on the TTY used.
func initLogger(isVerbose bool) {
	if isVerbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		zerolog.TimeFieldFormat = "2006-01-02 15:04:05.000"
		log.Logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "2006-01-02 15:04:05.000",
		}).With().
			Timestamp().
			Logger()
	} else {
		writer := &coloredLineConsoleWriter{
			Out:       os.Stdout,
			ErrOut:    os.Stderr,
			UseColors: isTerminal(os.Stdout),
		}

		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Logger = zerolog.New(writer).With().Logger()
	}
}
