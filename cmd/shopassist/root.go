package main

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"shopassist/internal/config"
	"shopassist/internal/logging"
)

var (
	verbose        bool
	maxQueryLength int
)

var rootCmd = &cobra.Command{
	Use:   "shopassist",
	Short: "Shopping assistant for Jiji.com.gh",
	Long: `shopassist classifies shopping questions, extracts products, brands,
budgets and locations from them, and answers them in an interactive chat.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().IntVar(&maxQueryLength, "max-query-length", 0, "runes of each query to analyse (0 uses the default)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// cliLogger writes human-readable logs to stderr
func cliLogger(w io.Writer) zerolog.Logger {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logging.NewWithWriter(config.LoggingConfig{Level: level, Format: "console"}, w)
}
