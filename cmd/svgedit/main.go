package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/inamate/svgedit/internal/config"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "svgedit",
	Short: "Offline tools for the svgedit editing engine",
	Long: `svgedit drives the SVG editing engine outside the browser.

It replays recorded gesture scripts against SVG files, computes fitted
viewBoxes, and issues session tokens for the editing server.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log editor gestures to stderr")
}

// loadConfig reads the server environment so the CLI edits with the same
// tuning and signs with the same secret.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
