// Package cli wires the collect and serve commands to the application
// services.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/repopulse/repopulse/internal/config"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "repopulse",
	Short: "GitHub repository data collector and activity dashboard",
	Long: `repopulse pulls pull requests, issues, comments, and contributor
activity from GitHub into a local store, and serves a time-window
dashboard over the live and collected data.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(serveCmd)
}

// Execute runs the CLI. Errors have already been logged by the commands.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads configuration and installs the global logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := cfg.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	return cfg, nil
}
