package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/marcus/modalstack/internal/config"
	"github.com/marcus/modalstack/internal/logging"
	"github.com/spf13/cobra"
)

var (
	version string
	baseDir string
	verbose bool
)

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "modalstack",
	Short: "Stacked modal dialogs for terminal UIs",
	Long: `modalstack - A modal dialog stack for bubbletea programs.

Dialogs are registered by name, opened on top of each other and closed by
name, from the top, or all at once. Only the top dialog is shown and receives
input; the ones underneath keep their state.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initBaseDir)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&baseDir, "dir", "", "directory holding .modalstack/config.toml (default: working directory)")
}

func initBaseDir() {
	if baseDir != "" {
		return
	}
	var err error
	baseDir, err = os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot determine working directory: %v\n", err)
		os.Exit(1)
	}
}

// getBaseDir returns the directory the config is read from
func getBaseDir() string {
	return baseDir
}

// loadConfig reads the config and builds the logger it asks for. --verbose
// wins over the configured level.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(getBaseDir())
	if err != nil {
		return nil, nil, fmt.Errorf("load config %s: %w", config.Path(getBaseDir()), err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	return cfg, logging.New(os.Stderr, logging.ParseLevel(level)), nil
}
