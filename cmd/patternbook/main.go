package main

import (
	"fmt"
	"os"

	"patternbook/internal/config"
	"patternbook/internal/logging"

	"github.com/spf13/cobra"
)

var (
	// Version information - set at build time
	Version = "dev"

	// --dir overrides the configured patterns directory for any command.
	flagPatternsDir string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "patternbook",
		Short: "Read-only markdown pattern catalog server",
		Long: `Patternbook serves a directory of markdown pattern files, organized as
<root>/<category>/<name>.md, to AI coding assistants over the Model Context
Protocol and to everything else over a small REST API.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flagPatternsDir, "dir", "", "patterns directory (overrides config)")

	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration for a command: config file,
// environment overrides, then the --dir flag.
func loadConfig() (*config.Config, *logging.AppLogger, error) {
	logger := logging.GetDefault()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if flagPatternsDir != "" {
		cfg.PatternsDir = flagPatternsDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, logger, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the patternbook version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("patternbook %s\n", Version)
	},
}
