package main

import (
	"fmt"
	"os"

	"patternbook/internal/config"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file and create the patterns directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ConfigPath()
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists at %s", path)
		}

		cfg := config.DefaultConfig()
		if flagPatternsDir != "" {
			cfg.PatternsDir = flagPatternsDir
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		if err := os.MkdirAll(cfg.PatternsDir, 0o755); err != nil {
			return fmt.Errorf("failed to create patterns directory: %w", err)
		}
		if err := cfg.Save(); err != nil {
			return err
		}

		fmt.Printf("Config written to %s\n", path)
		fmt.Printf("Patterns directory: %s\n", cfg.PatternsDir)
		return nil
	},
}
