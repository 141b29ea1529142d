package main

import (
	"fmt"
	"os"

	"patternbook/internal/catalog"
	"patternbook/internal/ui"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var viewCmd = &cobra.Command{
	Use:   "view <category> <name>",
	Short: "Render a single pattern in the terminal",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		cat, err := catalog.New(cfg.PatternsDir, logger)
		if err != nil {
			return err
		}

		content, err := cat.Read(args[0], args[1])
		if err != nil {
			return err
		}

		width := 0
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
		}

		rendered, err := ui.RenderMarkdown(content, width)
		if err != nil {
			return err
		}

		fmt.Print(rendered)
		return nil
	},
}
