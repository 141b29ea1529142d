package main

import (
	"fmt"

	"patternbook/internal/catalog"
	"patternbook/internal/ui"

	"github.com/spf13/cobra"
)

var (
	flagListCategory string
	flagListSearch   string
)

func init() {
	listCmd.Flags().StringVar(&flagListCategory, "category", "", "only list patterns in this category")
	listCmd.Flags().StringVar(&flagListSearch, "search", "", "filter patterns by keyword")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog patterns",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		cat, err := catalog.New(cfg.PatternsDir, logger)
		if err != nil {
			return err
		}

		var entries []catalog.Entry
		switch {
		case flagListCategory != "":
			entries, err = cat.ByCategory(flagListCategory)
		case flagListSearch != "":
			entries, err = cat.Search(flagListSearch)
		default:
			entries, err = cat.Scan()
		}
		if err != nil {
			return err
		}

		fmt.Print(ui.FormatEntryList(entries))
		return nil
	},
}
