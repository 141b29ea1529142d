package main

import (
	"fmt"

	"patternbook/internal/mcp"

	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the pattern catalog over MCP stdio",
	Long: `Start the Model Context Protocol server on stdin/stdout. This is the
command an assistant's MCP client configuration should launch; all logging
goes to stderr (or a debug log file) so stdout stays a clean protocol stream.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		server, err := mcp.NewServer(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to create MCP server: %w", err)
		}

		return server.Start()
	},
}
