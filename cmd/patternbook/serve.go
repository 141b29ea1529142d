package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"patternbook/internal/web"

	"github.com/spf13/cobra"
)

var flagHTTPAddr string

func init() {
	serveCmd.Flags().StringVar(&flagHTTPAddr, "addr", "", "listen address (overrides config)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pattern catalog over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		if flagHTTPAddr != "" {
			cfg.HTTPAddr = flagHTTPAddr
		}

		server, err := web.NewServer(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to create HTTP server: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return server.Start(ctx)
	},
}
