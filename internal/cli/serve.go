/*
Copyright © 2026 Mathagent Authors
*/
package cli

import (
	"os"
	"os/signal"
	"syscall"

	"Mathagent/internal/backend"
	"Mathagent/internal/server"

	"github.com/spf13/cobra"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat endpoint over HTTP",
	Long: `Serve starts the HTTP endpoint.

Routes:
  POST /chat        {"message": "..."} -> {"response": "..."}
  GET  /            health check

Examples:
  mathagent serve
  mathagent serve --port 9000 --mock`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("host") {
			cfg.Host = serveHost
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}

		logger, err := newLogger(cmd, cfg)
		if err != nil {
			return err
		}
		defer logger.Close()

		registry, closeTools, err := toolRegistry(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer closeTools()

		runner, err := backend.New(cfg, registry, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Log("starting server", "backend", cfg.EffectiveBackend(), "model", cfg.Model, "mock", cfg.Mock)
		return server.New(runner, cfg.MaxSteps, logger).ListenAndServe(ctx, cfg.Addr())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringArrayVar(&mcpServers, "mcp-server", nil, "MCP server command whose tools are added (repeatable)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (default 127.0.0.1)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default 8000)")
}
