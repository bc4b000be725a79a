/*
Copyright © 2026 Mathagent Authors
*/
package cli

import (
	"os"
	"os/signal"

	"Mathagent/internal/mcp"
	"Mathagent/internal/tools"

	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the tools over the Model Context Protocol",
	Long: `MCP exposes the built-in tools (math) to MCP clients over stdin/stdout.
Logs go to stderr so the protocol stream stays clean.

Example client entry:
  {"command": "mathagent", "args": ["mcp"]}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(cmd, cfg)
		if err != nil {
			return err
		}
		defer logger.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		logger.Debug("serving MCP over stdio")
		return mcp.Serve(ctx, tools.DefaultRegistry(), logger)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
