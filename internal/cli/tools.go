/*
Copyright © 2026 Mathagent Authors
*/
package cli

import (
	"context"

	"Mathagent/internal/config"
	"Mathagent/internal/logging"
	"Mathagent/internal/mcp"
	"Mathagent/internal/tools"
)

var mcpServers []string

// toolRegistry returns the built-in tools plus the tools of every configured
// MCP server. The returned func ends the server sessions.
func toolRegistry(ctx context.Context, cfg config.Config, logger *logging.Logger) (*tools.Registry, func(), error) {
	registry := tools.DefaultRegistry()

	var clients []*mcp.Client
	closeAll := func() {
		for _, c := range clients {
			if err := c.Close(); err != nil {
				logger.Debug("closing MCP session", "error", err)
			}
		}
	}

	for _, command := range cfg.MCPServers {
		client, err := mcp.ConnectCommand(ctx, command)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		clients = append(clients, client)
		names := mcp.RegisterRemoteTools(client, registry)
		logger.Debug("registered MCP tools", "server", command, "tools", names)
	}
	return registry, closeAll, nil
}
