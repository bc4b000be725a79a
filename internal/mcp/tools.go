package mcp

import (
	"context"
	"time"

	"Mathagent/internal/tools"
	"Mathagent/pkg/types"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// remoteCallTimeout bounds a single remote tool call
const remoteCallTimeout = 30 * time.Second

// RemoteTool is a registry tool backed by a tool on an MCP server
type RemoteTool struct {
	Client *Client
	Def    *mcp.Tool
}

func (t *RemoteTool) Name() string {
	return t.Def.Name
}

func (t *RemoteTool) Description() string {
	return t.Def.Description
}

func (t *RemoteTool) Execute(input string) types.ToolResult {
	ctx, cancel := context.WithTimeout(context.Background(), remoteCallTimeout)
	defer cancel()

	result, err := t.Client.CallTool(ctx, t.Def.Name, input)
	if err != nil {
		return types.ToolResult{OK: false, Error: err.Error()}
	}
	return result
}

// RegisterRemoteTools adds every tool of the client's server to registry,
// replacing local tools of the same name
func RegisterRemoteTools(client *Client, registry *tools.Registry) []string {
	names := make([]string, 0, len(client.Tools()))
	for _, def := range client.Tools() {
		registry.Register(&RemoteTool{Client: client, Def: def})
		names = append(names, def.Name)
	}
	return names
}
