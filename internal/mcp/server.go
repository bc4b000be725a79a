// Package mcp exposes the tool registry as a Model Context Protocol server
// and lets registry tools be backed by a remote MCP server.
package mcp

import (
	"context"
	"encoding/json"

	"Mathagent/internal/logging"
	"Mathagent/internal/tools"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	implementationName    = "mathagent"
	implementationVersion = "1.0.0"
)

// ToolInput is the argument object every exposed tool accepts
type ToolInput struct {
	Input string `json:"input" jsonschema:"the text passed to the tool, for math an arithmetic expression such as 2+2"`
}

// NewServer builds an MCP server with one MCP tool per registry tool
func NewServer(registry *tools.Registry, logger *logging.Logger) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    implementationName,
		Version: implementationVersion,
	}, nil)

	for _, tool := range registry.All() {
		mcp.AddTool(server, &mcp.Tool{
			Name:        tool.Name(),
			Description: tool.Description(),
		}, handlerFor(tool, logger))
	}
	return server
}

// Serve runs the server over stdin/stdout until ctx is done or the client
// disconnects
func Serve(ctx context.Context, registry *tools.Registry, logger *logging.Logger) error {
	return NewServer(registry, logger).Run(ctx, &mcp.StdioTransport{})
}

func handlerFor(tool tools.Tool, logger *logging.Logger) mcp.ToolHandlerFor[ToolInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in ToolInput) (*mcp.CallToolResult, any, error) {
		result := tool.Execute(in.Input)
		logger.LogToolCall(tool.Name(), in.Input, result.Text())

		// the envelope is the same one the orchestrator feeds back to the model
		data, err := json.Marshal(result)
		if err != nil {
			return nil, nil, err
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
			IsError: !result.OK,
		}, nil, nil
	}
}
