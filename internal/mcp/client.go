package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"Mathagent/pkg/types"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CommandTransport starts command, split on whitespace, as an MCP server
// speaking over its stdin and stdout
func CommandTransport(command string) (mcp.Transport, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, errors.New("empty MCP server command")
	}
	return &mcp.CommandTransport{Command: exec.Command(fields[0], fields[1:]...)}, nil
}

// ConnectCommand starts an MCP server subprocess and connects to it
func ConnectCommand(ctx context.Context, command string) (*Client, error) {
	t, err := CommandTransport(command)
	if err != nil {
		return nil, err
	}
	client, err := Connect(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", command, err)
	}
	return client, nil
}

// Client is a session with one MCP server
type Client struct {
	session *mcp.ClientSession
	tools   []*mcp.Tool
}

// Connect opens a session over t and lists the server's tools
func Connect(ctx context.Context, t mcp.Transport) (*Client, error) {
	client := mcp.NewClient(&mcp.Implementation{
		Name:    implementationName,
		Version: implementationVersion,
	}, nil)

	session, err := client.Connect(ctx, t, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MCP server: %w", err)
	}

	list, err := session.ListTools(ctx, nil)
	if err != nil {
		session.Close()
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}

	return &Client{session: session, tools: list.Tools}, nil
}

// Tools returns the tools the server advertised at connect time
func (c *Client) Tools() []*mcp.Tool {
	return c.tools
}

// CallTool runs a remote tool. A reply that is not a result envelope is
// returned as a failed ToolResult carrying the raw text.
func (c *Client) CallTool(ctx context.Context, name, input string) (types.ToolResult, error) {
	res, err := c.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: map[string]any{"input": input},
	})
	if err != nil {
		return types.ToolResult{}, fmt.Errorf("tool call failed: %w", err)
	}

	var sb strings.Builder
	for _, content := range res.Content {
		if text, ok := content.(*mcp.TextContent); ok {
			sb.WriteString(text.Text)
		}
	}
	out := sb.String()

	var result types.ToolResult
	if err := json.Unmarshal([]byte(out), &result); err != nil || (!result.OK && result.Error == "") {
		return types.ToolResult{OK: false, Error: out}, nil
	}
	return result, nil
}

// Close ends the session
func (c *Client) Close() error {
	return c.session.Close()
}
