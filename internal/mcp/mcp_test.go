package mcp

import (
	"context"
	"testing"

	"Mathagent/internal/agent"
	"Mathagent/internal/engine"
	"Mathagent/internal/tools"
	"Mathagent/pkg/types"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connectInMemory(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ss, err := NewServer(tools.DefaultRegistry(), nil).Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ss.Close() })

	client, err := Connect(ctx, clientTransport)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestServerListsRegistryTools(t *testing.T) {
	client := connectInMemory(t)

	require.Len(t, client.Tools(), 1)
	def := client.Tools()[0]
	assert.Equal(t, "math", def.Name)
	assert.Contains(t, def.Description, "sqrt")
	assert.NotNil(t, def.InputSchema)
}

func TestCallTool(t *testing.T) {
	client := connectInMemory(t)
	ctx := context.Background()

	tests := []struct {
		input    string
		expected types.ToolResult
	}{
		{"2+2", types.ToolResult{OK: true, Result: "4"}},
		{"sqrt(16)", types.ToolResult{OK: true, Result: "4.0"}},
		{"10/0", types.ToolResult{OK: false, Error: "division by zero"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res, err := client.CallTool(ctx, "math", tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, res)
		})
	}
}

func TestRemoteToolsDriveOrchestrator(t *testing.T) {
	client := connectInMemory(t)

	registry := tools.NewRegistry()
	names := RegisterRemoteTools(client, registry)
	assert.Equal(t, []string{"math"}, names)

	tool, ok := registry.Get("math")
	require.True(t, ok)
	assert.Equal(t, types.ToolResult{OK: true, Result: "84"}, tool.Execute("12*(3+4)"))

	out := engine.NewOrchestrator(&agent.MockClient{}, registry).Run(context.Background(), "hello", 3)
	assert.Equal(t, types.Success("(mock) resultado do cálculo: 84"), out)
}
