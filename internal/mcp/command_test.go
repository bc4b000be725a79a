package mcp

import (
	"context"
	"os"
	"testing"

	"Mathagent/internal/tools"
	"Mathagent/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serverEnv turns the test binary into a stdio MCP server
const serverEnv = "MATHAGENT_MCP_TEST_SERVER"

func TestMain(m *testing.M) {
	if os.Getenv(serverEnv) == "1" {
		if err := Serve(context.Background(), tools.DefaultRegistry(), nil); err != nil {
			os.Exit(1)
		}
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func TestConnectCommand(t *testing.T) {
	t.Setenv(serverEnv, "1")
	ctx := context.Background()

	client, err := ConnectCommand(ctx, os.Args[0])
	require.NoError(t, err)
	defer client.Close()

	registry := tools.NewRegistry()
	assert.Equal(t, []string{"math"}, RegisterRemoteTools(client, registry))

	res, err := client.CallTool(ctx, "math", "2**10")
	require.NoError(t, err)
	assert.Equal(t, types.ToolResult{OK: true, Result: "1024"}, res)
}

func TestConnectCommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		command string
		errMsg  string
	}{
		{"empty", "", "empty MCP server command"},
		{"blank", "   ", "empty MCP server command"},
		{"missing binary", "/nonexistent/mathagent-mcp --stdio", "/nonexistent/mathagent-mcp --stdio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ConnectCommand(context.Background(), tt.command)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
