package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"Mathagent/internal/config"
	"Mathagent/internal/logging"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with a private config file and no shared
// flag state from earlier runs
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	jsonOutput, verbose = false, false
	mcpServers = nil
	for _, cmd := range []*cobra.Command{askCmd, serveCmd} {
		cmd.Flags().Lookup("mcp-server").Changed = false
	}

	cfgPath := filepath.Join(t.TempDir(), "mathagent.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("fast_path: true\n"), 0600))

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func TestEvalCommand(t *testing.T) {
	out, err := execute(t, "", "eval", "12 * (3 + 4)")
	require.NoError(t, err)
	assert.Equal(t, "84\n", out)

	out, err = execute(t, "", "eval", "sqrt(16)")
	require.NoError(t, err)
	assert.Equal(t, "4.0\n", out)
}

func TestEvalCommandFailure(t *testing.T) {
	_, err := execute(t, "", "eval", "10", "/", "0")
	require.ErrorIs(t, err, errRunFailed)
	assert.Contains(t, err.Error(), "division by zero")
}

func TestAskMock(t *testing.T) {
	out, err := execute(t, "", "ask", "--mock", "hello")
	require.NoError(t, err)
	assert.Equal(t, "(mock) resultado do cálculo: 84\n", out)
}

func TestAskFastPath(t *testing.T) {
	out, err := execute(t, "", "ask", "--mock", "quanto", "é", "5", "mais", "3")
	require.NoError(t, err)
	assert.Equal(t, "8\n", out)
}

func TestAskReadsStdin(t *testing.T) {
	out, err := execute(t, "2 + 2\n\nhello\n", "ask", "--mock")
	require.NoError(t, err)
	assert.Equal(t, "4\n(mock) resultado do cálculo: 84\n", out)
}

func TestAskJSON(t *testing.T) {
	out, err := execute(t, "", "ask", "--mock", "--json", "raiz quadrada de 16")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true,"response":"4.0"}`, out)
}

func TestAskVerboseJSONStaysJSON(t *testing.T) {
	out, err := execute(t, "", "ask", "--mock", "-v", "--json", "hello")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true,"response":"(mock) resultado do cálculo: 84"}`, out)
}

func TestAskVerboseReport(t *testing.T) {
	out, err := execute(t, "", "ask", "--mock", "-v", "hello")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "(mock) resultado do cálculo: 84\n"))
	assert.Contains(t, out, "Model calls: 2")
	assert.Contains(t, out, "Tool calls:  1")
}

func TestToolRegistry(t *testing.T) {
	registry, closeTools, err := toolRegistry(context.Background(), config.Config{}, logging.Nop())
	require.NoError(t, err)
	defer closeTools()
	assert.Equal(t, []string{"math"}, registry.Names())

	_, _, err = toolRegistry(context.Background(), config.Config{MCPServers: []string{"/nonexistent/mathagent-mcp"}}, logging.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/nonexistent/mathagent-mcp")
}

func TestAskMCPServerFlag(t *testing.T) {
	_, err := execute(t, "", "ask", "--mock", "--mcp-server", "/nonexistent/mathagent-mcp", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/nonexistent/mathagent-mcp")

	out, err := execute(t, "", "ask", "--mock", "hello")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "250ms", FormatDuration(0.25))
	assert.Equal(t, "2.5s", FormatDuration(2.5))
	assert.Equal(t, "2m 5s", FormatDuration(125))
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := execute(t, "", "completion", shell)
			require.NoError(t, err)
			assert.Contains(t, out, "mathagent")
		})
	}

	_, err := execute(t, "", "completion", "tcsh")
	assert.Error(t, err)
}
