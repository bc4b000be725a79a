package agent

import (
	"context"
	"encoding/json"

	"Mathagent/pkg/types"
)

// MockExpression is what MockClient asks the math tool to evaluate
const MockExpression = "12*(3+4)"

// MockClient is an offline LLMClient. It requests the math tool once and
// answers with the tool result when one is present in the conversation.
type MockClient struct{}

func (m *MockClient) Chat(ctx context.Context, messages []types.Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	for i := len(messages) - 1; i >= 0; i-- {
		msg := messages[i]
		if msg.Role != types.RoleAssistant {
			continue
		}
		var envelope struct {
			ToolResult *types.ToolResult `json:"tool_result"`
		}
		if json.Unmarshal([]byte(msg.Content), &envelope) == nil && envelope.ToolResult != nil {
			return toJSON(map[string]string{
				"response": "(mock) resultado do cálculo: " + envelope.ToolResult.Text(),
			}), nil
		}
	}

	return toJSON(map[string]any{
		"tool": map[string]string{"name": "math", "input": MockExpression},
	}), nil
}
