package agent

import (
	"context"

	"Mathagent/pkg/types"
)

// LLMClient turns a conversation into a single reply text
type LLMClient interface {
	Chat(ctx context.Context, messages []types.Message) (string, error)
}
