package agent

import "Mathagent/pkg/types"

const completionMaxTokens = 512

func init() {
	registerDialect(Dialect{
		Name: "openai_chat",
		Build: func(t Target, messages []types.Message) Request {
			return Request{
				URL:    t.BaseURL + "/v1/chat/completions",
				Header: bearerHeader(t.APIKey),
				Body: map[string]any{
					"model":      t.Model,
					"messages":   messages,
					"max_tokens": completionMaxTokens,
				},
			}
		},
	})

	registerDialect(Dialect{
		Name: "openai_completion",
		Build: func(t Target, messages []types.Message) Request {
			return Request{
				URL:    t.BaseURL + "/v1/completions",
				Header: bearerHeader(t.APIKey),
				Body: map[string]any{
					"model":      t.Model,
					"prompt":     flattenPrompt(messages),
					"max_tokens": completionMaxTokens,
				},
			}
		},
	})
}
