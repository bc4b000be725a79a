package agent

import (
	"strings"

	"Mathagent/pkg/types"
)

func init() {
	registerDialect(Dialect{
		Name: "anthropic_messages",
		Build: func(t Target, messages []types.Message) Request {
			var system []string
			turns := make([]types.Message, 0, len(messages))
			for _, m := range messages {
				if m.Role == types.RoleSystem {
					system = append(system, m.Content)
					continue
				}
				turns = append(turns, m)
			}

			h := jsonHeader()
			h.Set("anthropic-version", "2023-06-01")
			if t.APIKey != "" {
				h.Set("x-api-key", t.APIKey)
			}

			body := map[string]any{
				"model":      t.Model,
				"max_tokens": completionMaxTokens,
				"messages":   turns,
			}
			if len(system) > 0 {
				body["system"] = strings.Join(system, "\n\n")
			}
			return Request{URL: t.BaseURL + "/v1/messages", Header: h, Body: body}
		},
		Extract: func(body any) (string, bool) {
			obj, ok := body.(map[string]any)
			if !ok {
				return "", false
			}
			content, ok := obj["content"].([]any)
			if !ok {
				return "", false
			}
			for _, block := range content {
				b, ok := block.(map[string]any)
				if !ok || b["type"] != "text" {
					continue
				}
				if text, ok := b["text"].(string); ok {
					return text, true
				}
			}
			return "", false
		},
	})
}
