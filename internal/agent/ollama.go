package agent

import "Mathagent/pkg/types"

func init() {
	registerDialect(Dialect{
		Name: "ollama_chat",
		Build: func(t Target, messages []types.Message) Request {
			return Request{
				URL:    t.BaseURL + "/chat",
				Header: jsonHeader(),
				Body: map[string]any{
					"model":    t.Model,
					"messages": messages,
					"stream":   false,
				},
			}
		},
		Extract: func(body any) (string, bool) {
			obj, ok := body.(map[string]any)
			if !ok {
				return "", false
			}
			msg, ok := obj["message"].(map[string]any)
			if !ok {
				return "", false
			}
			content, ok := msg["content"].(string)
			return content, ok
		},
	})

	registerDialect(Dialect{
		Name: "ollama_generate",
		Build: func(t Target, messages []types.Message) Request {
			return Request{
				URL:    t.BaseURL + "/api/generate",
				Header: jsonHeader(),
				Body: map[string]any{
					"model":  t.Model,
					"prompt": flattenPrompt(messages),
					"stream": false,
				},
			}
		},
		Extract: func(body any) (string, bool) {
			obj, ok := body.(map[string]any)
			if !ok {
				return "", false
			}
			response, ok := obj["response"].(string)
			return response, ok
		},
	})
}
