package agent

import (
	"fmt"
	"net/url"

	"Mathagent/pkg/types"
)

func init() {
	registerDialect(Dialect{
		Name: "gemini_generate",
		Build: func(t Target, messages []types.Message) Request {
			var system []map[string]string
			contents := make([]map[string]any, 0, len(messages))
			for _, m := range messages {
				part := map[string]string{"text": m.Content}
				switch m.Role {
				case types.RoleSystem:
					system = append(system, part)
				case types.RoleAssistant:
					contents = append(contents, map[string]any{"role": "model", "parts": []map[string]string{part}})
				default:
					contents = append(contents, map[string]any{"role": "user", "parts": []map[string]string{part}})
				}
			}

			u := fmt.Sprintf("%s/v1beta/models/%s:generateContent", t.BaseURL, url.PathEscape(t.Model))
			if t.APIKey != "" {
				u += "?key=" + url.QueryEscape(t.APIKey)
			}

			body := map[string]any{"contents": contents}
			if len(system) > 0 {
				body["systemInstruction"] = map[string]any{"parts": system}
			}
			return Request{URL: u, Header: jsonHeader(), Body: body}
		},
		Extract: func(body any) (string, bool) {
			var result struct {
				Candidates []struct {
					Content struct {
						Parts []struct {
							Text string `json:"text"`
						} `json:"parts"`
					} `json:"content"`
				} `json:"candidates"`
			}
			if !decodeInto(body, &result) {
				return "", false
			}
			if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
				return "", false
			}
			return result.Candidates[0].Content.Parts[0].Text, true
		},
	})
}
