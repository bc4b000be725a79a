package agent

import "encoding/json"

// NormalizeReply reduces a decoded response body to reply text. Shapes are
// tried in order: a choices envelope (message content, then text), a string
// "text" field, an "output" field, a "result" field (serialized), a bare
// string. Anything else is serialized whole.
func NormalizeReply(body any) string {
	if obj, ok := body.(map[string]any); ok {
		if choices, ok := obj["choices"].([]any); ok && len(choices) > 0 {
			if first, ok := choices[0].(map[string]any); ok {
				if msg, ok := first["message"].(map[string]any); ok {
					if content, ok := msg["content"].(string); ok {
						return content
					}
				}
				if text, ok := first["text"].(string); ok {
					return text
				}
			}
		}
		if text, ok := obj["text"].(string); ok {
			return text
		}
		if output, ok := obj["output"]; ok {
			if s, ok := output.(string); ok {
				return s
			}
			return toJSON(output)
		}
		if result, ok := obj["result"]; ok {
			return toJSON(result)
		}
	}
	if s, ok := body.(string); ok {
		return s
	}
	return toJSON(body)
}

func toJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

func decodeInto(body any, out any) bool {
	data, err := json.Marshal(body)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, out) == nil
}
