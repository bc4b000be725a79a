package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"Mathagent/pkg/types"

	"github.com/kaptinlin/jsonrepair"
)

type replyKind int

const (
	replyAnswer replyKind = iota
	replyTool
)

// reply is an interpreted model output
type reply struct {
	kind   replyKind
	answer string
	call   types.ToolCall
	parsed any
}

// interpret classifies a model reply. It never fails: text that is not
// structured data is taken as the answer.
func interpret(text string) reply {
	parsed, ok := decodeReply(text)
	if !ok {
		return reply{kind: replyAnswer, answer: strings.TrimSpace(text)}
	}

	obj, isObject := parsed.(map[string]any)
	if !isObject {
		return reply{kind: replyAnswer, answer: encode(parsed), parsed: parsed}
	}

	if response, ok := obj["response"]; ok {
		if s, ok := response.(string); ok {
			return reply{kind: replyAnswer, answer: s, parsed: parsed}
		}
		return reply{kind: replyAnswer, answer: encode(response), parsed: parsed}
	}

	if tool, ok := obj["tool"]; ok {
		var call types.ToolCall
		switch t := tool.(type) {
		case map[string]any:
			call.Name = inputText(t["name"])
			call.Input = inputText(t["input"])
		case string:
			call.Name = t
			call.Input = inputText(obj["input"])
		default:
			call.Name = encode(t)
		}
		return reply{kind: replyTool, call: call, parsed: parsed}
	}

	return reply{kind: replyAnswer, answer: encode(parsed), parsed: parsed}
}

// decodeReply parses text as JSON. Text that looks like an object or a
// fenced block gets one repair attempt.
func decodeReply(text string) (any, bool) {
	text = strings.TrimSpace(text)
	if v, err := decodeJSON(text); err == nil {
		return v, true
	}

	if !strings.HasPrefix(text, "{") && !strings.HasPrefix(text, "```") {
		return nil, false
	}

	text = stripFences(text)
	if v, err := decodeJSON(text); err == nil {
		return v, true
	}

	repaired, err := jsonrepair.JSONRepair(text)
	if err != nil {
		return nil, false
	}
	v, err := decodeJSON(repaired)
	if err != nil {
		return nil, false
	}
	if _, ok := v.(map[string]any); !ok {
		return nil, false
	}
	return v, true
}

func decodeJSON(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}

func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSpace(text)
	return strings.TrimSpace(strings.TrimSuffix(text, "```"))
}

func inputText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return encode(t)
	}
}

// encode serializes v without HTML escaping
func encode(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
