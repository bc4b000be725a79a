package types

import "encoding/json"

// ToolCall is a tool request parsed from model output.
type ToolCall struct {
	Name  string `json:"name"`
	Input string `json:"input"`
}

// ToolResult is the outcome of a tool execution. Result holds the rendered
// number and is emitted as a bare JSON number.
type ToolResult struct {
	OK     bool
	Result string
	Error  string
}

// Text returns the result for display: the number, or the error message.
func (r ToolResult) Text() string {
	if r.OK {
		return r.Result
	}
	return r.Error
}

func (r ToolResult) MarshalJSON() ([]byte, error) {
	if !r.OK {
		return json.Marshal(struct {
			OK    bool   `json:"ok"`
			Error string `json:"error"`
		}{false, r.Error})
	}

	var result any = json.RawMessage(r.Result)
	if !json.Valid([]byte(r.Result)) {
		result = r.Result
	}
	return json.Marshal(struct {
		OK     bool `json:"ok"`
		Result any  `json:"result"`
	}{true, result})
}

func (r *ToolResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		OK     bool            `json:"ok"`
		Result json.RawMessage `json:"result"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.OK, r.Error, r.Result = raw.OK, raw.Error, ""
	if len(raw.Result) > 0 {
		var s string
		if err := json.Unmarshal(raw.Result, &s); err == nil {
			r.Result = s
		} else {
			r.Result = string(raw.Result)
		}
	}
	return nil
}
