package types

import "encoding/json"

// Role is the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a conversation transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Outcome is the result of one agent invocation.
type Outcome struct {
	OK       bool
	Response string
	Error    string

	// Err keeps the classified failure for callers; it is not serialized.
	Err error
}

// Success builds a successful outcome.
func Success(response string) Outcome {
	return Outcome{OK: true, Response: response}
}

// Failure builds a failed outcome from err.
func Failure(err error) Outcome {
	return Outcome{OK: false, Error: err.Error(), Err: err}
}

// MarshalJSON emits {"ok":true,"response":...} or {"ok":false,"error":...}.
func (o Outcome) MarshalJSON() ([]byte, error) {
	if o.OK {
		return json.Marshal(struct {
			OK       bool   `json:"ok"`
			Response string `json:"response"`
		}{true, o.Response})
	}
	return json.Marshal(struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}{false, o.Error})
}
