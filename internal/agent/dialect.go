package agent

import (
	"fmt"
	"net/http"
	"strings"

	"Mathagent/pkg/types"
)

// Target is the endpoint a dialect builds requests for
type Target struct {
	BaseURL string
	Model   string
	APIKey  string
}

// Request is a dialect-specific HTTP request shape
type Request struct {
	URL    string
	Header http.Header
	Body   any
}

// Dialect is one request/response shape the client is willing to try.
// Build must be a pure function of its arguments.
type Dialect struct {
	Name  string
	Build func(t Target, messages []types.Message) Request

	// Extract reads the reply from a decoded body before the shared
	// normalization runs. Optional.
	Extract func(body any) (string, bool)
}

// DefaultDialectNames is the probe order used when none is configured
var DefaultDialectNames = []string{"openai_chat", "openai_completion", "ollama_chat", "ollama_generate"}

var dialects = map[string]Dialect{}

func registerDialect(d Dialect) {
	dialects[d.Name] = d
}

// DefaultDialects returns the default probe order
func DefaultDialects() []Dialect {
	ds, _ := DialectsByName(DefaultDialectNames)
	return ds
}

// DialectsByName resolves names to dialects, keeping their order
func DialectsByName(names []string) ([]Dialect, error) {
	result := make([]Dialect, 0, len(names))
	for _, name := range names {
		d, ok := dialects[strings.TrimSpace(name)]
		if !ok {
			return nil, fmt.Errorf("unknown dialect: %s", name)
		}
		result = append(result, d)
	}
	return result, nil
}

// KnownDialects reports whether every name is a registered dialect
func KnownDialects(names []string) error {
	_, err := DialectsByName(names)
	return err
}

// flattenPrompt renders a conversation as "role: content" lines
func flattenPrompt(messages []types.Message) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Role, m.Content))
	}
	return strings.Join(lines, "\n")
}

func jsonHeader() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	return h
}

func bearerHeader(apiKey string) http.Header {
	h := jsonHeader()
	if apiKey != "" {
		h.Set("Authorization", "Bearer "+apiKey)
	}
	return h
}
