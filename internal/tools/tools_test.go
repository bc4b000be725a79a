package tools

import (
	"errors"
	"strings"
	"testing"

	"Mathagent/pkg/types"
)

func TestMathTool(t *testing.T) {
	math := &MathTool{}

	tests := []struct {
		input    string
		expected string
	}{
		{"2 + 2", "4"},
		{"10 * 5", "50"},
		{"100 / 4", "25.0"},
		{"2 ^ 10", "1024"},
		{"sqrt(16)", "4.0"},
		{"12*(3+4)", "84"},
	}

	for _, tt := range tests {
		result := math.Execute(tt.input)
		if !result.OK {
			t.Errorf("math.Execute(%q) error: %s", tt.input, result.Error)
			continue
		}
		if result.Result != tt.expected {
			t.Errorf("math.Execute(%q) = %q, want %q", tt.input, result.Result, tt.expected)
		}
	}
}

func TestMathToolErrors(t *testing.T) {
	math := &MathTool{}

	for _, input := range []string{"10/0", "__import__('os')", "x * 2"} {
		result := math.Execute(input)
		if result.OK {
			t.Errorf("math.Execute(%q) succeeded with %q, want error", input, result.Result)
		}
		if result.Error == "" {
			t.Errorf("math.Execute(%q) returned an empty error", input)
		}
	}
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()

	if names := r.Names(); len(names) != 1 || names[0] != "math" {
		t.Fatalf("expected [math], got %v", names)
	}

	if _, ok := r.Get("weather"); ok {
		t.Error("expected weather to be missing")
	}

	prompt := FormatToolsForPrompt(r.All())
	if !strings.Contains(prompt, "- math: ") {
		t.Errorf("prompt does not describe math tool: %q", prompt)
	}
	if FormatToolsForPrompt(nil) != "" {
		t.Error("expected empty prompt for no tools")
	}
}

func TestDispatch(t *testing.T) {
	r := DefaultRegistry()

	result, err := r.Dispatch(types.ToolCall{Name: "math", Input: "10/0"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.OK || result.Error != "division by zero" {
		t.Errorf("unexpected result: %+v", result)
	}

	_, err = r.Dispatch(types.ToolCall{Name: "weather", Input: "Lisbon"})
	if !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
	if err.Error() != "Unknown tool: weather" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}
