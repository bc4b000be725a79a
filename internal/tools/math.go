package tools

import (
	"strings"

	"Mathagent/internal/mathexpr"
	"Mathagent/pkg/types"
)

// MathTool evaluates arithmetic expressions in the sandboxed evaluator
type MathTool struct{}

func (m *MathTool) Name() string {
	return "math"
}

func (m *MathTool) Description() string {
	return "Evaluates arithmetic expressions. Supports +, -, *, /, %, ** (or ^), parentheses and the functions " +
		strings.Join(mathexpr.Functions(), ", ") + "."
}

func (m *MathTool) Execute(input string) types.ToolResult {
	return mathexpr.Evaluate(input)
}
