package engine

import (
	"strings"

	"Mathagent/internal/tools"
)

const instruction = `You are an assistant that can either answer directly or request to run a tool. ` +
	`When requesting a tool, reply ONLY with a JSON object exactly in one of the formats:
1) {"response": "..."}  OR
2) {"tool": {"name": "math", "input": "2+2"}}
Do not add any other text.`

// SystemPrompt is the instruction placed first in every conversation
func SystemPrompt(registry *tools.Registry) string {
	var sb strings.Builder
	sb.WriteString(instruction)
	if desc := tools.FormatToolsForPrompt(registry.All()); desc != "" {
		sb.WriteString("\n")
		sb.WriteString(desc)
	}
	return strings.TrimRight(sb.String(), "\n")
}
