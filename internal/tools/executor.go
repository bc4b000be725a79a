package tools

import (
	"errors"
	"fmt"

	"Mathagent/pkg/types"
)

// ErrUnknownTool is matched by errors for tool names missing from a registry
var ErrUnknownTool = errors.New("unknown tool")

// UnknownToolError names the tool that could not be found
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("Unknown tool: %s", e.Name)
}

func (e *UnknownToolError) Is(target error) bool {
	return target == ErrUnknownTool
}

// Dispatch runs a parsed tool call. Tool failures are part of the result;
// the error is only set when the tool does not exist.
func (r *Registry) Dispatch(call types.ToolCall) (types.ToolResult, error) {
	tool, ok := r.Get(call.Name)
	if !ok {
		return types.ToolResult{}, &UnknownToolError{Name: call.Name}
	}
	return tool.Execute(call.Input), nil
}
