package tools

import "fmt"

// JSON-RPC error codes surfaced by the registry.
const (
	CodeToolNotFound  = -32601
	CodeExecutionFail = -32603
)

type ToolError struct {
	Code    int
	Message string
}

func (e *ToolError) Error() string {
	return e.Message
}

func NewToolNotFoundError(name string) *ToolError {
	return &ToolError{
		Code:    CodeToolNotFound,
		Message: fmt.Sprintf("tool %q is not registered", name),
	}
}

func NewToolExecutionError(name string, err error) *ToolError {
	return &ToolError{
		Code:    CodeExecutionFail,
		Message: fmt.Sprintf("tool %q failed: %v", name, err),
	}
}
