// Package tools defines the tool contract exposed over MCP and the
// registry the daemon serves them from.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type Tool interface {
	Name() string
	Description() string
	Schema() json.RawMessage
	Execute(ctx context.Context, input json.RawMessage) (interface{}, error)
}

// AnnotatedTool additionally carries MCP tool annotations so clients can
// distinguish read-only calls from writes.
type AnnotatedTool interface {
	Tool
	Title() string
	Annotations() map[string]bool
}

type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

func (r *Registry) Register(tool Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Name()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool already registered: %s", name)
	}

	r.tools[name] = tool
	return nil
}

func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

func (r *Registry) Execute(ctx context.Context, name string, input json.RawMessage) (interface{}, error) {
	tool, ok := r.Get(name)
	if !ok {
		return nil, NewToolNotFoundError(name)
	}

	result, err := tool.Execute(ctx, input)
	if err != nil {
		return nil, NewToolExecutionError(name, err)
	}
	return result, nil
}

func (r *Registry) ExecuteWithTimeout(name string, input json.RawMessage, timeout time.Duration) (interface{}, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return r.Execute(ctx, name, input)
}

func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		result = append(result, tool)
	}
	return result
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	return names
}
