package vocabulary

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aget-framework/aget-sub002/internal/tools"
	"github.com/aget-framework/aget-sub002/internal/vocab"
)

type LookupRequest struct {
	Term string `json:"term,omitempty"`
}

type LookupResponse struct {
	Found bool        `json:"found"`
	Term  *vocab.Term `json:"term,omitempty"`

	// Terms carries the full listing when no term was asked for.
	Terms []string `json:"terms,omitempty"`
}

type LookupTool struct {
	registry *vocab.Registry
}

func NewLookupTool(registry *vocab.Registry) *LookupTool {
	return &LookupTool{registry: registry}
}

func (t *LookupTool) Name() string {
	return "vocab_lookup"
}

func (t *LookupTool) Description() string {
	return "Look up a controlled vocabulary term, or list all terms"
}

func (t *LookupTool) Title() string {
	return "Vocabulary Lookup"
}

func (t *LookupTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *LookupTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"term": {
				"type": "string",
				"description": "Term name, any casing (omit to list all terms)"
			}
		},
		"required": []
	}`)
}

func (t *LookupTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if t.registry == nil {
		return nil, fmt.Errorf("no vocabulary is configured")
	}

	var req LookupRequest
	if len(input) > 0 {
		if err := json.Unmarshal(input, &req); err != nil {
			return nil, fmt.Errorf("invalid request: %w", err)
		}
	}

	if req.Term == "" {
		return &LookupResponse{Found: true, Terms: t.registry.Names()}, nil
	}

	term, ok := t.registry.Resolve(req.Term)
	if !ok {
		return &LookupResponse{Found: false}, nil
	}

	return &LookupResponse{Found: true, Term: term}, nil
}
