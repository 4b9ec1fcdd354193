package vocabulary

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aget-framework/aget-sub002/internal/tools"
	"github.com/aget-framework/aget-sub002/internal/validate"
	"github.com/aget-framework/aget-sub002/internal/vocab"
)

type CheckRequest struct {
	Root string `json:"root,omitempty"`
	Text string `json:"text,omitempty"`
}

type FileMiscasings struct {
	Path       string            `json:"path"`
	Miscasings []vocab.Miscasing `json:"miscasings"`
}

type CheckResponse struct {
	Clean      bool              `json:"clean"`
	Miscasings []vocab.Miscasing `json:"miscasings,omitempty"`
	Files      []FileMiscasings  `json:"files,omitempty"`
}

type CheckTool struct {
	registry *vocab.Registry
	excludes []string
}

func NewCheckTool(registry *vocab.Registry, excludes []string) *CheckTool {
	return &CheckTool{registry: registry, excludes: excludes}
}

func (t *CheckTool) Name() string {
	return "vocab_check"
}

func (t *CheckTool) Description() string {
	return "Check a text snippet or a whole workspace for controlled vocabulary terms used with the wrong casing"
}

func (t *CheckTool) Title() string {
	return "Vocabulary Casing Check"
}

func (t *CheckTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *CheckTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"root": {
				"type": "string",
				"description": "Workspace root whose Markdown documents are checked; mutually exclusive with text"
			},
			"text": {
				"type": "string",
				"description": "Text to check against the vocabulary; mutually exclusive with root"
			}
		}
	}`)
}

func (t *CheckTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	if t.registry == nil {
		return nil, fmt.Errorf("no vocabulary is configured")
	}

	var req CheckRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if req.Root == "" && req.Text == "" {
		return nil, fmt.Errorf("either root or text is required")
	}
	if req.Root != "" && req.Text != "" {
		return nil, fmt.Errorf("root and text are mutually exclusive")
	}

	if req.Text != "" {
		hits := t.registry.Scan(req.Text)
		return &CheckResponse{Clean: len(hits) == 0, Miscasings: hits}, nil
	}

	return t.checkWorkspace(ctx, req.Root)
}

func (t *CheckTool) checkWorkspace(ctx context.Context, root string) (*CheckResponse, error) {
	ws := validate.NewWorkspace(root, t.excludes)
	files, err := ws.MarkdownFiles()
	if err != nil {
		return nil, fmt.Errorf("walk workspace: %w", err)
	}

	resp := &CheckResponse{Clean: true}

	for _, rel := range files {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		doc, err := ws.Load(rel)
		if err != nil {
			continue
		}

		hits := t.registry.Scan(doc.Content)
		if len(hits) == 0 {
			continue
		}

		resp.Clean = false
		resp.Files = append(resp.Files, FileMiscasings{Path: rel, Miscasings: hits})
	}

	return resp, nil
}
