package sanitizer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aget-framework/aget-sub002/internal/sanitize"
	"github.com/aget-framework/aget-sub002/internal/tools"
	"github.com/aget-framework/aget-sub002/internal/validate"
)

type ApplyRequest struct {
	Root   string          `json:"root"`
	Rules  []sanitize.Rule `json:"rules"`
	DryRun bool            `json:"dry_run,omitempty"`
}

type FileChange struct {
	Path string             `json:"path"`
	Hits []sanitize.RuleHit `json:"hits"`
}

type ApplyResponse struct {
	Changed []FileChange `json:"changed"`
	DryRun  bool         `json:"dry_run"`
}

type ApplyTool struct {
	excludes []string
}

func NewApplyTool(excludes []string) *ApplyTool {
	return &ApplyTool{excludes: excludes}
}

func (t *ApplyTool) Name() string {
	return "sanitize_apply"
}

func (t *ApplyTool) Description() string {
	return "Apply literal find-and-replace sanitization rules to workspace documents"
}

func (t *ApplyTool) Title() string {
	return "Apply Sanitization Rules"
}

func (t *ApplyTool) Annotations() map[string]bool {
	return tools.DestructiveAnnotations()
}

func (t *ApplyTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"root": {
				"type": "string",
				"description": "Workspace root directory"
			},
			"rules": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"find": {"type": "string"},
						"replace": {"type": "string"}
					},
					"required": ["find", "replace"]
				},
				"description": "Literal replacement rules, applied longest find first"
			},
			"dry_run": {
				"type": "boolean",
				"description": "Report what would change without writing files"
			}
		},
		"required": ["root", "rules"]
	}`)
}

func (t *ApplyTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req ApplyRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if req.Root == "" {
		return nil, fmt.Errorf("root is required")
	}
	if len(req.Rules) == 0 {
		return nil, fmt.Errorf("at least one rule is required")
	}

	s, err := sanitize.New(req.Rules)
	if err != nil {
		return nil, err
	}

	ws := validate.NewWorkspace(req.Root, t.excludes)
	files, err := ws.MarkdownFiles()
	if err != nil {
		return nil, fmt.Errorf("walk workspace: %w", err)
	}

	resp := &ApplyResponse{DryRun: req.DryRun}

	for _, rel := range files {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		doc, err := ws.Load(rel)
		if err != nil {
			continue
		}

		result := s.Apply(doc.Content)
		if !result.Changed {
			continue
		}

		if !req.DryRun {
			path := filepath.Join(req.Root, filepath.FromSlash(rel))
			// Sanitized output is written back as UTF-8 whatever the
			// source encoding was.
			if err := os.WriteFile(path, []byte(result.Output), 0644); err != nil {
				return nil, fmt.Errorf("write %s: %w", rel, err)
			}
		}

		resp.Changed = append(resp.Changed, FileChange{Path: rel, Hits: result.Hits})
	}

	return resp, nil
}
