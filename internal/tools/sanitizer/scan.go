package sanitizer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aget-framework/aget-sub002/internal/sanitize"
	"github.com/aget-framework/aget-sub002/internal/tools"
	"github.com/aget-framework/aget-sub002/internal/validate"
)

type ScanRequest struct {
	Root string `json:"root,omitempty"`
	Text string `json:"text,omitempty"`
}

type FileDetections struct {
	Path       string               `json:"path"`
	Detections []sanitize.Detection `json:"detections"`
}

type ScanResponse struct {
	Files      []FileDetections     `json:"files,omitempty"`
	Detections []sanitize.Detection `json:"detections,omitempty"`
	Total      int                  `json:"total"`
	Detectors  []string             `json:"detectors"`
}

type ScanTool struct {
	excludes []string
}

func NewScanTool(excludes []string) *ScanTool {
	return &ScanTool{excludes: excludes}
}

func (t *ScanTool) Name() string {
	return "sanitize_scan"
}

func (t *ScanTool) Description() string {
	return "Scan a workspace or a text snippet for PII and secret-shaped strings before publication"
}

func (t *ScanTool) Title() string {
	return "Scan for Sensitive Content"
}

func (t *ScanTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *ScanTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"root": {
				"type": "string",
				"description": "Workspace root directory to scan; mutually exclusive with text"
			},
			"text": {
				"type": "string",
				"description": "Text snippet to scan; mutually exclusive with root"
			}
		}
	}`)
}

func (t *ScanTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req ScanRequest
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
		detections := sanitize.Detect(req.Text)
		return &ScanResponse{
			Detections: detections,
			Total:      len(detections),
			Detectors:  sanitize.DetectorNames(),
		}, nil
	}

	ws := validate.NewWorkspace(req.Root, t.excludes)
	files, err := ws.MarkdownFiles()
	if err != nil {
		return nil, fmt.Errorf("walk workspace: %w", err)
	}

	resp := &ScanResponse{Detectors: sanitize.DetectorNames()}

	for _, rel := range files {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		doc, err := ws.Load(rel)
		if err != nil {
			continue
		}

		detections := sanitize.Detect(doc.Content)
		if len(detections) == 0 {
			continue
		}

		resp.Files = append(resp.Files, FileDetections{Path: rel, Detections: detections})
		resp.Total += len(detections)
	}

	return resp, nil
}
