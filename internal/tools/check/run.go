package check

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aget-framework/aget-sub002/internal/scan"
	"github.com/aget-framework/aget-sub002/internal/tools"
)

type RunRequest struct {
	Root       string   `json:"root"`
	Validators []string `json:"validators,omitempty"`
	Background bool     `json:"background,omitempty"`
}

type RunTool struct {
	worker *scan.Worker
}

func NewRunTool(worker *scan.Worker) *RunTool {
	return &RunTool{worker: worker}
}

func (t *RunTool) Name() string {
	return "check_run"
}

func (t *RunTool) Description() string {
	return "Run compliance validators against an agent workspace and return the report"
}

func (t *RunTool) Title() string {
	return "Run Compliance Checks"
}

func (t *RunTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *RunTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"root": {
				"type": "string",
				"description": "Workspace root directory to validate"
			},
			"validators": {
				"type": "array",
				"items": {"type": "string"},
				"description": "Validator names to run (default: all)"
			},
			"background": {
				"type": "boolean",
				"description": "Queue the scan instead of waiting for the report"
			}
		},
		"required": ["root"]
	}`)
}

func (t *RunTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req RunRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	if req.Root == "" {
		return nil, fmt.Errorf("root is required")
	}
	if info, err := os.Stat(req.Root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("root is not a readable directory: %s", req.Root)
	}

	job := scan.Job{Root: req.Root, Validators: req.Validators}

	if req.Background {
		job.Priority = scan.PriorityHigh
		if !t.worker.Enqueue(job) {
			return nil, fmt.Errorf("scan queue is full")
		}
		return map[string]interface{}{"queued": true, "root": req.Root}, nil
	}

	report, err := t.worker.RunNow(ctx, job)
	if err != nil {
		return nil, err
	}
	return report, nil
}
