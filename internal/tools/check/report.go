package check

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aget-framework/aget-sub002/internal/findings"
	"github.com/aget-framework/aget-sub002/internal/tools"
)

type ReportRequest struct {
	RunID string `json:"run_id"`
}

type ReportTool struct {
	store *findings.Store
}

func NewReportTool(store *findings.Store) *ReportTool {
	return &ReportTool{store: store}
}

func (t *ReportTool) Name() string {
	return "check_report"
}

func (t *ReportTool) Description() string {
	return "Fetch the full report of a past validation run by its run ID"
}

func (t *ReportTool) Title() string {
	return "Get Check Report"
}

func (t *ReportTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *ReportTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"run_id": {
				"type": "string",
				"description": "Run identifier returned by check_run"
			}
		},
		"required": ["run_id"]
	}`)
}

func (t *ReportTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req ReportRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	if req.RunID == "" {
		return nil, fmt.Errorf("run_id is required")
	}

	report, err := t.store.GetRun(req.RunID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("no run with id %s", req.RunID)
	}

	return report, nil
}
