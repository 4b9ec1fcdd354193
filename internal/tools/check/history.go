package check

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aget-framework/aget-sub002/internal/findings"
	"github.com/aget-framework/aget-sub002/internal/tools"
)

type HistoryRequest struct {
	Limit int  `json:"limit,omitempty"`
	Stats bool `json:"stats,omitempty"`
}

type HistoryResponse struct {
	Runs  []findings.RunSummary `json:"runs"`
	Stats *findings.Stats       `json:"stats,omitempty"`
}

type HistoryTool struct {
	store *findings.Store
}

func NewHistoryTool(store *findings.Store) *HistoryTool {
	return &HistoryTool{store: store}
}

func (t *HistoryTool) Name() string {
	return "check_history"
}

func (t *HistoryTool) Description() string {
	return "List recent validation runs, optionally with aggregate finding statistics"
}

func (t *HistoryTool) Title() string {
	return "Check Run History"
}

func (t *HistoryTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *HistoryTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"limit": {
				"type": "integer",
				"description": "Maximum runs to return (default: 20)"
			},
			"stats": {
				"type": "boolean",
				"description": "Include totals per severity and rule"
			}
		},
		"required": []
	}`)
}

func (t *HistoryTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req HistoryRequest
	if len(input) > 0 {
		if err := json.Unmarshal(input, &req); err != nil {
			return nil, fmt.Errorf("invalid request: %w", err)
		}
	}

	runs, err := t.store.ListRuns(req.Limit)
	if err != nil {
		return nil, err
	}

	resp := &HistoryResponse{Runs: runs}

	if req.Stats {
		stats, err := t.store.Stats()
		if err != nil {
			return nil, err
		}
		resp.Stats = stats
	}

	return resp, nil
}
