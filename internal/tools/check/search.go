package check

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aget-framework/aget-sub002/internal/findings"
	"github.com/aget-framework/aget-sub002/internal/tools"
)

type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type SearchResponse struct {
	Results []findings.SearchResult `json:"results"`
	Count   int                     `json:"count"`
}

type SearchTool struct {
	store *findings.Store
}

func NewSearchTool(store *findings.Store) *SearchTool {
	return &SearchTool{store: store}
}

func (t *SearchTool) Name() string {
	return "check_search"
}

func (t *SearchTool) Description() string {
	return "Full-text search over finding messages across all stored runs"
}

func (t *SearchTool) Title() string {
	return "Search Findings"
}

func (t *SearchTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *SearchTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {
				"type": "string",
				"description": "FTS5 match expression, e.g. 'dangling OR oversize'"
			},
			"limit": {
				"type": "integer",
				"description": "Maximum results (default: 50)"
			}
		},
		"required": ["query"]
	}`)
}

func (t *SearchTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req SearchRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	if req.Query == "" {
		return nil, fmt.Errorf("query is required")
	}

	results, err := t.store.Search(req.Query, req.Limit)
	if err != nil {
		return nil, err
	}

	return &SearchResponse{Results: results, Count: len(results)}, nil
}
