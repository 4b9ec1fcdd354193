package versioning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aget-framework/aget-sub002/internal/manifest"
	"github.com/aget-framework/aget-sub002/internal/tools"
)

type GetRequest struct {
	Root string `json:"root"`
}

type GetResponse struct {
	Found            bool     `json:"found"`
	AgetVersion      string   `json:"aget_version,omitempty"`
	MigrationHistory []string `json:"migration_history,omitempty"`
}

type GetTool struct{}

func NewGetTool() *GetTool {
	return &GetTool{}
}

func (t *GetTool) Name() string {
	return "version_get"
}

func (t *GetTool) Description() string {
	return "Read the version manifest (.aget/version.json) of a workspace"
}

func (t *GetTool) Title() string {
	return "Get Workspace Version"
}

func (t *GetTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *GetTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"root": {
				"type": "string",
				"description": "Workspace root directory"
			}
		},
		"required": ["root"]
	}`)
}

func (t *GetTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req GetRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if req.Root == "" {
		return nil, fmt.Errorf("root is required")
	}

	m, err := manifest.Load(req.Root)
	if errors.Is(err, manifest.ErrNotFound) {
		return &GetResponse{Found: false}, nil
	}
	if err != nil {
		return nil, err
	}

	return &GetResponse{
		Found:            true,
		AgetVersion:      m.AgetVersion,
		MigrationHistory: m.MigrationHistory,
	}, nil
}
