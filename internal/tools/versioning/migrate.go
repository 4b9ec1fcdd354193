package versioning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aget-framework/aget-sub002/internal/manifest"
	"github.com/aget-framework/aget-sub002/internal/semver"
	"github.com/aget-framework/aget-sub002/internal/tools"
)

type MigrateRequest struct {
	Root string `json:"root"`
	To   string `json:"to"`
	Note string `json:"note,omitempty"`

	// Init creates a fresh manifest at To when the workspace has none.
	Init bool `json:"init,omitempty"`
}

type MigrateResponse struct {
	From             string   `json:"from,omitempty"`
	To               string   `json:"to"`
	Initialized      bool     `json:"initialized,omitempty"`
	MigrationHistory []string `json:"migration_history"`
}

type MigrateTool struct{}

func NewMigrateTool() *MigrateTool {
	return &MigrateTool{}
}

func (t *MigrateTool) Name() string {
	return "version_migrate"
}

func (t *MigrateTool) Description() string {
	return "Record a version migration in the workspace manifest, or initialize one"
}

func (t *MigrateTool) Title() string {
	return "Migrate Workspace Version"
}

func (t *MigrateTool) Annotations() map[string]bool {
	return tools.SafeWriteAnnotations()
}

func (t *MigrateTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"root": {
				"type": "string",
				"description": "Workspace root directory"
			},
			"to": {
				"type": "string",
				"description": "Target version, e.g. 1.4.0"
			},
			"note": {
				"type": "string",
				"description": "Free-form note appended to the history entry"
			},
			"init": {
				"type": "boolean",
				"description": "Create the manifest when missing instead of failing"
			}
		},
		"required": ["root", "to"]
	}`)
}

func (t *MigrateTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req MigrateRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if req.Root == "" {
		return nil, fmt.Errorf("root is required")
	}

	to, err := semver.Parse(req.To)
	if err != nil {
		return nil, fmt.Errorf("target version: %w", err)
	}

	m, err := manifest.Load(req.Root)
	if errors.Is(err, manifest.ErrNotFound) {
		if !req.Init {
			return nil, fmt.Errorf("workspace has no version manifest (pass init to create one)")
		}
		created, err := manifest.Init(req.Root, to)
		if err != nil {
			return nil, err
		}
		return &MigrateResponse{
			To:               created.AgetVersion,
			Initialized:      true,
			MigrationHistory: created.MigrationHistory,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	from := m.AgetVersion
	if err := m.RecordMigration(to, req.Note); err != nil {
		return nil, err
	}
	if err := m.Save(req.Root); err != nil {
		return nil, err
	}

	return &MigrateResponse{
		From:             from,
		To:               m.AgetVersion,
		MigrationHistory: m.MigrationHistory,
	}, nil
}
