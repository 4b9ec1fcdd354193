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

type ValidateRequest struct {
	Root string `json:"root"`

	// Version overrides the manifest: validate a version string directly
	// without touching the filesystem.
	Version string `json:"version,omitempty"`
}

type ValidateResponse struct {
	Version     string `json:"version,omitempty"`
	Valid       bool   `json:"valid"`
	Compatible  bool   `json:"compatible"`
	ToolVersion string `json:"tool_version"`
	Reason      string `json:"reason,omitempty"`
}

type ValidateTool struct {
	toolVersion semver.Version
}

func NewValidateTool(toolVersion semver.Version) *ValidateTool {
	return &ValidateTool{toolVersion: toolVersion}
}

func (t *ValidateTool) Name() string {
	return "version_validate"
}

func (t *ValidateTool) Description() string {
	return "Check a workspace version (or a literal version string) for validity and compatibility"
}

func (t *ValidateTool) Title() string {
	return "Validate Version"
}

func (t *ValidateTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *ValidateTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"root": {
				"type": "string",
				"description": "Workspace root directory (read version from its manifest)"
			},
			"version": {
				"type": "string",
				"description": "Version string to validate instead of reading a manifest"
			}
		},
		"required": []
	}`)
}

func (t *ValidateTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req ValidateRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	raw := req.Version
	if raw == "" {
		if req.Root == "" {
			return nil, fmt.Errorf("either root or version is required")
		}
		m, err := manifest.Load(req.Root)
		if errors.Is(err, manifest.ErrNotFound) {
			return &ValidateResponse{
				Valid:       false,
				ToolVersion: t.toolVersion.String(),
				Reason:      "workspace has no version manifest",
			}, nil
		}
		if err != nil {
			return nil, err
		}
		raw = m.AgetVersion
	}

	resp := &ValidateResponse{Version: raw, ToolVersion: t.toolVersion.String()}

	v, err := semver.Parse(raw)
	if err != nil {
		resp.Reason = err.Error()
		return resp, nil
	}

	resp.Valid = true
	resp.Compatible = semver.Compatible(v, t.toolVersion)
	if !resp.Compatible {
		resp.Reason = fmt.Sprintf("workspace %s is not supported by tool %s", v, t.toolVersion)
	}

	return resp, nil
}
