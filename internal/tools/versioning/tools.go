// Package versioning exposes the workspace version manifest over MCP:
// read it, validate it against the tool's own version, and record
// migrations.
package versioning

import (
	"github.com/aget-framework/aget-sub002/internal/semver"
	"github.com/aget-framework/aget-sub002/internal/tools"
)

func GetTools(toolVersion semver.Version) []tools.Tool {
	return []tools.Tool{
		NewGetTool(),
		NewValidateTool(toolVersion),
		NewMigrateTool(),
	}
}
