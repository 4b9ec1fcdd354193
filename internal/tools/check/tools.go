// Package check exposes compliance validation over MCP: run checks against
// a workspace and query persisted reports.
package check

import (
	"github.com/aget-framework/aget-sub002/internal/findings"
	"github.com/aget-framework/aget-sub002/internal/scan"
	"github.com/aget-framework/aget-sub002/internal/tools"
)

func GetTools(worker *scan.Worker, store *findings.Store) []tools.Tool {
	return []tools.Tool{
		NewRunTool(worker),
		NewReportTool(store),
		NewHistoryTool(store),
		NewSearchTool(store),
	}
}
