// Package sanitizer exposes publication hygiene over MCP: detect PII and
// secret-shaped strings in a workspace and apply literal replacement rules.
package sanitizer

import "github.com/aget-framework/aget-sub002/internal/tools"

func GetTools(excludes []string) []tools.Tool {
	return []tools.Tool{
		NewScanTool(excludes),
		NewApplyTool(excludes),
	}
}
