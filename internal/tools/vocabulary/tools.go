// Package vocabulary exposes the controlled vocabulary over MCP: look up
// term definitions and check text for miscased terms.
package vocabulary

import (
	"github.com/aget-framework/aget-sub002/internal/tools"
	"github.com/aget-framework/aget-sub002/internal/vocab"
)

func GetTools(registry *vocab.Registry, excludes []string) []tools.Tool {
	return []tools.Tool{
		NewLookupTool(registry),
		NewCheckTool(registry, excludes),
	}
}
