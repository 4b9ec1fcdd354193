package tools

// MCP tool annotation hints. Every tool here is closed-world (local
// workspace only), so openWorldHint is always false.

func annotations(readOnly, destructive, idempotent bool) map[string]bool {
	return map[string]bool{
		"readOnlyHint":    readOnly,
		"destructiveHint": destructive,
		"idempotentHint":  idempotent,
		"openWorldHint":   false,
	}
}

// ReadOnlyAnnotations marks tools that never touch the workspace.
func ReadOnlyAnnotations() map[string]bool {
	return annotations(true, false, true)
}

// DestructiveAnnotations marks tools that rewrite files in place.
func DestructiveAnnotations() map[string]bool {
	return annotations(false, true, false)
}

// SafeWriteAnnotations marks tools whose writes are additive and repeatable.
func SafeWriteAnnotations() map[string]bool {
	return annotations(false, false, true)
}

// NonIdempotentWriteAnnotations marks writes that append on every call.
func NonIdempotentWriteAnnotations() map[string]bool {
	return annotations(false, false, false)
}
