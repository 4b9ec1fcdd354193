package validate

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aget-framework/aget-sub002/internal/docs"
)

// MemoryValidator checks the workspace's knowledge-capture documents: files
// under memory/ and *.learning.md L-docs anywhere in the tree.
type MemoryValidator struct {
	RequiredSections []string
	MaxBytes         int64
}

func (v *MemoryValidator) Name() string { return "memory" }

func (v *MemoryValidator) Validate(ctx context.Context, ws *Workspace) ([]Finding, error) {
	files, err := ws.MarkdownFiles()
	if err != nil {
		return nil, err
	}

	var findings []Finding

	for _, rel := range files {
		if !isMemoryDoc(rel) {
			continue
		}

		doc, err := ws.Load(rel)
		if errors.Is(err, docs.ErrBinary) {
			continue
		}
		if err != nil {
			findings = append(findings, Finding{
				Rule:     "memory/unreadable",
				Severity: SeverityError,
				Path:     rel,
				Message:  fmt.Sprintf("cannot read memory document: %v", err),
			})
			continue
		}

		if doc.Title == "" {
			findings = append(findings, Finding{
				Rule:     "memory/missing-title",
				Severity: SeverityError,
				Path:     rel,
				Message:  "memory document has no top-level '# ' title",
			})
		}

		for _, missing := range doc.MissingSections(v.RequiredSections) {
			findings = append(findings, Finding{
				Rule:     "memory/missing-section",
				Severity: SeverityError,
				Path:     rel,
				Message:  fmt.Sprintf("memory document is missing the %q section", missing),
			})
		}

		if size, err := ws.Size(rel); err == nil && v.MaxBytes > 0 && size > v.MaxBytes {
			findings = append(findings, Finding{
				Rule:     "memory/oversize",
				Severity: SeverityError,
				Path:     rel,
				Message:  fmt.Sprintf("memory document is %d bytes, cap is %d", size, v.MaxBytes),
			})
		}

		for _, link := range doc.Links {
			if v.resolveLink(ws, rel, link.Target) {
				continue
			}
			findings = append(findings, Finding{
				Rule:     "memory/dangling-link",
				Severity: SeverityWarning,
				Path:     rel,
				Line:     link.Line,
				Message:  fmt.Sprintf("link target %q does not exist", link.Target),
			})
		}
	}

	return findings, nil
}

func (v *MemoryValidator) resolveLink(ws *Workspace, from, target string) bool {
	name := target
	if !strings.HasSuffix(name, ".md") {
		name += ".md"
	}

	candidates := []string{
		path.Join(path.Dir(from), name),
		path.Join("memory", name),
		name,
	}
	for _, c := range candidates {
		if ws.Exists(c) {
			return true
		}
	}
	return false
}

func isMemoryDoc(rel string) bool {
	if strings.HasPrefix(rel, "memory/") {
		return true
	}
	return strings.HasSuffix(rel, ".learning.md")
}
