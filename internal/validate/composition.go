package validate

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/aget-framework/aget-sub002/internal/docs"
)

// CompositionValidator checks the top-level configuration documents: the
// README's required sections, the agent instruction files when present, and
// prose cross-references of the form "see FILE.md".
type CompositionValidator struct {
	ReadmeSections []string
	AgentsSections []string
}

var crossRefPattern = regexp.MustCompile(`(?i)\bsee\s+([A-Za-z0-9._/-]+\.md)\b`)

func (v *CompositionValidator) Name() string { return "composition" }

func (v *CompositionValidator) Validate(ctx context.Context, ws *Workspace) ([]Finding, error) {
	var findings []Finding

	if !ws.Exists("README.md") {
		findings = append(findings, Finding{
			Rule:     "composition/missing-readme",
			Severity: SeverityError,
			Path:     "README.md",
			Message:  "workspace has no README.md",
		})
	} else {
		findings = append(findings, v.checkSections(ws, "README.md", v.ReadmeSections)...)
	}

	// AGENTS.md and CLAUDE.md are optional, but once present they must
	// follow the instruction-file template.
	for _, name := range []string{"AGENTS.md", "CLAUDE.md"} {
		if ws.Exists(name) {
			findings = append(findings, v.checkSections(ws, name, v.AgentsSections)...)
		}
	}

	refs, err := v.checkCrossReferences(ws)
	if err != nil {
		return nil, err
	}
	findings = append(findings, refs...)

	return findings, nil
}

func (v *CompositionValidator) checkSections(ws *Workspace, rel string, required []string) []Finding {
	doc, err := ws.Load(rel)
	if errors.Is(err, docs.ErrBinary) {
		return nil
	}
	if err != nil {
		return []Finding{{
			Rule:     "composition/unreadable",
			Severity: SeverityError,
			Path:     rel,
			Message:  fmt.Sprintf("cannot read document: %v", err),
		}}
	}

	var findings []Finding
	for _, missing := range doc.MissingSections(required) {
		findings = append(findings, Finding{
			Rule:     "composition/missing-section",
			Severity: SeverityError,
			Path:     rel,
			Message:  fmt.Sprintf("%s is missing the %q section", rel, missing),
		})
	}
	return findings
}

func (v *CompositionValidator) checkCrossReferences(ws *Workspace) ([]Finding, error) {
	files, err := ws.MarkdownFiles()
	if err != nil {
		return nil, err
	}

	var findings []Finding

	for _, rel := range files {
		doc, err := ws.Load(rel)
		if err != nil {
			continue
		}

		for i, line := range doc.Lines() {
			for _, m := range crossRefPattern.FindAllStringSubmatch(line, -1) {
				target := m[1]
				if ws.Exists(target) {
					continue
				}
				findings = append(findings, Finding{
					Rule:     "composition/broken-reference",
					Severity: SeverityWarning,
					Path:     rel,
					Line:     i + 1,
					Message:  fmt.Sprintf("reference to %q does not resolve", target),
				})
			}
		}
	}

	return findings, nil
}
