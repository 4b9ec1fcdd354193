package validate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aget-framework/aget-sub002/internal/docs"
	"github.com/aget-framework/aget-sub002/internal/sanitize"
)

// ContentValidator flags PII and secret-shaped strings in any document, plus
// literal deny-list strings configured per deployment (private hostnames,
// internal project names).
type ContentValidator struct {
	DenyList []string
}

func (v *ContentValidator) Name() string { return "content" }

func (v *ContentValidator) Validate(ctx context.Context, ws *Workspace) ([]Finding, error) {
	files, err := ws.MarkdownFiles()
	if err != nil {
		return nil, err
	}

	var findings []Finding

	for _, rel := range files {
		doc, err := ws.Load(rel)
		if errors.Is(err, docs.ErrBinary) {
			continue
		}
		if err != nil {
			findings = append(findings, Finding{
				Rule:     "content/unreadable",
				Severity: SeverityError,
				Path:     rel,
				Message:  fmt.Sprintf("cannot read document: %v", err),
			})
			continue
		}

		for _, d := range sanitize.Detect(doc.Content) {
			findings = append(findings, Finding{
				Rule:     "content/" + d.Detector,
				Severity: SeverityError,
				Path:     rel,
				Line:     d.Line,
				Message:  fmt.Sprintf("%s detected", d.Detector),
				Detail:   d.Excerpt,
			})
		}

		findings = append(findings, v.checkDenyList(rel, doc.Content)...)
	}

	return findings, nil
}

func (v *ContentValidator) checkDenyList(rel, content string) []Finding {
	if len(v.DenyList) == 0 {
		return nil
	}

	var findings []Finding
	for i, line := range strings.Split(content, "\n") {
		for _, banned := range v.DenyList {
			if banned == "" || !strings.Contains(line, banned) {
				continue
			}
			findings = append(findings, Finding{
				Rule:     "content/deny-list",
				Severity: SeverityError,
				Path:     rel,
				Line:     i + 1,
				Message:  fmt.Sprintf("deny-listed string %q present", banned),
			})
		}
	}
	return findings
}
