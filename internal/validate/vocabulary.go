package validate

import (
	"context"
	"fmt"

	"github.com/aget-framework/aget-sub002/internal/vocab"
)

// VocabularyValidator enforces canonical casing of controlled vocabulary
// terms across all documents.
type VocabularyValidator struct {
	Registry *vocab.Registry
}

func (v *VocabularyValidator) Name() string { return "vocabulary" }

func (v *VocabularyValidator) Validate(ctx context.Context, ws *Workspace) ([]Finding, error) {
	if v.Registry == nil || v.Registry.Len() == 0 {
		return []Finding{{
			Rule:     "vocabulary/not-configured",
			Severity: SeverityInfo,
			Message:  "no controlled vocabulary configured; casing checks skipped",
		}}, nil
	}

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

		for _, hit := range v.Registry.Scan(doc.Content) {
			findings = append(findings, Finding{
				Rule:     "vocabulary/miscased",
				Severity: SeverityWarning,
				Path:     rel,
				Line:     hit.Line,
				Message:  fmt.Sprintf("%q should be written %q", hit.Token, hit.Canonical),
			})
		}
	}

	return findings, nil
}
