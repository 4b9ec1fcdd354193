package validate

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/aget-framework/aget-sub002/internal/manifest"
	"github.com/aget-framework/aget-sub002/internal/semver"
)

// VersioningValidator checks .aget/version.json: the manifest must exist,
// carry a well-formed aget_version compatible with the running tool, and a
// migration history whose structured entries do not run backwards.
type VersioningValidator struct {
	// ToolVersion is the version of the running toolkit; manifests newer
	// than it are incompatible.
	ToolVersion semver.Version
}

// Structured history entries look like "1.0.0 -> 1.1.0: note". Free-text
// entries are allowed and skipped by the ordering check.
var historyEntryPattern = regexp.MustCompile(`^(\d+\.\d+\.\d+(?:-[a-zA-Z0-9]+)?)\s*->\s*(\d+\.\d+\.\d+(?:-[a-zA-Z0-9]+)?)`)

func (v *VersioningValidator) Name() string { return "versioning" }

func (v *VersioningValidator) Validate(ctx context.Context, ws *Workspace) ([]Finding, error) {
	m, err := manifest.Load(ws.Root)
	if err != nil {
		if errors.Is(err, manifest.ErrNotFound) {
			return []Finding{{
				Rule:     "versioning/missing-manifest",
				Severity: SeverityError,
				Path:     manifest.Dir + "/" + manifest.File,
				Message:  "workspace has no version manifest",
			}}, nil
		}
		return []Finding{{
			Rule:     "versioning/unparseable-manifest",
			Severity: SeverityError,
			Path:     manifest.Dir + "/" + manifest.File,
			Message:  err.Error(),
		}}, nil
	}

	var findings []Finding
	relPath := manifest.Dir + "/" + manifest.File

	ver, err := m.Version()
	if err != nil {
		findings = append(findings, Finding{
			Rule:     "versioning/invalid-version",
			Severity: SeverityError,
			Path:     relPath,
			Message:  fmt.Sprintf("aget_version %q does not match MAJOR.MINOR.PATCH[-PRERELEASE]", m.AgetVersion),
		})
	} else if !semver.Compatible(ver, v.ToolVersion) {
		findings = append(findings, Finding{
			Rule:     "versioning/incompatible",
			Severity: SeverityError,
			Path:     relPath,
			Message:  fmt.Sprintf("workspace version %s is not compatible with tool version %s", ver, v.ToolVersion),
		})
	}

	findings = append(findings, v.checkHistory(relPath, m.MigrationHistory)...)

	return findings, nil
}

func (v *VersioningValidator) checkHistory(relPath string, history []string) []Finding {
	var findings []Finding
	var last *semver.Version

	for i, entry := range history {
		if strings.TrimSpace(entry) == "" {
			findings = append(findings, Finding{
				Rule:     "versioning/empty-history-entry",
				Severity: SeverityError,
				Path:     relPath,
				Message:  fmt.Sprintf("migration_history[%d] is empty", i),
			})
			continue
		}

		m := historyEntryPattern.FindStringSubmatch(entry)
		if m == nil {
			continue
		}

		to, err := semver.Parse(m[2])
		if err != nil {
			continue
		}

		if last != nil && semver.Compare(to, *last) < 0 {
			findings = append(findings, Finding{
				Rule:     "versioning/history-order",
				Severity: SeverityWarning,
				Path:     relPath,
				Message:  fmt.Sprintf("migration_history[%d] moves backwards: %s after %s", i, to, *last),
			})
		}
		last = &to
	}

	return findings
}
