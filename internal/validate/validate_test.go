package validate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aget-framework/aget-sub002/internal/semver"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func rules(findings []Finding) map[string]int {
	out := make(map[string]int)
	for _, f := range findings {
		out[f.Rule]++
	}
	return out
}

func TestWorkspaceMarkdownFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "README.md", "# R\n")
	writeFile(t, root, "memory/notes.md", "# N\n")
	writeFile(t, root, "node_modules/pkg/README.md", "# skip\n")
	writeFile(t, root, "script.sh", "echo hi\n")

	ws := NewWorkspace(root, []string{"**/node_modules/**"})

	files, err := ws.MarkdownFiles()
	if err != nil {
		t.Fatalf("walk: %v", err)
	}

	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %v", files)
	}
	if files[0] != "README.md" || files[1] != "memory/notes.md" {
		t.Errorf("unexpected listing: %v", files)
	}
}

func TestMemoryValidator(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "memory/good.md", "# Good\n\n## Context\n\nFine, links to [[good]].\n")
	writeFile(t, root, "memory/bad.md", "no title here\n\nand a [[missing-doc]] link\n")
	writeFile(t, root, "notes/session.learning.md", "# L-doc\n")
	writeFile(t, root, "README.md", "# R\n")

	v := &MemoryValidator{RequiredSections: []string{"Context"}, MaxBytes: 1024}

	findings, err := v.Validate(context.Background(), NewWorkspace(root, nil))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	got := rules(findings)
	if got["memory/missing-title"] != 1 {
		t.Errorf("expected 1 missing-title, got %d", got["memory/missing-title"])
	}
	// bad.md lacks Context, and so does the L-doc outside memory/.
	if got["memory/missing-section"] != 2 {
		t.Errorf("expected 2 missing-section, got %d", got["memory/missing-section"])
	}
	if got["memory/dangling-link"] != 1 {
		t.Errorf("expected 1 dangling-link, got %d", got["memory/dangling-link"])
	}
}

func TestMemoryValidatorSizeCap(t *testing.T) {
	root := t.TempDir()
	big := "# Big\n\n## Context\n\n"
	for len(big) < 200 {
		big += "padding line\n"
	}
	writeFile(t, root, "memory/big.md", big)

	v := &MemoryValidator{RequiredSections: []string{"Context"}, MaxBytes: 100}

	findings, err := v.Validate(context.Background(), NewWorkspace(root, nil))
	if err != nil {
		t.Fatal(err)
	}
	if rules(findings)["memory/oversize"] != 1 {
		t.Errorf("expected oversize finding, got %+v", findings)
	}
}

func TestCompositionValidator(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "README.md", "# Proj\n\n## Overview\n\nSee ARCHITECTURE.md for details.\n")
	writeFile(t, root, "AGENTS.md", "# Agents\n\n## Purpose\n\n## Capabilities\n")

	v := &CompositionValidator{
		ReadmeSections: []string{"Overview", "Installation", "Usage"},
		AgentsSections: []string{"Purpose", "Capabilities"},
	}

	findings, err := v.Validate(context.Background(), NewWorkspace(root, nil))
	if err != nil {
		t.Fatal(err)
	}

	got := rules(findings)
	if got["composition/missing-section"] != 2 {
		t.Errorf("expected 2 missing README sections, got %+v", findings)
	}
	if got["composition/broken-reference"] != 1 {
		t.Errorf("expected 1 broken reference, got %+v", findings)
	}
}

func TestCompositionValidatorMissingReadme(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "notes.md", "# n\n")

	v := &CompositionValidator{ReadmeSections: []string{"Overview"}}

	findings, _ := v.Validate(context.Background(), NewWorkspace(root, nil))
	if rules(findings)["composition/missing-readme"] != 1 {
		t.Errorf("expected missing-readme, got %+v", findings)
	}
}

func TestContentValidator(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "README.md", "# P\n\nmail me at ops@example.com\n")
	writeFile(t, root, "notes.md", "# N\n\ndeployed on falcon-prod-3\n")

	v := &ContentValidator{DenyList: []string{"falcon-prod-3"}}

	findings, err := v.Validate(context.Background(), NewWorkspace(root, nil))
	if err != nil {
		t.Fatal(err)
	}

	got := rules(findings)
	if got["content/email"] != 1 {
		t.Errorf("expected email finding, got %+v", findings)
	}
	if got["content/deny-list"] != 1 {
		t.Errorf("expected deny-list finding, got %+v", findings)
	}

	for _, f := range findings {
		if f.Rule == "content/email" && f.Line != 3 {
			t.Errorf("email finding on wrong line: %+v", f)
		}
	}
}

func TestValidatorsSkipBinaryDocuments(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "README.md", "# P\n\n## Overview\n")
	writeFile(t, root, "memory/export.md", "\x00\x01\x02 not really markdown")
	writeFile(t, root, "diagram.md", "PNG\x00garbage")

	ws := NewWorkspace(root, nil)
	validators := []Validator{
		&ContentValidator{},
		&MemoryValidator{RequiredSections: []string{"Context"}},
		&CompositionValidator{ReadmeSections: []string{"Overview"}},
	}

	for _, v := range validators {
		findings, err := v.Validate(context.Background(), ws)
		if err != nil {
			t.Fatalf("%s: %v", v.Name(), err)
		}
		for _, f := range findings {
			if f.Path == "memory/export.md" || f.Path == "diagram.md" {
				t.Errorf("%s reported a binary document: %+v", v.Name(), f)
			}
		}
	}

	report := NewRunner(validators...).Run(context.Background(), ws)
	if !report.Valid() {
		t.Errorf("binary documents must not fail the run: %+v", report.Findings)
	}
}

func TestVersioningValidator(t *testing.T) {
	tool := semver.MustParse("1.3.0")

	t.Run("missing manifest", func(t *testing.T) {
		v := &VersioningValidator{ToolVersion: tool}
		findings, _ := v.Validate(context.Background(), NewWorkspace(t.TempDir(), nil))
		if rules(findings)["versioning/missing-manifest"] != 1 {
			t.Errorf("expected missing-manifest, got %+v", findings)
		}
	})

	t.Run("valid manifest", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, ".aget/version.json",
			`{"aget_version": "1.2.0", "migration_history": ["1.0.0 -> 1.1.0: x", "1.1.0 -> 1.2.0: y"]}`)

		v := &VersioningValidator{ToolVersion: tool}
		findings, _ := v.Validate(context.Background(), NewWorkspace(root, nil))
		if len(findings) != 0 {
			t.Errorf("expected no findings, got %+v", findings)
		}
	})

	t.Run("incompatible and disordered", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, ".aget/version.json",
			`{"aget_version": "1.9.0", "migration_history": ["1.1.0 -> 1.2.0", "1.2.0 -> 1.0.1: rollback", ""]}`)

		v := &VersioningValidator{ToolVersion: tool}
		findings, _ := v.Validate(context.Background(), NewWorkspace(root, nil))

		got := rules(findings)
		if got["versioning/incompatible"] != 1 {
			t.Errorf("expected incompatible, got %+v", findings)
		}
		if got["versioning/history-order"] != 1 {
			t.Errorf("expected history-order, got %+v", findings)
		}
		if got["versioning/empty-history-entry"] != 1 {
			t.Errorf("expected empty-history-entry, got %+v", findings)
		}
	})

	t.Run("bad version string", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, ".aget/version.json", `{"aget_version": "v1.2", "migration_history": []}`)

		v := &VersioningValidator{ToolVersion: tool}
		findings, _ := v.Validate(context.Background(), NewWorkspace(root, nil))
		if rules(findings)["versioning/invalid-version"] != 1 {
			t.Errorf("expected invalid-version, got %+v", findings)
		}
	})
}

func TestRunnerAggregates(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "README.md", "# P\n\n## Overview\n\n## Installation\n\n## Usage\n")
	writeFile(t, root, ".aget/version.json", `{"aget_version": "1.0.0", "migration_history": []}`)

	runner := NewRunner(
		&CompositionValidator{ReadmeSections: []string{"Overview", "Installation", "Usage"}},
		&VersioningValidator{ToolVersion: semver.MustParse("1.0.0")},
	)

	report := runner.Run(context.Background(), NewWorkspace(root, nil))

	if !report.Valid() {
		t.Errorf("expected valid report, got %+v", report.Findings)
	}
	if report.RunID == "" {
		t.Error("report must carry a run ID")
	}
	for _, f := range report.Findings {
		if f.ID == "" {
			t.Errorf("finding without ID: %+v", f)
		}
	}
}

type panicValidator struct{}

func (panicValidator) Name() string { return "panicky" }
func (panicValidator) Validate(context.Context, *Workspace) ([]Finding, error) {
	panic("boom")
}

func TestRunnerRecoversPanic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "README.md", "# P\n")

	report := NewRunner(panicValidator{}).Run(context.Background(), NewWorkspace(root, nil))

	if report.Valid() {
		t.Error("panicking validator must fail the run")
	}
	if rules(report.Findings)["panicky/panicked"] != 1 {
		t.Errorf("expected panic finding, got %+v", report.Findings)
	}
}

func TestRunnerEmptyWorkspace(t *testing.T) {
	report := NewRunner().Run(context.Background(), NewWorkspace(t.TempDir(), nil))

	if !report.Valid() {
		t.Error("empty workspace should be valid")
	}
	if rules(report.Findings)["workspace/empty"] != 1 {
		t.Errorf("expected workspace/empty info, got %+v", report.Findings)
	}
}
