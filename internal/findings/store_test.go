package findings

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/aget-framework/aget-sub002/internal/validate"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "findings.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleReport(root string, startedAt time.Time) *validate.Report {
	findings := []validate.Finding{
		{
			ID:       uuid.NewString(),
			Rule:     "composition/missing-section",
			Severity: validate.SeverityError,
			Path:     "README.md",
			Message:  "README.md is missing the \"Usage\" section",
		},
		{
			ID:       uuid.NewString(),
			Rule:     "memory/dangling-link",
			Severity: validate.SeverityWarning,
			Path:     "memory/notes.md",
			Line:     12,
			Message:  "link target \"decision-log\" does not exist",
		},
	}

	return &validate.Report{
		RunID:      uuid.NewString(),
		Root:       root,
		Validators: []string{"composition", "memory"},
		StartedAt:  startedAt,
		Duration:   120 * time.Millisecond,
		Findings:   findings,
		Counts:     validate.Counts{Errors: 1, Warnings: 1},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	store := openTestStore(t)
	report := sampleReport("/tmp/ws", time.Now().UTC())

	if err := store.SaveReport(report); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.GetRun(report.RunID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded == nil {
		t.Fatal("run not found")
	}

	if loaded.Root != "/tmp/ws" {
		t.Errorf("unexpected root: %q", loaded.Root)
	}
	if len(loaded.Findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(loaded.Findings))
	}
	if loaded.Counts.Errors != 1 || loaded.Counts.Warnings != 1 {
		t.Errorf("counts lost: %+v", loaded.Counts)
	}
	if len(loaded.Validators) != 2 {
		t.Errorf("validators lost: %v", loaded.Validators)
	}
	if loaded.Duration != 120*time.Millisecond {
		t.Errorf("duration lost: %v", loaded.Duration)
	}
}

func TestGetRunUnknown(t *testing.T) {
	store := openTestStore(t)

	loaded, err := store.GetRun("no-such-run")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded != nil {
		t.Error("expected nil report for unknown run")
	}
}

func TestListRuns(t *testing.T) {
	store := openTestStore(t)

	older := sampleReport("/a", time.Now().UTC().Add(-time.Hour))
	newer := sampleReport("/b", time.Now().UTC())

	if err := store.SaveReport(older); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveReport(newer); err != nil {
		t.Fatal(err)
	}

	runs, err := store.ListRuns(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Root != "/b" {
		t.Errorf("expected newest first, got %q", runs[0].Root)
	}
	if runs[0].Valid {
		t.Error("run with errors must not be valid")
	}

	limited, err := store.ListRuns(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("limit not honored: %d", len(limited))
	}
}

func TestSearch(t *testing.T) {
	store := openTestStore(t)
	report := sampleReport("/ws", time.Now().UTC())

	if err := store.SaveReport(report); err != nil {
		t.Fatal(err)
	}

	results, err := store.Search("dangling OR link", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Finding.Rule != "memory/dangling-link" {
		t.Errorf("unexpected finding: %+v", results[0].Finding)
	}
	if results[0].RunID != report.RunID {
		t.Errorf("run id lost: %q", results[0].RunID)
	}
}

func TestStats(t *testing.T) {
	store := openTestStore(t)

	if err := store.SaveReport(sampleReport("/ws", time.Now().UTC())); err != nil {
		t.Fatal(err)
	}

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalRuns != 1 || stats.TotalFindings != 2 {
		t.Errorf("unexpected totals: %+v", stats)
	}
	if stats.BySeverity["error"] != 1 || stats.BySeverity["warning"] != 1 {
		t.Errorf("unexpected severity stats: %v", stats.BySeverity)
	}
	if stats.ByRule["memory/dangling-link"] != 1 {
		t.Errorf("unexpected rule stats: %v", stats.ByRule)
	}
	if stats.LastRunAt == nil {
		t.Error("expected LastRunAt to be set")
	}
}

func TestPrune(t *testing.T) {
	store := openTestStore(t)

	old := sampleReport("/old", time.Now().UTC().Add(-48*time.Hour))
	recent := sampleReport("/recent", time.Now().UTC())

	if err := store.SaveReport(old); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveReport(recent); err != nil {
		t.Fatal(err)
	}

	pruned, err := store.Prune(24 * time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if pruned != 1 {
		t.Errorf("expected 1 pruned run, got %d", pruned)
	}

	if loaded, _ := store.GetRun(old.RunID); loaded != nil {
		t.Error("old run should be gone")
	}
	if loaded, _ := store.GetRun(recent.RunID); loaded == nil {
		t.Error("recent run should survive")
	}

	// Findings of the pruned run must not surface in search.
	results, err := store.Search("dangling", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 searchable finding after prune, got %d", len(results))
	}
}
