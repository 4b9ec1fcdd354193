package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aget-framework/aget-sub002/internal/findings"
	"github.com/aget-framework/aget-sub002/internal/validate"
)

func newTestWorker(t *testing.T) (*Worker, *findings.Store) {
	t.Helper()

	store, err := findings.Open(filepath.Join(t.TempDir(), "findings.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	validators := []validate.Validator{
		&validate.CompositionValidator{ReadmeSections: []string{"Overview"}},
	}

	cfg := DefaultWorkerConfig()
	cfg.WorkerCount = 1
	cfg.RateLimit = 0

	return NewWorker(store, validators, cfg), store
}

func writeWorkspace(t *testing.T, readme string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "README.md"), []byte(readme), 0644); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestRunNowPersistsReport(t *testing.T) {
	worker, store := newTestWorker(t)
	root := writeWorkspace(t, "# Proj\n\n## Overview\n\nok\n")

	report, err := worker.RunNow(context.Background(), Job{Root: root})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !report.Valid() {
		t.Errorf("expected valid report, got %+v", report.Findings)
	}

	loaded, err := store.GetRun(report.RunID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded == nil {
		t.Fatal("report was not persisted")
	}
}

func TestRunNowSelectsValidators(t *testing.T) {
	worker, _ := newTestWorker(t)
	root := writeWorkspace(t, "# Proj\n")

	report, err := worker.RunNow(context.Background(), Job{Root: root, Validators: []string{"no-such"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Validators) != 0 {
		t.Errorf("expected no validators selected, got %v", report.Validators)
	}
}

func TestQueuedScanCompletes(t *testing.T) {
	worker, store := newTestWorker(t)
	root := writeWorkspace(t, "# Proj\n")

	worker.Start()
	defer worker.Stop()

	if !worker.Enqueue(Job{Root: root, Priority: PriorityHigh}) {
		t.Fatal("enqueue rejected")
	}

	deadline := time.After(5 * time.Second)
	for {
		if worker.GetStats().Completed >= 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("scan never completed")
		case <-time.After(20 * time.Millisecond):
		}
	}

	runs, err := store.ListRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 persisted run, got %d", len(runs))
	}
	if runs[0].Valid {
		t.Error("README without Overview must produce an error finding")
	}
}

func TestUnchangedWorkspaceSkipped(t *testing.T) {
	worker, _ := newTestWorker(t)
	root := writeWorkspace(t, "# Proj\n\n## Overview\n")

	worker.Start()
	defer worker.Stop()

	worker.Enqueue(Job{Root: root})
	waitFor(t, func() bool { return worker.GetStats().Completed == 1 })

	worker.Enqueue(Job{Root: root})
	waitFor(t, func() bool { return worker.GetStats().Skipped == 1 })

	worker.Invalidate(root)
	worker.Enqueue(Job{Root: root})
	waitFor(t, func() bool { return worker.GetStats().Completed == 2 })
}

func TestEnqueueMissingRoot(t *testing.T) {
	worker, _ := newTestWorker(t)

	worker.Start()
	defer worker.Stop()

	worker.Enqueue(Job{Root: filepath.Join(t.TempDir(), "gone")})
	waitFor(t, func() bool { return worker.GetStats().Failed == 1 })
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("condition never met")
		case <-time.After(20 * time.Millisecond):
		}
	}
}
