package watcher

import (
	"sync"
	"testing"
	"time"

	"github.com/aget-framework/aget-sub002/internal/scan"
)

func TestDebouncerCoalesces(t *testing.T) {
	var mu sync.Mutex
	var batches [][]FileEvent

	d := NewDebouncer(50*time.Millisecond, 100, func(events []FileEvent) {
		mu.Lock()
		batches = append(batches, events)
		mu.Unlock()
	})
	defer d.Stop()

	d.Add(FileEvent{Path: "/ws/a.md", Type: EventModify})
	d.Add(FileEvent{Path: "/ws/a.md", Type: EventModify})
	d.Add(FileEvent{Path: "/ws/b.md", Type: EventCreate})

	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	if len(batches) != 1 {
		t.Fatalf("expected 1 flush, got %d", len(batches))
	}
	if len(batches[0]) != 2 {
		t.Errorf("expected 2 deduplicated events, got %d", len(batches[0]))
	}
}

func TestDebouncerMaxBatch(t *testing.T) {
	flushed := make(chan int, 1)

	d := NewDebouncer(time.Hour, 3, func(events []FileEvent) {
		flushed <- len(events)
	})
	defer d.Stop()

	d.Add(FileEvent{Path: "/ws/a.md"})
	d.Add(FileEvent{Path: "/ws/b.md"})
	d.Add(FileEvent{Path: "/ws/c.md"})

	select {
	case n := <-flushed:
		if n != 3 {
			t.Errorf("expected batch of 3, got %d", n)
		}
	case <-time.After(time.Second):
		t.Fatal("max batch never flushed")
	}
}

func TestDebouncerStopFlushesPending(t *testing.T) {
	flushed := make(chan int, 1)

	d := NewDebouncer(time.Hour, 100, func(events []FileEvent) {
		flushed <- len(events)
	})

	d.Add(FileEvent{Path: "/ws/a.md"})
	d.Stop()

	select {
	case n := <-flushed:
		if n != 1 {
			t.Errorf("expected pending event flushed, got %d", n)
		}
	case <-time.After(time.Second):
		t.Fatal("stop did not flush")
	}

	// Adds after Stop are dropped.
	d.Add(FileEvent{Path: "/ws/b.md"})
	select {
	case <-flushed:
		t.Error("event accepted after stop")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestClassifyBatch(t *testing.T) {
	c := NewEventClassifier()

	batch := func(n int) []FileEvent {
		events := make([]FileEvent, n)
		return events
	}

	if got := c.ClassifyBatch(batch(1)); got != scan.PriorityLow {
		t.Errorf("small batch: got %v", got)
	}
	if got := c.ClassifyBatch(batch(5)); got != scan.PriorityNormal {
		t.Errorf("medium batch: got %v", got)
	}
	if got := c.ClassifyBatch(batch(25)); got != scan.PriorityHigh {
		t.Errorf("large batch: got %v", got)
	}
}
