package watcher

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of file events into one flush per quiet
// window. Events are deduplicated by path, newest wins. A batch that
// grows to maxBatch flushes immediately without waiting for quiet.
type Debouncer struct {
	window   time.Duration
	maxBatch int
	onFlush  func([]FileEvent)

	mu      sync.Mutex
	pending map[string]FileEvent
	timer   *time.Timer
	stopped bool
}

func NewDebouncer(window time.Duration, maxBatch int, onFlush func([]FileEvent)) *Debouncer {
	return &Debouncer{
		window:   window,
		maxBatch: maxBatch,
		onFlush:  onFlush,
		pending:  make(map[string]FileEvent),
	}
}

// drain empties the pending set and cancels the timer. Caller holds mu.
func (d *Debouncer) drain() []FileEvent {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	batch := make([]FileEvent, 0, len(d.pending))
	for _, ev := range d.pending {
		batch = append(batch, ev)
	}
	d.pending = make(map[string]FileEvent)
	return batch
}

// deliver hands a batch to onFlush. Never called under mu, so a slow
// consumer cannot block Add.
func (d *Debouncer) deliver(batch []FileEvent) {
	if len(batch) > 0 && d.onFlush != nil {
		d.onFlush(batch)
	}
}

func (d *Debouncer) Add(event FileEvent) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}

	d.pending[event.Path] = event

	if len(d.pending) >= d.maxBatch {
		batch := d.drain()
		d.mu.Unlock()
		d.deliver(batch)
		return
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flush)
	d.mu.Unlock()
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	batch := d.drain()
	d.mu.Unlock()

	d.deliver(batch)
}

// Stop flushes whatever is pending and refuses further events.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	batch := d.drain()
	d.mu.Unlock()

	d.deliver(batch)
}
