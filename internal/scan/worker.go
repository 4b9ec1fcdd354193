// Package scan runs validations in the background. Jobs arrive on
// prioritized queues so an explicit tool call is never stuck behind a
// watcher-triggered rescan of a large tree.
package scan

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aget-framework/aget-sub002/internal/findings"
	"github.com/aget-framework/aget-sub002/internal/logger"
	"github.com/aget-framework/aget-sub002/internal/validate"
)

var log = logger.ForComponent("scan")

type WorkerConfig struct {
	WorkerCount     int
	MaxQueueSize    int
	RateLimit       int
	ExcludePatterns []string
}

func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		WorkerCount:  2,
		MaxQueueSize: 1000,
		RateLimit:    100,
		ExcludePatterns: []string{
			"**/.git/**",
			"**/node_modules/**",
			"**/vendor/**",
			"**/__pycache__/**",
			"**/dist/**",
			"**/build/**",
			"**/target/**",
		},
	}
}

type Worker struct {
	store      *findings.Store
	validators []validate.Validator
	config     WorkerConfig

	highQueue   chan Job
	normalQueue chan Job
	lowQueue    chan Job

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	rateLimiter *time.Ticker

	stats   Stats
	statsMu sync.RWMutex

	// last run per root, by workspace content hash, to skip rescans of
	// unchanged trees
	lastSeen   map[string]string
	lastSeenMu sync.Mutex
}

func NewWorker(store *findings.Store, validators []validate.Validator, config WorkerConfig) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	w := &Worker{
		store:       store,
		validators:  validators,
		config:      config,
		highQueue:   make(chan Job, 100),
		normalQueue: make(chan Job, config.MaxQueueSize),
		lowQueue:    make(chan Job, config.MaxQueueSize*2),
		ctx:         ctx,
		cancel:      cancel,
		lastSeen:    make(map[string]string),
	}

	if config.RateLimit > 0 {
		interval := time.Second / time.Duration(config.RateLimit)
		w.rateLimiter = time.NewTicker(interval)
	}

	return w
}

func (w *Worker) Start() {
	w.statsMu.Lock()
	w.stats.IsRunning = true
	w.stats.StartedAt = time.Now()
	w.statsMu.Unlock()

	log.Info("scan worker started", "workers", w.config.WorkerCount)

	for i := 0; i < w.config.WorkerCount; i++ {
		w.wg.Add(1)
		go w.worker(i)
	}
}

func (w *Worker) Stop() {
	log.Info("scan worker stopping")

	w.cancel()
	if w.rateLimiter != nil {
		w.rateLimiter.Stop()
	}
	w.wg.Wait()

	w.statsMu.Lock()
	w.stats.IsRunning = false
	w.statsMu.Unlock()

	log.Info("scan worker stopped")
}

func (w *Worker) Enqueue(job Job) bool {
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now()
	}

	var queue chan Job
	switch job.Priority {
	case PriorityHigh:
		queue = w.highQueue
	case PriorityLow:
		queue = w.lowQueue
	default:
		queue = w.normalQueue
	}

	select {
	case queue <- job:
		atomic.AddInt64(&w.stats.InQueue, 1)
		return true
	default:
		log.Warn("scan enqueue failed, queue full", "root", job.Root, "priority", job.Priority.String())
		return false
	}
}

// RunNow executes a job synchronously, bypassing the queues. Tool calls
// that need the report in the response use this path.
func (w *Worker) RunNow(ctx context.Context, job Job) (*validate.Report, error) {
	report := w.run(ctx, job)

	if w.store != nil {
		if err := w.store.SaveReport(report); err != nil {
			return report, err
		}
	}

	w.recordCompleted(report.RunID)
	return report, nil
}

func (w *Worker) GetStats() Stats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()
	stats := w.stats
	stats.Completed = atomic.LoadInt64(&w.stats.Completed)
	stats.Failed = atomic.LoadInt64(&w.stats.Failed)
	stats.Skipped = atomic.LoadInt64(&w.stats.Skipped)
	stats.InQueue = atomic.LoadInt64(&w.stats.InQueue)
	return stats
}

func (w *Worker) worker(id int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		default:
		}

		if w.rateLimiter != nil {
			select {
			case <-w.rateLimiter.C:
			case <-w.ctx.Done():
				return
			}
		}

		var job Job
		var ok bool

		select {
		case job, ok = <-w.highQueue:
		default:
			select {
			case job, ok = <-w.normalQueue:
			default:
				select {
				case job, ok = <-w.lowQueue:
				default:
					time.Sleep(10 * time.Millisecond)
					continue
				}
			}
		}

		if !ok {
			continue
		}

		atomic.AddInt64(&w.stats.InQueue, -1)
		log.Debug("worker picked job", "worker_id", id, "root", job.Root, "priority", job.Priority.String())
		w.processJob(job)
	}
}

func (w *Worker) processJob(job Job) {
	if _, err := os.Stat(job.Root); err != nil {
		atomic.AddInt64(&w.stats.Failed, 1)
		log.Warn("scan root unreadable", "root", job.Root, "error", err)
		return
	}

	ws := validate.NewWorkspace(job.Root, w.config.ExcludePatterns)

	hash, err := ws.ContentHash()
	if err == nil && w.unchanged(job.Root, hash) {
		atomic.AddInt64(&w.stats.Skipped, 1)
		log.Debug("skipped scan", "root", job.Root, "reason", "workspace unchanged")
		return
	}

	report := w.run(w.ctx, job)

	if w.store != nil {
		if err := w.store.SaveReport(report); err != nil {
			atomic.AddInt64(&w.stats.Failed, 1)
			log.Warn("failed to persist report", "root", job.Root, "error", err)
			return
		}
	}

	if hash != "" {
		w.remember(job.Root, hash)
	}

	w.recordCompleted(report.RunID)
	log.Info("scan finished", "root", job.Root, "run_id", report.RunID,
		"errors", report.Counts.Errors, "warnings", report.Counts.Warnings)
}

func (w *Worker) run(ctx context.Context, job Job) *validate.Report {
	selected := validate.Select(w.validators, job.Validators)
	runner := validate.NewRunner(selected...)
	ws := validate.NewWorkspace(job.Root, w.config.ExcludePatterns)
	return runner.Run(ctx, ws)
}

func (w *Worker) unchanged(root, hash string) bool {
	w.lastSeenMu.Lock()
	defer w.lastSeenMu.Unlock()
	return w.lastSeen[root] == hash
}

func (w *Worker) remember(root, hash string) {
	w.lastSeenMu.Lock()
	defer w.lastSeenMu.Unlock()
	w.lastSeen[root] = hash
}

// Invalidate forgets the cached workspace hash so the next queued scan
// of root runs even if nothing changed on disk.
func (w *Worker) Invalidate(root string) {
	w.lastSeenMu.Lock()
	defer w.lastSeenMu.Unlock()
	delete(w.lastSeen, root)
}

func (w *Worker) recordCompleted(runID string) {
	atomic.AddInt64(&w.stats.Completed, 1)
	w.statsMu.Lock()
	w.stats.LastRunAt = time.Now()
	w.stats.LastRunID = runID
	w.statsMu.Unlock()
}
