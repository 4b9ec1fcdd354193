package scan

import "time"

type JobPriority int

const (
	PriorityLow JobPriority = iota
	PriorityNormal
	PriorityHigh
)

func (p JobPriority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityLow:
		return "low"
	default:
		return "normal"
	}
}

// Job requests a validation run over one workspace root. An empty
// Validators slice runs the full set.
type Job struct {
	Root       string
	Validators []string
	Priority   JobPriority
	EnqueuedAt time.Time
}

type Stats struct {
	Completed int64
	Failed    int64
	Skipped   int64
	InQueue   int64
	IsRunning bool
	StartedAt time.Time
	LastRunAt time.Time
	LastRunID string
}
