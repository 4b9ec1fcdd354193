package watcher

import (
	"time"

	"github.com/aget-framework/aget-sub002/internal/scan"
)

type EventType int

const (
	EventCreate EventType = iota
	EventModify
	EventDelete
	EventRename
)

func (e EventType) String() string {
	switch e {
	case EventCreate:
		return "create"
	case EventModify:
		return "modify"
	case EventDelete:
		return "delete"
	case EventRename:
		return "rename"
	default:
		return "unknown"
	}
}

type FileEvent struct {
	Path      string
	Type      EventType
	Timestamp time.Time
}

// EventClassifier maps batch size to scan priority. A burst of changes
// looks like a checkout or generator run and should preempt idle rescans.
type EventClassifier struct{}

func NewEventClassifier() *EventClassifier {
	return &EventClassifier{}
}

func (c *EventClassifier) ClassifyBatch(events []FileEvent) scan.JobPriority {
	count := len(events)

	if count > 10 {
		return scan.PriorityHigh
	}

	if count >= 3 {
		return scan.PriorityNormal
	}

	return scan.PriorityLow
}
