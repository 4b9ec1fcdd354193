package findings

import (
	"time"

	"github.com/aget-framework/aget-sub002/internal/validate"
)

type RunSummary struct {
	RunID      string          `json:"run_id"`
	Root       string          `json:"root"`
	Validators []string        `json:"validators"`
	StartedAt  time.Time       `json:"started_at"`
	Duration   time.Duration   `json:"duration"`
	Counts     validate.Counts `json:"counts"`
	Valid      bool            `json:"valid"`
}

type SearchResult struct {
	RunID   string           `json:"run_id"`
	Finding validate.Finding `json:"finding"`
}

type Stats struct {
	TotalRuns     int64            `json:"total_runs"`
	TotalFindings int64            `json:"total_findings"`
	BySeverity    map[string]int64 `json:"by_severity"`
	ByRule        map[string]int64 `json:"by_rule"`
	LastRunAt     *time.Time       `json:"last_run_at,omitempty"`
}
