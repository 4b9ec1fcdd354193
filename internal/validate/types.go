package validate

import (
	"fmt"
	"time"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

type Finding struct {
	ID       string   `json:"id"`
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Path     string   `json:"path,omitempty"`
	Line     int      `json:"line,omitempty"`
	Message  string   `json:"message"`
	Detail   string   `json:"detail,omitempty"`
}

type Counts struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
}

type Report struct {
	RunID      string        `json:"run_id"`
	Root       string        `json:"root"`
	Validators []string      `json:"validators"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
	Findings   []Finding     `json:"findings"`
	Counts     Counts        `json:"counts"`
}

// Valid reports whether the run produced no error-severity findings.
// Warnings and infos do not fail a workspace.
func (r *Report) Valid() bool {
	return r.Counts.Errors == 0
}

func (r *Report) Summary() string {
	return fmt.Sprintf("validation: %d errors, %d warnings, %d infos. Valid: %v",
		r.Counts.Errors, r.Counts.Warnings, r.Counts.Infos, r.Valid())
}

func countFindings(findings []Finding) Counts {
	var c Counts
	for _, f := range findings {
		switch f.Severity {
		case SeverityError:
			c.Errors++
		case SeverityWarning:
			c.Warnings++
		case SeverityInfo:
			c.Infos++
		}
	}
	return c
}
