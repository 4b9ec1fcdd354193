package validate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aget-framework/aget-sub002/internal/logger"
)

var log = logger.ForComponent("validate")

type Validator interface {
	Name() string
	Validate(ctx context.Context, ws *Workspace) ([]Finding, error)
}

type Runner struct {
	validators []Validator
}

func NewRunner(validators ...Validator) *Runner {
	return &Runner{validators: validators}
}

func (r *Runner) Names() []string {
	names := make([]string, 0, len(r.validators))
	for _, v := range r.validators {
		names = append(names, v.Name())
	}
	return names
}

// Run executes every validator against the workspace and aggregates one
// report. A validator failing or panicking becomes an error finding; it
// never aborts the run.
func (r *Runner) Run(ctx context.Context, ws *Workspace) *Report {
	report := &Report{
		RunID:      uuid.NewString(),
		Root:       ws.Root,
		Validators: r.Names(),
		StartedAt:  time.Now().UTC(),
	}

	files, err := ws.MarkdownFiles()
	if err != nil {
		report.Findings = append(report.Findings, Finding{
			ID:       uuid.NewString(),
			Rule:     "workspace/unreadable",
			Severity: SeverityError,
			Message:  fmt.Sprintf("cannot walk workspace: %v", err),
		})
	} else if len(files) == 0 {
		report.Findings = append(report.Findings, Finding{
			ID:       uuid.NewString(),
			Rule:     "workspace/empty",
			Severity: SeverityInfo,
			Message:  "workspace contains no Markdown documents",
		})
	}

	for _, v := range r.validators {
		select {
		case <-ctx.Done():
			report.Findings = append(report.Findings, Finding{
				ID:       uuid.NewString(),
				Rule:     "run/canceled",
				Severity: SeverityError,
				Message:  ctx.Err().Error(),
			})
			report.Duration = time.Since(report.StartedAt)
			report.Counts = countFindings(report.Findings)
			return report
		default:
		}

		findings := r.runOne(ctx, v, ws)
		for i := range findings {
			if findings[i].ID == "" {
				findings[i].ID = uuid.NewString()
			}
		}
		report.Findings = append(report.Findings, findings...)

		log.Debug("validator finished", "validator", v.Name(), "findings", len(findings))
	}

	report.Duration = time.Since(report.StartedAt)
	report.Counts = countFindings(report.Findings)
	return report
}

func (r *Runner) runOne(ctx context.Context, v Validator, ws *Workspace) (findings []Finding) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("validator panicked", "validator", v.Name(), "panic", rec)
			findings = append(findings, Finding{
				Rule:     v.Name() + "/panicked",
				Severity: SeverityError,
				Message:  fmt.Sprintf("validator %s panicked: %v", v.Name(), rec),
			})
		}
	}()

	findings, err := v.Validate(ctx, ws)
	if err != nil {
		findings = append(findings, Finding{
			Rule:     v.Name() + "/failed",
			Severity: SeverityError,
			Message:  fmt.Sprintf("validator %s failed: %v", v.Name(), err),
		})
	}
	return findings
}
