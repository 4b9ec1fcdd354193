// Package findings persists validation runs to SQLite so reports survive
// the daemon and can be searched later.
package findings

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aget-framework/aget-sub002/internal/validate"
)

type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			return nil, err
		}
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) initSchema() error {
	if _, err := s.db.Exec(GetSchema()); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	_, _ = s.db.Exec(`INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, GetSchemaVersion())
	return nil
}

func (s *Store) Close() error {
	if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		// DB still closes cleanly without the checkpoint.
	}
	return s.db.Close()
}

// SaveReport stores the run and its findings in one transaction.
func (s *Store) SaveReport(report *validate.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	validators, err := json.Marshal(report.Validators)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO runs (id, root, validators, started_at, duration_ms, errors, warnings, infos)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, report.RunID, report.Root, string(validators), report.StartedAt,
		report.Duration.Milliseconds(), report.Counts.Errors, report.Counts.Warnings, report.Counts.Infos)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO findings (id, run_id, rule, severity, path, line, message, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	ftsStmt, err := tx.Prepare(`INSERT INTO findings_fts (finding_id, message, detail) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare fts stmt: %w", err)
	}
	defer ftsStmt.Close()

	for _, f := range report.Findings {
		if _, err := stmt.Exec(f.ID, report.RunID, f.Rule, string(f.Severity), f.Path, f.Line, f.Message, f.Detail); err != nil {
			return fmt.Errorf("insert finding %s: %w", f.ID, err)
		}
		if _, err := ftsStmt.Exec(f.ID, f.Message, f.Detail); err != nil {
			return fmt.Errorf("index finding %s: %w", f.ID, err)
		}
	}

	return tx.Commit()
}

// GetRun reconstructs a persisted report. Returns (nil, nil) when the run
// is unknown.
func (s *Store) GetRun(runID string) (*validate.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report := &validate.Report{RunID: runID}
	var validators string
	var durationMs int64

	err := s.db.QueryRow(`
		SELECT root, validators, started_at, duration_ms, errors, warnings, infos
		FROM runs WHERE id = ?
	`, runID).Scan(&report.Root, &validators, &report.StartedAt, &durationMs,
		&report.Counts.Errors, &report.Counts.Warnings, &report.Counts.Infos)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	report.Duration = time.Duration(durationMs) * time.Millisecond
	if err := json.Unmarshal([]byte(validators), &report.Validators); err != nil {
		report.Validators = nil
	}

	rows, err := s.db.Query(`
		SELECT id, rule, severity, path, line, message, detail
		FROM findings WHERE run_id = ? ORDER BY path ASC, line ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("get findings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		f, err := scanFinding(rows)
		if err != nil {
			return nil, err
		}
		report.Findings = append(report.Findings, f)
	}

	return report, rows.Err()
}

func (s *Store) ListRuns(limit int) ([]RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT id, root, validators, started_at, duration_ms, errors, warnings, infos
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var summaries []RunSummary

	for rows.Next() {
		var rs RunSummary
		var validators string
		var durationMs int64

		err := rows.Scan(&rs.RunID, &rs.Root, &validators, &rs.StartedAt, &durationMs,
			&rs.Counts.Errors, &rs.Counts.Warnings, &rs.Counts.Infos)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}

		rs.Duration = time.Duration(durationMs) * time.Millisecond
		rs.Valid = rs.Counts.Errors == 0
		if err := json.Unmarshal([]byte(validators), &rs.Validators); err != nil {
			rs.Validators = nil
		}

		summaries = append(summaries, rs)
	}

	return summaries, rows.Err()
}

// Search runs a full-text query over finding messages and details.
func (s *Store) Search(query string, limit int) ([]SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(`
		SELECT f.id, f.run_id, f.rule, f.severity, f.path, f.line, f.message, f.detail
		FROM findings f
		INNER JOIN findings_fts fts ON f.id = fts.finding_id
		WHERE findings_fts MATCH ? LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search findings: %w", err)
	}
	defer rows.Close()

	var results []SearchResult

	for rows.Next() {
		var r SearchResult
		var path, detail sql.NullString
		var line sql.NullInt64

		err := rows.Scan(&r.Finding.ID, &r.RunID, &r.Finding.Rule, &r.Finding.Severity,
			&path, &line, &r.Finding.Message, &detail)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}

		if path.Valid {
			r.Finding.Path = path.String
		}
		if line.Valid {
			r.Finding.Line = int(line.Int64)
		}
		if detail.Valid {
			r.Finding.Detail = detail.String
		}

		results = append(results, r)
	}

	return results, rows.Err()
}

func (s *Store) Stats() (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &Stats{
		BySeverity: make(map[string]int64),
		ByRule:     make(map[string]int64),
	}

	var lastRun sql.NullTime
	err := s.db.QueryRow(`SELECT COUNT(*), MAX(started_at) FROM runs`).Scan(&stats.TotalRuns, &lastRun)
	if err != nil {
		return nil, fmt.Errorf("run stats: %w", err)
	}
	if lastRun.Valid {
		stats.LastRunAt = &lastRun.Time
	}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM findings`).Scan(&stats.TotalFindings); err != nil {
		return nil, fmt.Errorf("finding count: %w", err)
	}

	rows, err := s.db.Query(`SELECT severity, COUNT(*) FROM findings GROUP BY severity`)
	if err != nil {
		return nil, fmt.Errorf("severity stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var severity string
		var count int64
		if err := rows.Scan(&severity, &count); err != nil {
			return nil, err
		}
		stats.BySeverity[severity] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ruleRows, err := s.db.Query(`SELECT rule, COUNT(*) FROM findings GROUP BY rule`)
	if err != nil {
		return nil, fmt.Errorf("rule stats: %w", err)
	}
	defer ruleRows.Close()

	for ruleRows.Next() {
		var rule string
		var count int64
		if err := ruleRows.Scan(&rule, &count); err != nil {
			return nil, err
		}
		stats.ByRule[rule] = count
	}

	return stats, ruleRows.Err()
}

// Prune drops runs that started before the cutoff, cascading to their
// findings and FTS rows.
func (s *Store) Prune(olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-olderThan)

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		DELETE FROM findings_fts WHERE finding_id IN (
			SELECT f.id FROM findings f
			INNER JOIN runs r ON f.run_id = r.id
			WHERE r.started_at < ?
		)
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune fts: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM runs WHERE started_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	pruned, _ := result.RowsAffected()
	return pruned, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFinding(row rowScanner) (validate.Finding, error) {
	var f validate.Finding
	var path, detail sql.NullString
	var line sql.NullInt64

	err := row.Scan(&f.ID, &f.Rule, &f.Severity, &path, &line, &f.Message, &detail)
	if err != nil {
		return f, fmt.Errorf("scan finding: %w", err)
	}

	if path.Valid {
		f.Path = path.String
	}
	if line.Valid {
		f.Line = int(line.Int64)
	}
	if detail.Valid {
		f.Detail = detail.String
	}

	return f, nil
}
