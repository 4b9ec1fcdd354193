package findings

const schemaVersion = 2

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	root TEXT NOT NULL,
	validators TEXT NOT NULL,
	started_at DATETIME NOT NULL,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	errors INTEGER NOT NULL DEFAULT 0,
	warnings INTEGER NOT NULL DEFAULT 0,
	infos INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_root ON runs(root);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

CREATE TABLE IF NOT EXISTS findings (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	rule TEXT NOT NULL,
	severity TEXT NOT NULL,
	path TEXT,
	line INTEGER,
	message TEXT NOT NULL,
	detail TEXT
);

CREATE INDEX IF NOT EXISTS idx_findings_run ON findings(run_id);
CREATE INDEX IF NOT EXISTS idx_findings_rule ON findings(rule);

CREATE VIRTUAL TABLE IF NOT EXISTS findings_fts USING fts5(finding_id UNINDEXED, message, detail);
`

func GetSchema() string {
	return schema
}

func GetSchemaVersion() int {
	return schemaVersion
}
