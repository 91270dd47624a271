package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	account_id TEXT NOT NULL,
	started DATETIME NOT NULL,
	finished DATETIME NOT NULL,
	updated INTEGER NOT NULL,
	skipped INTEGER NOT NULL,
	paused INTEGER NOT NULL,
	errored INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS outcomes (
	run_id TEXT NOT NULL,
	campaign_id TEXT NOT NULL,
	name TEXT NOT NULL,
	result TEXT NOT NULL,
	old_budget INTEGER NOT NULL,
	new_budget INTEGER NOT NULL,
	reason TEXT NOT NULL,
	err TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_outcomes_run ON outcomes(run_id);
`
