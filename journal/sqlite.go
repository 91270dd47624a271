package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, account_id, started, finished, updated, skipped, paused, errored)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.AccountID, r.Started, r.Finished,
		r.Updated, r.Skipped, r.Paused, r.Errored,
	)
	return err
}

func (j *SQLite) RecordOutcome(o OutcomeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO outcomes
		(run_id, campaign_id, name, result, old_budget, new_budget, reason, err)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.RunID, o.CampaignID, o.Name, o.Result,
		int64(o.OldBudget), int64(o.NewBudget), o.Reason, o.Err,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
