// Package journal persists run summaries so an operator can reconcile a
// partially failed batch without re-running it.
package journal

import (
	"time"

	"github.com/rburke/adscale/ads"
	"github.com/rburke/adscale/rescale"
)

// RunRecord is one rescaling run's totals.
type RunRecord struct {
	RunID     string
	AccountID string
	Started   time.Time
	Finished  time.Time
	Updated   int
	Skipped   int
	Paused    int
	Errored   int
}

// OutcomeRecord is one campaign's result within a run.
type OutcomeRecord struct {
	RunID      string
	CampaignID string
	Name       string
	Result     string
	OldBudget  ads.Cents
	NewBudget  ads.Cents
	Reason     string
	Err        string
}

type Journal interface {
	RecordRun(RunRecord) error
	RecordOutcome(OutcomeRecord) error
	Close() error
}

// Record writes a full run summary, totals first then one row per campaign.
func Record(j Journal, accountID string, sum rescale.Summary) error {
	err := j.RecordRun(RunRecord{
		RunID:     sum.RunID,
		AccountID: accountID,
		Started:   sum.Started,
		Finished:  sum.Finished,
		Updated:   sum.Updated,
		Skipped:   sum.Skipped,
		Paused:    sum.Paused,
		Errored:   sum.Errored,
	})
	if err != nil {
		return err
	}

	for _, o := range sum.Outcomes {
		err := j.RecordOutcome(OutcomeRecord{
			RunID:      sum.RunID,
			CampaignID: o.CampaignID,
			Name:       o.Name,
			Result:     o.Result,
			OldBudget:  o.OldBudget,
			NewBudget:  o.NewBudget,
			Reason:     o.Reason,
			Err:        o.Err,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Nop discards everything, for runs without a configured journal.
type Nop struct{}

func (Nop) RecordRun(RunRecord) error         { return nil }
func (Nop) RecordOutcome(OutcomeRecord) error { return nil }
func (Nop) Close() error                      { return nil }
