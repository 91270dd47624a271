package rescale

import (
	"time"

	"github.com/rburke/adscale/ads"
)

// Per-campaign results as recorded in the run summary.
const (
	ResultUpdated = "updated"
	ResultSkipped = "skipped"
	ResultPaused  = "paused"
	ResultErrored = "errored"
)

// CampaignOutcome is the per-campaign line of a run summary. Err is set
// only for errored outcomes; NewBudget only for updated ones.
type CampaignOutcome struct {
	CampaignID string
	Name       string
	Result     string
	OldBudget  ads.Cents
	NewBudget  ads.Cents
	Reason     string
	Err        string
}

func (o CampaignOutcome) errored(err error) CampaignOutcome {
	o.Result = ResultErrored
	o.Err = err.Error()
	return o
}

// Summary accumulates what one run did, so an operator can reconcile
// failures without re-running the whole batch.
type Summary struct {
	RunID    string
	Started  time.Time
	Finished time.Time

	Updated int
	Skipped int
	Paused  int
	Errored int

	Outcomes []CampaignOutcome
}

// Processed is the number of campaigns that completed without error.
func (s Summary) Processed() int {
	return s.Updated + s.Skipped + s.Paused
}

func (s *Summary) record(o CampaignOutcome) {
	s.Outcomes = append(s.Outcomes, o)
	switch o.Result {
	case ResultUpdated:
		s.Updated++
	case ResultSkipped:
		s.Skipped++
	case ResultPaused:
		s.Paused++
	default:
		s.Errored++
	}
}
