package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rburke/adscale/rescale"
)

// capture collects records in memory.
type capture struct {
	runs     []RunRecord
	outcomes []OutcomeRecord
}

func (c *capture) RecordRun(r RunRecord) error         { c.runs = append(c.runs, r); return nil }
func (c *capture) RecordOutcome(o OutcomeRecord) error { c.outcomes = append(c.outcomes, o); return nil }
func (c *capture) Close() error                        { return nil }

func TestRecordWritesSummary(t *testing.T) {
	t.Parallel()

	sum := rescale.Summary{
		RunID:    "01HRUN",
		Started:  time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
		Finished: time.Date(2024, 3, 10, 9, 1, 0, 0, time.UTC),
		Updated:  1,
		Errored:  1,
		Outcomes: []rescale.CampaignOutcome{
			{CampaignID: "111", Name: "A", Result: rescale.ResultUpdated, OldBudget: 5000, NewBudget: 5500, Reason: "adjusted"},
			{CampaignID: "222", Name: "B", Result: rescale.ResultErrored, Err: "fetch campaign: boom"},
		},
	}

	c := &capture{}
	require.NoError(t, Record(c, "act_42", sum))

	require.Len(t, c.runs, 1)
	assert.Equal(t, "01HRUN", c.runs[0].RunID)
	assert.Equal(t, "act_42", c.runs[0].AccountID)
	assert.Equal(t, 1, c.runs[0].Updated)
	assert.Equal(t, 1, c.runs[0].Errored)

	require.Len(t, c.outcomes, 2)
	assert.Equal(t, "111", c.outcomes[0].CampaignID)
	assert.Equal(t, "01HRUN", c.outcomes[1].RunID)
	assert.Equal(t, "fetch campaign: boom", c.outcomes[1].Err)
}

func TestCSVJournal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	runsPath := filepath.Join(dir, "runs.csv")
	outcomesPath := filepath.Join(dir, "outcomes.csv")

	j, err := NewCSV(runsPath, outcomesPath)
	require.NoError(t, err)

	require.NoError(t, j.RecordRun(RunRecord{
		RunID:     "01HRUN",
		AccountID: "act_42",
		Started:   time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
		Finished:  time.Date(2024, 3, 10, 9, 1, 0, 0, time.UTC),
		Updated:   2,
	}))
	require.NoError(t, j.RecordOutcome(OutcomeRecord{
		RunID:      "01HRUN",
		CampaignID: "111",
		Name:       "Spring Sale",
		Result:     "updated",
		OldBudget:  5000,
		NewBudget:  5500,
		Reason:     "adjusted",
	}))
	require.NoError(t, j.Close())

	rf, err := os.Open(runsPath)
	require.NoError(t, err)
	defer rf.Close()

	rows, err := csv.NewReader(rf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "run_id", rows[0][0])
	assert.Equal(t, "01HRUN", rows[1][0])
	assert.Equal(t, "2", rows[1][4])

	of, err := os.Open(outcomesPath)
	require.NoError(t, err)
	defer of.Close()

	rows, err = csv.NewReader(of).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"01HRUN", "111", "Spring Sale", "updated", "5000", "5500", "adjusted", ""}, rows[1])
}

func TestNopJournal(t *testing.T) {
	t.Parallel()

	var j Journal = Nop{}
	assert.NoError(t, j.RecordRun(RunRecord{}))
	assert.NoError(t, j.RecordOutcome(OutcomeRecord{}))
	assert.NoError(t, j.Close())
}
