package journal

import (
	"encoding/csv"
	"errors"
	"os"
	"strconv"
	"time"
)

type CSV struct {
	runs     *csv.Writer
	outcomes *csv.Writer
	rf, of   *os.File
}

func NewCSV(runsPath, outcomesPath string) (*CSV, error) {
	rf, err := os.Create(runsPath)
	if err != nil {
		return nil, err
	}
	of, err := os.Create(outcomesPath)
	if err != nil {
		rf.Close()
		return nil, err
	}

	rw := csv.NewWriter(rf)
	ow := csv.NewWriter(of)

	if err := rw.Write([]string{"run_id", "account_id", "started", "finished", "updated", "skipped", "paused", "errored"}); err != nil {
		return nil, err
	}
	if err := ow.Write([]string{"run_id", "campaign_id", "name", "result", "old_budget", "new_budget", "reason", "err"}); err != nil {
		return nil, err
	}

	rw.Flush()
	if err := rw.Error(); err != nil {
		return nil, err
	}
	ow.Flush()
	if err := ow.Error(); err != nil {
		return nil, err
	}

	return &CSV{rw, ow, rf, of}, nil
}

func (j *CSV) RecordRun(r RunRecord) error {
	j.runs.Write([]string{
		r.RunID,
		r.AccountID,
		r.Started.Format(time.RFC3339),
		r.Finished.Format(time.RFC3339),
		strconv.Itoa(r.Updated),
		strconv.Itoa(r.Skipped),
		strconv.Itoa(r.Paused),
		strconv.Itoa(r.Errored),
	})
	j.runs.Flush()
	return j.runs.Error()
}

func (j *CSV) RecordOutcome(o OutcomeRecord) error {
	j.outcomes.Write([]string{
		o.RunID,
		o.CampaignID,
		o.Name,
		o.Result,
		strconv.FormatInt(int64(o.OldBudget), 10),
		strconv.FormatInt(int64(o.NewBudget), 10),
		o.Reason,
		o.Err,
	})
	j.outcomes.Flush()
	return j.outcomes.Error()
}

func (j *CSV) Close() error {
	j.runs.Flush()
	j.outcomes.Flush()

	return errors.Join(
		j.runs.Error(),
		j.outcomes.Error(),
		j.rf.Close(),
		j.of.Close(),
	)
}
