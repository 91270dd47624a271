package ads

import "time"

// Status is a campaign's effective status as reported by the remote account.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusPaused   Status = "PAUSED"
	StatusArchived Status = "ARCHIVED"
	StatusDeleted  Status = "DELETED"
)

// Known reports whether s is one of the statuses this tool understands.
// Unknown statuses pass through untouched; we never rewrite them.
func (s Status) Known() bool {
	switch s {
	case StatusActive, StatusPaused, StatusArchived, StatusDeleted:
		return true
	}
	return false
}

// Campaign is a read-only snapshot of a remote campaign, mirrored once per
// run. The remote account owns the record; nothing here is written back
// except through an explicit mutation call.
type Campaign struct {
	ID          string
	Name        string
	Status      Status
	DailyBudget Cents
	Objective   string
	CreatedTime time.Time
}
