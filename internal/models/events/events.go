package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkerRegistered is published after a successful roster registration.
type WorkerRegistered struct {
	EventID    string          `json:"event_id"`
	Name       string          `json:"name"`
	Role       string          `json:"role"`
	DayRate    decimal.Decimal `json:"day_rate"`
	NightRate  decimal.Decimal `json:"night_rate"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// SubmissionProcessed is published after a submission has been turned
// into ledger entries (replacing any prior entries for the same id).
type SubmissionProcessed struct {
	EventID      string    `json:"event_id"`
	SubmissionID int64     `json:"submission_id"`
	Entries      int       `json:"entries"`
	Replaced     int       `json:"replaced"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// EntriesLinked is published after a retroactive sweep that updated
// at least one unlinked ledger entry.
type EntriesLinked struct {
	EventID    string    `json:"event_id"`
	Count      int       `json:"count"`
	OccurredAt time.Time `json:"occurred_at"`
}
