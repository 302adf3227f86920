package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status of a worker on a given attendance record.
type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
)

// Shift the attendance record was taken for.
type Shift string

const (
	ShiftDay   Shift = "Day"
	ShiftNight Shift = "Night"
)

// RoleUnregistered marks a ledger entry whose worker had no roster
// match when it was last written. Entries carrying it are picked up
// later by the retroactive sweep.
const RoleUnregistered = "UNREGISTERED"

// LedgerEntry is one attendance record in the payroll ledger.
// Field order mirrors the downstream reporting contract:
// name, date, site, status, justification, cost, savings, role,
// shift, submission id.
type LedgerEntry struct {
	ID            string          `json:"id"` // unique identifier
	Name          string          `json:"name"`
	Date          string          `json:"date"`
	Site          string          `json:"site"`
	Status        Status          `json:"status"`
	Justification string          `json:"justification"`
	Cost          decimal.Decimal `json:"cost"`    // wage owed; positive only when Present
	Savings       decimal.Decimal `json:"savings"` // wage withheld; positive only when Absent
	Role          string          `json:"role"`
	Shift         Shift           `json:"shift"`
	SubmissionID  int64           `json:"submission_id"` // stable across edits of the same submission
	CreatedAt     time.Time       `json:"created_at"`
}

// Unlinked reports whether the entry still awaits a roster match.
func (e LedgerEntry) Unlinked() bool {
	return e.Role == "" || e.Role == RoleUnregistered
}
