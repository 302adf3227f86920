package interfaces

import (
	"context"

	"github.com/obrapay/attendance-payroll-ledger-system/internal/models"
	"github.com/shopspring/decimal"
)

// LedgerStore holds the ordered attendance ledger. Any storage
// implementation (memory, postgres) must preserve append order.
type LedgerStore interface {
	SaveEntry(ctx context.Context, entry models.LedgerEntry) error
	GetEntriesBySubmission(ctx context.Context, submissionID int64) ([]models.LedgerEntry, error)
	// DeleteBySubmission removes every entry carrying the submission id
	// as one batch and returns how many were removed.
	DeleteBySubmission(ctx context.Context, submissionID int64) (int, error)
	GetLedgerEntries(ctx context.Context) ([]models.LedgerEntry, error)
	// LinkEntry updates cost, savings and role of a single entry in
	// place. Only the retroactive sweep uses it.
	LinkEntry(ctx context.Context, entryID string, cost, savings decimal.Decimal, role string) error
	// Reset clears the ledger. The roster is untouched.
	Reset(ctx context.Context) error
}
