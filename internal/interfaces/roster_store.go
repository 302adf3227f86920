package interfaces

import (
	"context"

	"github.com/obrapay/attendance-payroll-ledger-system/internal/models"
)

// RosterStore holds the ordered worker registration table. Order
// matters: lookups resolve to the first matching name.
type RosterStore interface {
	SaveWorker(ctx context.Context, entry models.RosterEntry) error
	GetWorkers(ctx context.Context) ([]models.RosterEntry, error)
	// RenameWorker rewrites the stored name of every roster row whose
	// name equals oldName. Both arguments are normalized names.
	RenameWorker(ctx context.Context, oldName, newName string) (int, error)
}
