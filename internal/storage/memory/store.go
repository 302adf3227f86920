package memory

import (
	"context"
	"sync"

	interfaces "github.com/obrapay/attendance-payroll-ledger-system/internal/interfaces"
	"github.com/obrapay/attendance-payroll-ledger-system/internal/models"
	"github.com/shopspring/decimal"
)

// Store is an in-memory implementation of both the roster and ledger
// stores. Both tables are plain slices, so the append order that the
// first-match lookup and the downstream views depend on comes for free.
// A mutex makes it safe for concurrent reads alongside the service's
// single writer.
type Store struct {
	mu      sync.Mutex
	workers []models.RosterEntry
	entries []models.LedgerEntry
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		workers: make([]models.RosterEntry, 0),
		entries: make([]models.LedgerEntry, 0),
	}
}

// SaveWorker appends a roster row. Always succeeds in memory.
func (s *Store) SaveWorker(ctx context.Context, entry models.RosterEntry) error {
	s.mu.Lock()         // lock to prevent concurrent writes
	defer s.mu.Unlock() // unlock automatically when the function exits

	s.workers = append(s.workers, entry) // append keeps registration order
	return nil
}

// GetWorkers returns a copy of the roster table so callers can't
// mutate internal state.
func (s *Store) GetWorkers(ctx context.Context) ([]models.RosterEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]models.RosterEntry, len(s.workers))
	copy(copied, s.workers)
	return copied, nil
}

func (s *Store) RenameWorker(ctx context.Context, oldName, newName string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	renamed := 0
	for i := range s.workers {
		if s.workers[i].Name == oldName {
			s.workers[i].Name = newName
			renamed++
		}
	}
	return renamed, nil
}

// SaveEntry appends a ledger entry. Always succeeds in memory.
func (s *Store) SaveEntry(ctx context.Context, entry models.LedgerEntry) error {
	s.mu.Lock()         // lock to prevent concurrent writes
	defer s.mu.Unlock() // unlock automatically when the function exits

	s.entries = append(s.entries, entry) // append keeps ledger order
	return nil
}

// GetEntriesBySubmission returns every entry carrying the submission
// id, in ledger order.
func (s *Store) GetEntriesBySubmission(ctx context.Context, submissionID int64) ([]models.LedgerEntry, error) {
	s.mu.Lock()         // lock so a concurrent writer can't shift the slice under us
	defer s.mu.Unlock() // unlock automatically when the function exits

	var result []models.LedgerEntry
	for _, e := range s.entries {
		if e.SubmissionID == submissionID {
			result = append(result, e)
		}
	}
	return result, nil
}

// DeleteBySubmission removes the whole batch in one pass. Filtering
// into a fresh slice avoids the index-shifting hazards of deleting
// while iterating.
func (s *Store) DeleteBySubmission(ctx context.Context, submissionID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]models.LedgerEntry, 0, len(s.entries))
	removed := 0
	for _, e := range s.entries {
		if e.SubmissionID == submissionID {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return removed, nil
}

func (s *Store) GetLedgerEntries(ctx context.Context) ([]models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]models.LedgerEntry, len(s.entries))
	copy(copied, s.entries)
	return copied, nil
}

// LinkEntry rewrites the financial columns and role of one entry in
// place. Everything else (name, date, status, submission id) stays.
func (s *Store) LinkEntry(ctx context.Context, entryID string, cost, savings decimal.Decimal, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].ID == entryID {
			s.entries[i].Cost = cost
			s.entries[i].Savings = savings
			s.entries[i].Role = role
			return nil
		}
	}
	return nil // already gone; linking is best-effort per entry
}

func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = s.entries[:0]
	return nil
}

// Compile-time checks: Store implements both storage interfaces.
var (
	_ interfaces.RosterStore = (*Store)(nil)
	_ interfaces.LedgerStore = (*Store)(nil)
)
