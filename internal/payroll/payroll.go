package payroll

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	interfaces "github.com/obrapay/attendance-payroll-ledger-system/internal/interfaces"
	"github.com/obrapay/attendance-payroll-ledger-system/internal/models"
	"github.com/obrapay/attendance-payroll-ledger-system/internal/models/events"
	"github.com/obrapay/attendance-payroll-ledger-system/internal/normalize"
	"github.com/shopspring/decimal"
)

// Validation failures surfaced to the registration caller. No partial
// write happens when either is returned.
var (
	ErrEmptyWorkerName      = errors.New("worker name is empty after normalization")
	ErrNonPositiveNightRate = errors.New("night rate must be positive")
)

// Topics the service publishes notifications on.
const (
	TopicWorkerRegistered    = "worker_registered"
	TopicSubmissionProcessed = "submission_processed"
	TopicEntriesLinked       = "entries_linked"
)

// Payroll is the reconciliation service that owns all mutation of the
// roster and the attendance ledger. It holds the storage interfaces
// and a single mutex: the delete-then-append replacement in
// ProcessSubmission is not atomic, so every mutating operation takes
// the same lock to keep the one-writer invariant.
type Payroll struct {
	roster interfaces.RosterStore
	ledger interfaces.LedgerStore
	events interfaces.EventPublisher // optional, nil means no notifications
	settle time.Duration             // bounded wait for upstream capture lag

	mu sync.Mutex // serializes register/process/sync/rename/reset
}

// Option configures a Payroll at construction time.
type Option func(*Payroll)

// WithEventPublisher attaches a notification publisher. Publishing is
// best effort; failures never affect bookkeeping results.
func WithEventPublisher(pub interfaces.EventPublisher) Option {
	return func(p *Payroll) { p.events = pub }
}

// WithSettleDelay sets the pause ProcessSubmission takes before
// reading anything, to tolerate eventual-consistency lag in the
// upstream form-capture collaborator.
func WithSettleDelay(d time.Duration) Option {
	return func(p *Payroll) { p.settle = d }
}

// New builds a Payroll on top of the given stores. Any storage
// implementation (memory, postgres) works as long as it preserves
// table order.
func New(roster interfaces.RosterStore, ledger interfaces.LedgerStore, opts ...Option) *Payroll {
	p := &Payroll{
		roster: roster,
		ledger: ledger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Registration is a roster registration request as captured from the
// menu form. Name is raw text; it is normalized here.
type Registration struct {
	Name       string          `json:"name"`
	Role       string          `json:"role"`
	DayRate    decimal.Decimal `json:"day_rate"`
	NightRate  decimal.Decimal `json:"night_rate"`
	Type       string          `json:"type"`
	ExtraBonus decimal.Decimal `json:"extra_bonus"`
}

// RegisterWorker validates and appends a new roster entry, then runs
// the retroactive sweep so attendance submitted before the worker
// existed picks up their rates. Returns the stored entry and how many
// ledger entries the sweep linked.
//
// Registration never deduplicates: a second entry for the same name is
// appended and lookups keep resolving to the first one, matching the
// row-order semantics the downstream views rely on.
func (p *Payroll) RegisterWorker(ctx context.Context, reg Registration) (models.RosterEntry, int, error) {
	name := normalize.Clean(reg.Name)
	if name == "" {
		return models.RosterEntry{}, 0, ErrEmptyWorkerName
	}
	if reg.NightRate.Cmp(decimal.Zero) <= 0 {
		return models.RosterEntry{}, 0, ErrNonPositiveNightRate
	}

	entry := models.RosterEntry{
		Name:       name,
		Role:       strings.ToUpper(strings.TrimSpace(reg.Role)),
		DayRate:    reg.DayRate,
		NightRate:  reg.NightRate,
		Type:       reg.Type,
		ExtraBonus: reg.ExtraBonus,
	}

	p.mu.Lock()         // one writer at a time across roster and ledger
	defer p.mu.Unlock() // released automatically when the function exits

	// Append unconditionally; duplicates are allowed and lookups keep
	// resolving to the first row (see firstMatch below).
	if err := p.roster.SaveWorker(ctx, entry); err != nil {
		return models.RosterEntry{}, 0, err
	}

	// Sweep right away so attendance that arrived before this
	// registration picks up the new worker's rates.
	linked, err := p.syncLocked(ctx)
	if err != nil {
		return entry, 0, err
	}

	p.publish(TopicWorkerRegistered, events.WorkerRegistered{
		EventID:    uuid.New().String(),
		Name:       entry.Name,
		Role:       entry.Role,
		DayRate:    entry.DayRate,
		NightRate:  entry.NightRate,
		OccurredAt: time.Now(),
	})
	return entry, linked, nil
}

// memoryValue is what a prior ledger entry remembered for a worker:
// the monetary value it carried (cost or savings, whichever was set)
// and the role it was linked to.
type memoryValue struct {
	value decimal.Decimal
	role  string
}

// ProcessSubmission turns one form submission into ledger entries,
// fully replacing whatever entries a previous version of the same
// submission produced.
//
// Value memory: before deleting the old entries we record, per worker,
// the value and role they already carried. Re-editing a past
// submission (say, to fix the justification text) must not re-price
// those days with today's roster rates; a raise effective today
// applies to new submissions only. Workers without memory are priced
// from the current roster; workers absent from the roster too are
// written with the UNREGISTERED sentinel and a zero value, to be
// linked later by SyncAll.
func (p *Payroll) ProcessSubmission(ctx context.Context, sub models.Submission) ([]models.LedgerEntry, error) {
	// Upstream capture may lag behind the trigger. A bounded wait, not
	// a retry loop.
	if p.settle > 0 {
		select {
		case <-time.After(p.settle):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	shift := sub.Shift
	if shift == "" {
		shift = models.ShiftDay
	}

	p.mu.Lock()         // the delete-then-append below must not interleave with other writers
	defer p.mu.Unlock() // released automatically when the function exits

	// Load whatever entries an earlier version of this submission left
	// behind. Empty for a brand-new submission.
	prior, err := p.ledger.GetEntriesBySubmission(ctx, sub.ID)
	if err != nil {
		return nil, err
	}

	// Reverse scan so that, should duplicates exist, the oldest entry
	// wins the memory slot, same resolution order as the source table.
	memory := make(map[string]memoryValue)
	for i := len(prior) - 1; i >= 0; i-- {
		e := prior[i]
		if e.Unlinked() {
			continue // never remember sentinel entries; they re-resolve from the roster
		}
		value := e.Savings
		if e.Cost.Cmp(decimal.Zero) > 0 {
			value = e.Cost
		}
		memory[normalize.Clean(e.Name)] = memoryValue{value: value, role: e.Role}
	}

	// Full replacement: the old set goes away as a batch before the new
	// set is appended, so at most one set is ever live per submission.
	replaced, err := p.ledger.DeleteBySubmission(ctx, sub.ID)
	if err != nil {
		return nil, err
	}

	// Snapshot of the current roster for names with no memory.
	workers, err := p.roster.GetWorkers(ctx)
	if err != nil {
		return nil, err
	}

	var written []models.LedgerEntry // everything appended by this call
	seen := make(map[string]bool)    // one entry per distinct normalized name

	// appendFor walks one comma-separated name list and appends a
	// ledger entry per new name it finds. Present runs first, so a
	// name listed on both sides lands as Present.
	appendFor := func(list string, status models.Status) error {
		for _, raw := range strings.Split(list, ",") {
			name := normalize.Clean(raw)
			if name == "" || seen[name] {
				continue // empty token or already handled
			}
			seen[name] = true

			entry := models.LedgerEntry{
				ID:            uuid.New().String(),
				Name:          name,
				Date:          sub.Date,
				Site:          sub.Site,
				Status:        status,
				Justification: sub.Justification,
				Cost:          decimal.Zero,
				Savings:       decimal.Zero,
				Role:          models.RoleUnregistered,
				Shift:         shift,
				SubmissionID:  sub.ID,
				CreatedAt:     time.Now(),
			}

			if mem, ok := memory[name]; ok {
				// Memory first: keep the historical value and role.
				entry.Role = mem.role
				if status == models.StatusPresent {
					entry.Cost = mem.value
				} else {
					entry.Savings = mem.value
				}
			} else if w, ok := firstMatch(workers, name); ok {
				// New or never-linked name: price from the current roster.
				entry.Role = w.Role
				entry.Cost, entry.Savings = valueFromRoster(w, status, shift)
			}

			if err := p.ledger.SaveEntry(ctx, entry); err != nil {
				return err
			}
			written = append(written, entry)
		}
		return nil
	}

	if err := appendFor(sub.PresentNames, models.StatusPresent); err != nil {
		return written, err
	}
	if err := appendFor(sub.AbsentNames, models.StatusAbsent); err != nil {
		return written, err
	}

	p.publish(TopicSubmissionProcessed, events.SubmissionProcessed{
		EventID:      uuid.New().String(),
		SubmissionID: sub.ID,
		Entries:      len(written),
		Replaced:     replaced,
		OccurredAt:   time.Now(),
	})
	return written, nil
}

// SyncAll is the retroactive sweep: every ledger entry still carrying
// the UNREGISTERED sentinel is matched against the current roster by
// normalized name and, when found, re-priced from today's rates. This
// is the one path where a later roster change does apply to past
// dates, because the entry never had a real value to preserve.
// Returns the number of entries linked. Safe to invoke repeatedly.
func (p *Payroll) SyncAll(ctx context.Context) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.syncLocked(ctx)
}

func (p *Payroll) syncLocked(ctx context.Context) (int, error) {
	workers, err := p.roster.GetWorkers(ctx)
	if err != nil {
		return 0, err
	}
	if len(workers) == 0 {
		return 0, nil
	}

	entries, err := p.ledger.GetLedgerEntries(ctx)
	if err != nil {
		return 0, err
	}

	count := 0 // how many entries this sweep linked
	for _, e := range entries {
		if !unlinkedRole(e.Role) {
			continue // already linked; its value is history now
		}
		w, ok := firstMatch(workers, normalize.Clean(e.Name))
		if !ok {
			continue // still unregistered, a later sweep may catch it
		}
		cost, savings := valueFromRoster(w, e.Status, e.Shift)
		if err := p.ledger.LinkEntry(ctx, e.ID, cost, savings, w.Role); err != nil {
			return count, err
		}
		count++
	}

	if count > 0 {
		p.publish(TopicEntriesLinked, events.EntriesLinked{
			EventID:    uuid.New().String(),
			Count:      count,
			OccurredAt: time.Now(),
		})
	}
	return count, nil
}

// RenameWorker re-normalizes a roster name in place (the manual-edit
// trigger) and sweeps, so ledger entries recorded under the corrected
// spelling get linked. Returns how many roster rows were renamed and
// how many ledger entries the sweep linked.
func (p *Payroll) RenameWorker(ctx context.Context, oldName, newName string) (int, int, error) {
	from := normalize.Clean(oldName)
	to := normalize.Clean(newName)
	if to == "" {
		return 0, 0, ErrEmptyWorkerName
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	renamed, err := p.roster.RenameWorker(ctx, from, to)
	if err != nil {
		return 0, 0, err
	}
	linked, err := p.syncLocked(ctx)
	if err != nil {
		return renamed, 0, err
	}
	return renamed, linked, nil
}

// ResetCycle clears the attendance ledger for a new pay cycle. The
// roster is preserved. The caller is responsible for confirming with
// the user first; this method just executes.
func (p *Payroll) ResetCycle(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ledger.Reset(ctx)
}

// GetRoster returns the roster table in registration order.
func (p *Payroll) GetRoster(ctx context.Context) ([]models.RosterEntry, error) {
	workers, err := p.roster.GetWorkers(ctx)
	if err != nil {
		return []models.RosterEntry{}, err
	}
	return workers, nil
}

// GetLedgerEntries returns the full ledger in append order.
func (p *Payroll) GetLedgerEntries(ctx context.Context) ([]models.LedgerEntry, error) {
	entries, err := p.ledger.GetLedgerEntries(ctx)
	if err != nil {
		return []models.LedgerEntry{}, err
	}
	return entries, nil
}

// firstMatch resolves a normalized name against the roster in table
// order. Duplicate registrations are possible; the first row wins.
func firstMatch(workers []models.RosterEntry, name string) (models.RosterEntry, bool) {
	for _, w := range workers {
		if normalize.Clean(w.Name) == name {
			return w, true
		}
	}
	return models.RosterEntry{}, false
}

// valueFromRoster prices an attendance record from current roster
// state: a present day costs the shift rate plus the extra bonus, an
// absent day saves the bare shift rate. Exactly one of the two
// returned values is non-zero (or both zero for a zero rate).
func valueFromRoster(w models.RosterEntry, status models.Status, shift models.Shift) (cost, savings decimal.Decimal) {
	base := w.RateFor(shift)
	if status == models.StatusPresent {
		return base.Add(w.ExtraBonus), decimal.Zero
	}
	return decimal.Zero, base
}

// unlinkedRole reports whether a stored role is the sentinel, being
// tolerant of manual edits that changed case or spacing.
func unlinkedRole(role string) bool {
	cleaned := normalize.Clean(role)
	return cleaned == "" || cleaned == models.RoleUnregistered
}

func (p *Payroll) publish(topic string, event any) {
	if p.events == nil {
		return
	}
	// Notifications are advisory; a broker outage must not fail the
	// bookkeeping operation that triggered them.
	_ = p.events.Publish(topic, event)
}
