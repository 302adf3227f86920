package postgres

import (
	"context"
	"database/sql"

	interfaces "github.com/obrapay/attendance-payroll-ledger-system/internal/interfaces"
	"github.com/obrapay/attendance-payroll-ledger-system/internal/models"
	"github.com/shopspring/decimal"
)

// Store persists the roster and the attendance ledger in postgres.
// A BIGSERIAL position column keeps both tables ordered, so the
// first-match name lookup and the downstream reporting contract
// behave exactly like the in-memory slices.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db: db,
	}
}

// EnsureSchema creates both tables when they are missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS roster_workers (
		pos         BIGSERIAL PRIMARY KEY,
		name        TEXT    NOT NULL,
		role        TEXT    NOT NULL DEFAULT '',
		day_rate    NUMERIC NOT NULL DEFAULT 0,
		night_rate  NUMERIC NOT NULL,
		worker_type TEXT    NOT NULL DEFAULT '',
		extra_bonus NUMERIC NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS attendance_entries (
		pos           BIGSERIAL PRIMARY KEY,
		id            TEXT    NOT NULL UNIQUE,
		name          TEXT    NOT NULL,
		date          TEXT    NOT NULL DEFAULT '',
		site          TEXT    NOT NULL DEFAULT '',
		status        TEXT    NOT NULL,
		justification TEXT    NOT NULL DEFAULT '',
		cost          NUMERIC NOT NULL DEFAULT 0,
		savings       NUMERIC NOT NULL DEFAULT 0,
		role          TEXT    NOT NULL DEFAULT '',
		shift         TEXT    NOT NULL,
		submission_id BIGINT  NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_attendance_submission ON attendance_entries (submission_id);`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *Store) SaveWorker(ctx context.Context, entry models.RosterEntry) error {
	const query = `INSERT INTO roster_workers (name, role, day_rate, night_rate, worker_type, extra_bonus)
	VALUES ($1,$2,$3,$4,$5,$6)`

	_, err := s.db.ExecContext(ctx, query,
		entry.Name, entry.Role, entry.DayRate, entry.NightRate, entry.Type, entry.ExtraBonus)
	return err
}

func (s *Store) GetWorkers(ctx context.Context) ([]models.RosterEntry, error) {
	const query = `SELECT name, role, day_rate, night_rate, worker_type, extra_bonus
	FROM roster_workers ORDER BY pos`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workers []models.RosterEntry
	for rows.Next() {
		var w models.RosterEntry
		if err := rows.Scan(&w.Name, &w.Role, &w.DayRate, &w.NightRate, &w.Type, &w.ExtraBonus); err != nil {
			return nil, err
		}
		workers = append(workers, w)
	}
	return workers, rows.Err()
}

func (s *Store) RenameWorker(ctx context.Context, oldName, newName string) (int, error) {
	const query = `UPDATE roster_workers SET name = $2 WHERE name = $1`

	res, err := s.db.ExecContext(ctx, query, oldName, newName)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *Store) SaveEntry(ctx context.Context, entry models.LedgerEntry) error {
	const query = `INSERT INTO attendance_entries
	(id, name, date, site, status, justification, cost, savings, role, shift, submission_id, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID, entry.Name, entry.Date, entry.Site, string(entry.Status), entry.Justification,
		entry.Cost, entry.Savings, entry.Role, string(entry.Shift), entry.SubmissionID, entry.CreatedAt)
	return err
}

func (s *Store) GetEntriesBySubmission(ctx context.Context, submissionID int64) ([]models.LedgerEntry, error) {
	const query = `SELECT id, name, date, site, status, justification, cost, savings, role, shift, submission_id, created_at
	FROM attendance_entries WHERE submission_id = $1 ORDER BY pos`

	return s.queryEntries(ctx, query, submissionID)
}

func (s *Store) DeleteBySubmission(ctx context.Context, submissionID int64) (int, error) {
	const query = `DELETE FROM attendance_entries WHERE submission_id = $1`

	res, err := s.db.ExecContext(ctx, query, submissionID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *Store) GetLedgerEntries(ctx context.Context) ([]models.LedgerEntry, error) {
	const query = `SELECT id, name, date, site, status, justification, cost, savings, role, shift, submission_id, created_at
	FROM attendance_entries ORDER BY pos`

	return s.queryEntries(ctx, query)
}

func (s *Store) LinkEntry(ctx context.Context, entryID string, cost, savings decimal.Decimal, role string) error {
	const query = `UPDATE attendance_entries SET cost = $2, savings = $3, role = $4 WHERE id = $1`

	_, err := s.db.ExecContext(ctx, query, entryID, cost, savings, role)
	return err
}

func (s *Store) Reset(ctx context.Context) error {
	const query = `DELETE FROM attendance_entries`

	_, err := s.db.ExecContext(ctx, query)
	return err
}

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]models.LedgerEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		var status, shift string
		err := rows.Scan(
			&e.ID,
			&e.Name,
			&e.Date,
			&e.Site,
			&status,
			&e.Justification,
			&e.Cost,
			&e.Savings,
			&e.Role,
			&shift,
			&e.SubmissionID,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		e.Status = models.Status(status)
		e.Shift = models.Shift(shift)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

var (
	_ interfaces.RosterStore = (*Store)(nil)
	_ interfaces.LedgerStore = (*Store)(nil)
)
