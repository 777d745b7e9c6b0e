package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/worktally/internal/db"
	"github.com/alexanderramin/worktally/internal/domain"
)

// SQLiteTimeEntryRepo implements TimeEntryRepo using a SQLite database.
type SQLiteTimeEntryRepo struct {
	db db.DBTX
}

// NewSQLiteTimeEntryRepo creates a new SQLiteTimeEntryRepo.
func NewSQLiteTimeEntryRepo(conn db.DBTX) *SQLiteTimeEntryRepo {
	return &SQLiteTimeEntryRepo{db: conn}
}

const timeEntryColumns = `id, project_id, start_time, end_time, real_start_time, true_end_time,
	active_seconds, paused_seconds, currency, salary, hourly_payment, paid,
	payout_id, single_cash_flow_id, memo, time_fragments_interval, created_at`

func (r *SQLiteTimeEntryRepo) Create(ctx context.Context, e *domain.TimeEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	realStart := e.RealStartTime
	if realStart.IsZero() {
		realStart = e.StartTime
	}
	trueEnd := e.TrueEndTime
	if trueEnd.IsZero() {
		trueEnd = e.EndTime
	}

	query := `INSERT INTO time_entries (` + timeEntryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.ProjectID,
		formatTimestamp(e.StartTime),
		formatTimestamp(e.EndTime),
		formatTimestamp(realStart),
		formatTimestamp(trueEnd),
		e.ActiveSeconds,
		e.PausedSeconds,
		string(e.Currency),
		e.Salary.String(),
		boolToInt(e.HourlyPayment),
		boolToInt(e.Paid),
		nullableStringToValue(e.PayoutID),
		nullableStringToValue(e.SingleCashFlowID),
		nullableStringToValue(e.Memo),
		nullableIntToValue(e.TimeFragmentsInterval),
		formatTimestamp(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting time entry: %w", err)
	}
	return nil
}

func (r *SQLiteTimeEntryRepo) CreateBatch(ctx context.Context, entries []domain.TimeEntry) error {
	for i := range entries {
		if err := r.Create(ctx, &entries[i]); err != nil {
			return fmt.Errorf("entry %d of %d: %w", i+1, len(entries), err)
		}
	}
	return nil
}

func (r *SQLiteTimeEntryRepo) GetByID(ctx context.Context, id string) (*domain.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE id = ?`
	return r.scanEntry(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteTimeEntryRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries
		WHERE project_id = ? ORDER BY start_time`
	return r.queryEntries(ctx, query, projectID)
}

func (r *SQLiteTimeEntryRepo) ListOverlapping(ctx context.Context, projectID string, from, to time.Time) ([]domain.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries
		WHERE project_id = ? AND start_time < ? AND end_time > ?
		ORDER BY start_time`
	entries, err := r.queryEntries(ctx, query, projectID, formatTimestamp(to), formatTimestamp(from))
	if err != nil {
		return nil, err
	}
	out := make([]domain.TimeEntry, len(entries))
	for i, e := range entries {
		out[i] = *e
	}
	return out, nil
}

func (r *SQLiteTimeEntryRepo) ListByPayout(ctx context.Context, payoutID string) ([]*domain.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries
		WHERE payout_id = ? ORDER BY start_time`
	return r.queryEntries(ctx, query, payoutID)
}

func (r *SQLiteTimeEntryRepo) LinkPayout(ctx context.Context, payoutID string, entryIDs []string) (int64, error) {
	if len(entryIDs) == 0 {
		return 0, nil
	}
	args := make([]any, 0, len(entryIDs)+1)
	args = append(args, payoutID)
	for _, id := range entryIDs {
		args = append(args, id)
	}
	query := `UPDATE time_entries SET payout_id = ?, paid = 1 WHERE id IN (` + placeholders(len(entryIDs)) + `)`
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("linking time entries to payout: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteTimeEntryRepo) SetPaid(ctx context.Context, entryIDs []string, paid bool) (int64, error) {
	if len(entryIDs) == 0 {
		return 0, nil
	}
	args := make([]any, 0, len(entryIDs)+1)
	args = append(args, boolToInt(paid))
	for _, id := range entryIDs {
		args = append(args, id)
	}
	query := `UPDATE time_entries SET paid = ? WHERE id IN (` + placeholders(len(entryIDs)) + `)`
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("updating paid flag: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteTimeEntryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM time_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting time entry: %w", err)
	}
	return requireAffected(res, "time entry")
}

func (r *SQLiteTimeEntryRepo) queryEntries(ctx context.Context, query string, args ...any) ([]*domain.TimeEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying time entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.TimeEntry
	for rows.Next() {
		e, err := r.scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating time entries: %w", err)
	}
	return entries, nil
}

func (r *SQLiteTimeEntryRepo) scanEntry(row rowScanner) (*domain.TimeEntry, error) {
	var e domain.TimeEntry
	var start, end, realStart, trueEnd, currency, salary, createdAt string
	var hourly, paid int
	var payoutID, cashFlowID, memo sql.NullString
	var fragments sql.NullInt64

	err := row.Scan(
		&e.ID, &e.ProjectID, &start, &end, &realStart, &trueEnd,
		&e.ActiveSeconds, &e.PausedSeconds, &currency, &salary, &hourly, &paid,
		&payoutID, &cashFlowID, &memo, &fragments, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("time entry: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning time entry: %w", err)
	}

	if e.StartTime, err = parseTimestamp(start, "start_time"); err != nil {
		return nil, err
	}
	if e.EndTime, err = parseTimestamp(end, "end_time"); err != nil {
		return nil, err
	}
	e.RealStartTime = e.StartTime
	if realStart != "" {
		if e.RealStartTime, err = parseTimestamp(realStart, "real_start_time"); err != nil {
			return nil, err
		}
	}
	e.TrueEndTime = e.EndTime
	if trueEnd != "" {
		if e.TrueEndTime, err = parseTimestamp(trueEnd, "true_end_time"); err != nil {
			return nil, err
		}
	}
	if e.Salary, err = parseDecimal(salary, "salary"); err != nil {
		return nil, err
	}
	if e.CreatedAt, err = parseTimestamp(createdAt, "created_at"); err != nil {
		return nil, err
	}

	e.Currency = domain.Currency(currency)
	e.HourlyPayment = intToBool(hourly)
	e.Paid = intToBool(paid)
	e.PayoutID = stringPtr(payoutID)
	e.SingleCashFlowID = stringPtr(cashFlowID)
	e.Memo = stringPtr(memo)
	e.TimeFragmentsInterval = intPtr(fragments)
	return &e, nil
}
