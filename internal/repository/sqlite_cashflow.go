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

// SQLiteCashFlowRepo implements CashFlowRepo for both recurring rules and
// the single cash flows they materialize into.
type SQLiteCashFlowRepo struct {
	db db.DBTX
}

// NewSQLiteCashFlowRepo creates a new SQLiteCashFlowRepo.
func NewSQLiteCashFlowRepo(conn db.DBTX) *SQLiteCashFlowRepo {
	return &SQLiteCashFlowRepo{db: conn}
}

const recurringColumns = `id, title, description, amount, currency, interval, start_date, end_date, created_at`

const singleColumns = `id, title, amount, currency, date, recurring_cash_flow_id, payout_id, is_active, created_at`

func (r *SQLiteCashFlowRepo) CreateRecurring(ctx context.Context, rc *domain.RecurringCashFlow) error {
	query := `INSERT INTO recurring_cash_flows (` + recurringColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rc.ID,
		rc.Title,
		rc.Description,
		rc.Amount.String(),
		string(rc.Currency),
		string(rc.Interval),
		formatDate(rc.StartDate),
		nullableTimeToString(rc.EndDate, domain.DateLayout),
		formatTimestamp(rc.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting recurring cash flow: %w", err)
	}
	return nil
}

func (r *SQLiteCashFlowRepo) GetRecurring(ctx context.Context, id string) (*domain.RecurringCashFlow, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_cash_flows WHERE id = ?`
	return r.scanRecurring(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteCashFlowRepo) ListRecurring(ctx context.Context) ([]*domain.RecurringCashFlow, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_cash_flows ORDER BY start_date, created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing recurring cash flows: %w", err)
	}
	defer rows.Close()

	var rules []*domain.RecurringCashFlow
	for rows.Next() {
		rc, err := r.scanRecurring(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recurring cash flows: %w", err)
	}
	return rules, nil
}

// DeleteRecurring removes the rule. Already materialized single cash flows
// stay and lose their link.
func (r *SQLiteCashFlowRepo) DeleteRecurring(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recurring_cash_flows WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting recurring cash flow: %w", err)
	}
	return requireAffected(res, "recurring cash flow")
}

func (r *SQLiteCashFlowRepo) CreateSingle(ctx context.Context, s *domain.SingleCashFlow) error {
	query := `INSERT INTO single_cash_flows (` + singleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.Title,
		s.Amount.String(),
		string(s.Currency),
		formatDate(s.Date),
		nullableStringToValue(s.RecurringCashFlowID),
		nullableStringToValue(s.PayoutID),
		boolToInt(s.IsActive),
		formatTimestamp(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting single cash flow: %w", err)
	}
	return nil
}

func (r *SQLiteCashFlowRepo) CreateSingleBatch(ctx context.Context, flows []domain.SingleCashFlow) error {
	for i := range flows {
		if err := r.CreateSingle(ctx, &flows[i]); err != nil {
			return fmt.Errorf("cash flow %d of %d: %w", i+1, len(flows), err)
		}
	}
	return nil
}

func (r *SQLiteCashFlowRepo) GetSingleByPayout(ctx context.Context, payoutID string) (*domain.SingleCashFlow, error) {
	query := `SELECT ` + singleColumns + ` FROM single_cash_flows WHERE payout_id = ? LIMIT 1`
	return r.scanSingle(r.db.QueryRowContext(ctx, query, payoutID))
}

func (r *SQLiteCashFlowRepo) UpdateSingle(ctx context.Context, s *domain.SingleCashFlow) error {
	query := `UPDATE single_cash_flows SET title = ?, amount = ?, currency = ?, date = ?,
		payout_id = ?, is_active = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		s.Title,
		s.Amount.String(),
		string(s.Currency),
		formatDate(s.Date),
		nullableStringToValue(s.PayoutID),
		boolToInt(s.IsActive),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating single cash flow: %w", err)
	}
	return requireAffected(res, "single cash flow")
}

// ListSingle returns cash flows dated within [from, to]. Nil bounds are open.
func (r *SQLiteCashFlowRepo) ListSingle(ctx context.Context, from, to *time.Time) ([]*domain.SingleCashFlow, error) {
	query := `SELECT ` + singleColumns + ` FROM single_cash_flows WHERE 1 = 1`
	var args []any
	if from != nil {
		query += ` AND date >= ?`
		args = append(args, formatDate(*from))
	}
	if to != nil {
		query += ` AND date <= ?`
		args = append(args, formatDate(*to))
	}
	query += ` ORDER BY date, created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing single cash flows: %w", err)
	}
	defer rows.Close()

	var flows []*domain.SingleCashFlow
	for rows.Next() {
		s, err := r.scanSingle(rows)
		if err != nil {
			return nil, err
		}
		flows = append(flows, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating single cash flows: %w", err)
	}
	return flows, nil
}

func (r *SQLiteCashFlowRepo) ListOccurrenceDates(ctx context.Context, recurringID string) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date FROM single_cash_flows WHERE recurring_cash_flow_id = ? ORDER BY date`, recurringID)
	if err != nil {
		return nil, fmt.Errorf("listing occurrence dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scanning occurrence date: %w", err)
		}
		d, err := parseDate(s, "date")
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating occurrence dates: %w", err)
	}
	return dates, nil
}

func (r *SQLiteCashFlowRepo) scanRecurring(row rowScanner) (*domain.RecurringCashFlow, error) {
	var rc domain.RecurringCashFlow
	var amount, currency, interval, startDate, createdAt string
	var endDate sql.NullString

	err := row.Scan(&rc.ID, &rc.Title, &rc.Description, &amount, &currency, &interval,
		&startDate, &endDate, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("recurring cash flow: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning recurring cash flow: %w", err)
	}

	if rc.Amount, err = parseDecimal(amount, "amount"); err != nil {
		return nil, err
	}
	if rc.StartDate, err = parseDate(startDate, "start_date"); err != nil {
		return nil, err
	}
	if rc.CreatedAt, err = parseTimestamp(createdAt, "created_at"); err != nil {
		return nil, err
	}
	rc.Currency = domain.Currency(currency)
	rc.Interval = domain.FinanceInterval(interval)
	rc.EndDate = parseNullableTime(endDate, domain.DateLayout)
	return &rc, nil
}

func (r *SQLiteCashFlowRepo) scanSingle(row rowScanner) (*domain.SingleCashFlow, error) {
	var s domain.SingleCashFlow
	var amount, currency, date, createdAt string
	var recurringID, payoutID sql.NullString
	var active int

	err := row.Scan(&s.ID, &s.Title, &amount, &currency, &date, &recurringID, &payoutID, &active, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("single cash flow: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning single cash flow: %w", err)
	}

	if s.Amount, err = parseDecimal(amount, "amount"); err != nil {
		return nil, err
	}
	if s.Date, err = parseDate(date, "date"); err != nil {
		return nil, err
	}
	if s.CreatedAt, err = parseTimestamp(createdAt, "created_at"); err != nil {
		return nil, err
	}
	s.Currency = domain.Currency(currency)
	s.RecurringCashFlowID = stringPtr(recurringID)
	s.PayoutID = stringPtr(payoutID)
	s.IsActive = intToBool(active)
	return &s, nil
}
