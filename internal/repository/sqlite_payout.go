package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/worktally/internal/db"
	"github.com/alexanderramin/worktally/internal/domain"
)

// SQLitePayoutRepo implements PayoutRepo using a SQLite database.
type SQLitePayoutRepo struct {
	db db.DBTX
}

// NewSQLitePayoutRepo creates a new SQLitePayoutRepo.
func NewSQLitePayoutRepo(conn db.DBTX) *SQLitePayoutRepo {
	return &SQLitePayoutRepo{db: conn}
}

func (r *SQLitePayoutRepo) Create(ctx context.Context, p *domain.Payout) error {
	query := `INSERT INTO payouts (id, title, value, currency, project_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Title,
		p.Value.String(),
		string(p.Currency),
		nullableStringToValue(p.ProjectID),
		formatTimestamp(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting payout: %w", err)
	}
	return nil
}

func (r *SQLitePayoutRepo) GetByID(ctx context.Context, id string) (*domain.Payout, error) {
	query := `SELECT id, title, value, currency, project_id, created_at FROM payouts WHERE id = ?`
	return r.scanPayout(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLitePayoutRepo) List(ctx context.Context) ([]*domain.Payout, error) {
	query := `SELECT id, title, value, currency, project_id, created_at
		FROM payouts ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing payouts: %w", err)
	}
	defer rows.Close()

	var payouts []*domain.Payout
	for rows.Next() {
		p, err := r.scanPayout(rows)
		if err != nil {
			return nil, err
		}
		payouts = append(payouts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating payouts: %w", err)
	}
	return payouts, nil
}

func (r *SQLitePayoutRepo) Update(ctx context.Context, p *domain.Payout) error {
	query := `UPDATE payouts SET title = ?, value = ?, currency = ?, project_id = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Title,
		p.Value.String(),
		string(p.Currency),
		nullableStringToValue(p.ProjectID),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating payout: %w", err)
	}
	return requireAffected(res, "payout")
}

func (r *SQLitePayoutRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payouts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting payout: %w", err)
	}
	return requireAffected(res, "payout")
}

func (r *SQLitePayoutRepo) scanPayout(row rowScanner) (*domain.Payout, error) {
	var p domain.Payout
	var value, currency, createdAt string
	var projectID sql.NullString

	if err := row.Scan(&p.ID, &p.Title, &value, &currency, &projectID, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("payout: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning payout: %w", err)
	}

	var err error
	if p.Value, err = parseDecimal(value, "value"); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTimestamp(createdAt, "created_at"); err != nil {
		return nil, err
	}
	p.Currency = domain.Currency(currency)
	p.ProjectID = stringPtr(projectID)
	return &p, nil
}
