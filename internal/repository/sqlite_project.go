package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/worktally/internal/db"
	"github.com/alexanderramin/worktally/internal/domain"
	"github.com/shopspring/decimal"
)

// SQLiteWorkProjectRepo implements WorkProjectRepo using a SQLite database.
type SQLiteWorkProjectRepo struct {
	db db.DBTX
}

// NewSQLiteWorkProjectRepo creates a new SQLiteWorkProjectRepo.
func NewSQLiteWorkProjectRepo(conn db.DBTX) *SQLiteWorkProjectRepo {
	return &SQLiteWorkProjectRepo{db: conn}
}

const projectColumns = `id, short_id, title, description, currency, salary, hourly_payment,
	rounding_interval, rounding_direction, round_in_time_fragments, time_fragment_interval,
	total_payout, created_at, updated_at`

func (r *SQLiteWorkProjectRepo) Create(ctx context.Context, p *domain.WorkProject) error {
	query := `INSERT INTO work_projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.ShortID,
		p.Title,
		p.Description,
		string(p.Currency),
		p.Salary.String(),
		boolToInt(p.HourlyPayment),
		p.RoundingInterval,
		string(domain.RoundingDirection(domain.CoalesceStr(string(p.RoundingDirection), string(domain.RoundUp)))),
		boolToInt(p.RoundInTimeFragments),
		p.TimeFragmentInterval,
		p.TotalPayout.String(),
		formatTimestamp(p.CreatedAt),
		formatTimestamp(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting work project: %w", err)
	}
	return nil
}

func (r *SQLiteWorkProjectRepo) GetByID(ctx context.Context, id string) (*domain.WorkProject, error) {
	query := `SELECT ` + projectColumns + ` FROM work_projects WHERE id = ?`
	return r.scanProject(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteWorkProjectRepo) GetByShortID(ctx context.Context, shortID string) (*domain.WorkProject, error) {
	query := `SELECT ` + projectColumns + ` FROM work_projects WHERE UPPER(short_id) = UPPER(?)`
	return r.scanProject(r.db.QueryRowContext(ctx, query, shortID))
}

func (r *SQLiteWorkProjectRepo) List(ctx context.Context) ([]*domain.WorkProject, error) {
	query := `SELECT ` + projectColumns + ` FROM work_projects ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing work projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.WorkProject
	for rows.Next() {
		p, err := r.scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work projects: %w", err)
	}
	return projects, nil
}

func (r *SQLiteWorkProjectRepo) Update(ctx context.Context, p *domain.WorkProject) error {
	query := `UPDATE work_projects SET short_id = ?, title = ?, description = ?, currency = ?, salary = ?,
		hourly_payment = ?, rounding_interval = ?, rounding_direction = ?, round_in_time_fragments = ?,
		time_fragment_interval = ?, total_payout = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.ShortID,
		p.Title,
		p.Description,
		string(p.Currency),
		p.Salary.String(),
		boolToInt(p.HourlyPayment),
		p.RoundingInterval,
		string(p.RoundingDirection),
		boolToInt(p.RoundInTimeFragments),
		p.TimeFragmentInterval,
		p.TotalPayout.String(),
		formatTimestamp(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating work project: %w", err)
	}
	return requireAffected(res, "work project")
}

func (r *SQLiteWorkProjectRepo) AdjustTotalPayout(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	var currentStr string
	err := r.db.QueryRowContext(ctx, `SELECT total_payout FROM work_projects WHERE id = ?`, id).Scan(&currentStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("work project %s: %w", id, ErrNotFound)
		}
		return decimal.Zero, fmt.Errorf("reading total payout: %w", err)
	}
	current, err := parseDecimal(currentStr, "total_payout")
	if err != nil {
		return decimal.Zero, err
	}

	total := current.Add(delta)
	if total.IsNegative() {
		total = decimal.Zero
	}
	if _, err := r.db.ExecContext(ctx, `UPDATE work_projects SET total_payout = ? WHERE id = ?`, total.String(), id); err != nil {
		return decimal.Zero, fmt.Errorf("updating total payout: %w", err)
	}
	return total, nil
}

func (r *SQLiteWorkProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM work_projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting work project: %w", err)
	}
	return requireAffected(res, "work project")
}

func (r *SQLiteWorkProjectRepo) scanProject(row rowScanner) (*domain.WorkProject, error) {
	var p domain.WorkProject
	var currency, salary, direction, totalPayout, createdAt, updatedAt string
	var hourly, fragments int

	err := row.Scan(
		&p.ID, &p.ShortID, &p.Title, &p.Description, &currency, &salary, &hourly,
		&p.RoundingInterval, &direction, &fragments, &p.TimeFragmentInterval,
		&totalPayout, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("work project: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning work project: %w", err)
	}

	p.Currency = domain.Currency(currency)
	p.HourlyPayment = intToBool(hourly)
	p.RoundingDirection = domain.RoundingDirection(direction)
	p.RoundInTimeFragments = intToBool(fragments)

	if p.Salary, err = parseDecimal(salary, "salary"); err != nil {
		return nil, err
	}
	if p.TotalPayout, err = parseDecimal(totalPayout, "total_payout"); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTimestamp(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTimestamp(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &p, nil
}

// requireAffected turns an UPDATE/DELETE that matched no row into ErrNotFound.
func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected %s rows: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
