package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/worktally/internal/db"
	"github.com/alexanderramin/worktally/internal/domain"
)

// SQLiteSettingsRepo implements SettingsRepo using a SQLite database.
type SQLiteSettingsRepo struct {
	db db.DBTX
}

// NewSQLiteSettingsRepo creates a new SQLiteSettingsRepo.
func NewSQLiteSettingsRepo(conn db.DBTX) *SQLiteSettingsRepo {
	return &SQLiteSettingsRepo{db: conn}
}

func (r *SQLiteSettingsRepo) Get(ctx context.Context) (*domain.Settings, error) {
	query := `SELECT id, default_currency, rounding_interval, rounding_direction,
		round_in_time_fragments, time_fragment_interval, last_recurring_processed
		FROM settings WHERE id = 'default'`
	row := r.db.QueryRowContext(ctx, query)

	var s domain.Settings
	var currency, direction string
	var fragments int
	var lastProcessed sql.NullString
	err := row.Scan(
		&s.ID,
		&currency,
		&s.RoundingInterval,
		&direction,
		&fragments,
		&s.TimeFragmentInterval,
		&lastProcessed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("settings: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning settings: %w", err)
	}
	s.DefaultCurrency = domain.Currency(currency)
	s.RoundingDirection = domain.RoundingDirection(direction)
	s.RoundInTimeFragments = intToBool(fragments)
	s.LastRecurringProcessed = parseNullableTime(lastProcessed, domain.DateLayout)
	return &s, nil
}

func (r *SQLiteSettingsRepo) Upsert(ctx context.Context, s *domain.Settings) error {
	query := `INSERT OR REPLACE INTO settings (id, default_currency, rounding_interval,
		rounding_direction, round_in_time_fragments, time_fragment_interval, last_recurring_processed)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		domain.CoalesceStr(s.ID, "default"),
		string(s.DefaultCurrency),
		s.RoundingInterval,
		string(s.RoundingDirection),
		boolToInt(s.RoundInTimeFragments),
		s.TimeFragmentInterval,
		nullableTimeToString(s.LastRecurringProcessed, domain.DateLayout),
	)
	if err != nil {
		return fmt.Errorf("upserting settings: %w", err)
	}
	return nil
}
