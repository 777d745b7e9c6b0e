package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate brings the schema up to date. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Columns added by later ALTERs already exist on fresh databases.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillRecordedBounds(db); err != nil {
		return fmt.Errorf("backfilling recorded entry bounds: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS work_projects (
		id                      TEXT PRIMARY KEY,
		short_id                TEXT NOT NULL DEFAULT '',
		title                   TEXT NOT NULL,
		description             TEXT NOT NULL DEFAULT '',
		currency                TEXT NOT NULL DEFAULT 'USD',
		salary                  TEXT NOT NULL DEFAULT '0',
		hourly_payment          INTEGER NOT NULL DEFAULT 1,
		rounding_interval       INTEGER NOT NULL DEFAULT 0,
		rounding_direction      TEXT NOT NULL DEFAULT 'up'
		                        CHECK(rounding_direction IN ('up','down','nearest')),
		round_in_time_fragments INTEGER NOT NULL DEFAULT 0,
		time_fragment_interval  INTEGER NOT NULL DEFAULT 0,
		total_payout            TEXT NOT NULL DEFAULT '0',
		created_at              TEXT NOT NULL,
		updated_at              TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_work_projects_short_id ON work_projects(short_id) WHERE short_id != ''`,

	`CREATE TABLE IF NOT EXISTS payouts (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		value      TEXT NOT NULL,
		currency   TEXT NOT NULL,
		project_id TEXT REFERENCES work_projects(id) ON DELETE SET NULL,
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_payouts_project ON payouts(project_id)`,

	`CREATE TABLE IF NOT EXISTS recurring_cash_flows (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		amount      TEXT NOT NULL,
		currency    TEXT NOT NULL,
		interval    TEXT NOT NULL
		            CHECK(interval IN ('day','week','month','quarter','half_year','year')),
		start_date  TEXT NOT NULL,
		end_date    TEXT,
		created_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS single_cash_flows (
		id                     TEXT PRIMARY KEY,
		title                  TEXT NOT NULL,
		amount                 TEXT NOT NULL,
		currency               TEXT NOT NULL,
		date                   TEXT NOT NULL,
		recurring_cash_flow_id TEXT REFERENCES recurring_cash_flows(id) ON DELETE SET NULL,
		payout_id              TEXT REFERENCES payouts(id) ON DELETE SET NULL,
		is_active              INTEGER NOT NULL DEFAULT 1,
		created_at             TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_single_cash_flows_recurring ON single_cash_flows(recurring_cash_flow_id)`,
	`CREATE INDEX IF NOT EXISTS idx_single_cash_flows_date ON single_cash_flows(date)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_single_cash_flows_occurrence
		ON single_cash_flows(recurring_cash_flow_id, date) WHERE recurring_cash_flow_id IS NOT NULL`,

	`CREATE TABLE IF NOT EXISTS time_entries (
		id                  TEXT PRIMARY KEY,
		project_id          TEXT NOT NULL REFERENCES work_projects(id) ON DELETE CASCADE,
		start_time          TEXT NOT NULL,
		end_time            TEXT NOT NULL,
		active_seconds      INTEGER NOT NULL DEFAULT 0,
		paused_seconds      INTEGER NOT NULL DEFAULT 0,
		currency            TEXT NOT NULL,
		salary              TEXT NOT NULL DEFAULT '0',
		hourly_payment      INTEGER NOT NULL DEFAULT 1,
		paid                INTEGER NOT NULL DEFAULT 0,
		payout_id           TEXT REFERENCES payouts(id) ON DELETE SET NULL,
		single_cash_flow_id TEXT REFERENCES single_cash_flows(id) ON DELETE SET NULL,
		memo                TEXT,
		created_at          TEXT NOT NULL,
		CHECK(start_time < end_time)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_time_entries_project ON time_entries(project_id, start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_time_entries_payout ON time_entries(payout_id)`,

	`CREATE TABLE IF NOT EXISTS settings (
		id                       TEXT PRIMARY KEY DEFAULT 'default',
		default_currency         TEXT NOT NULL DEFAULT 'USD',
		rounding_interval        INTEGER NOT NULL DEFAULT 0,
		rounding_direction       TEXT NOT NULL DEFAULT 'up',
		round_in_time_fragments  INTEGER NOT NULL DEFAULT 0,
		time_fragment_interval   INTEGER NOT NULL DEFAULT 15,
		last_recurring_processed TEXT
	)`,

	`INSERT OR IGNORE INTO settings (id) VALUES ('default')`,

	// Fragment rounding: recorded bounds and the fragment size used.
	`ALTER TABLE time_entries ADD COLUMN real_start_time TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE time_entries ADD COLUMN true_end_time TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE time_entries ADD COLUMN time_fragments_interval INTEGER`,
}

// migrateBackfillRecordedBounds fills real_start_time/true_end_time for rows
// written before those columns existed. Rows that already have them are left
// alone, so re-running is a no-op.
func migrateBackfillRecordedBounds(db *sql.DB) error {
	ctx := context.Background()

	var pending int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM time_entries WHERE real_start_time = '' OR true_end_time = ''`).Scan(&pending); err != nil {
		return fmt.Errorf("counting entries without recorded bounds: %w", err)
	}
	if pending == 0 {
		return nil
	}

	if _, err := db.ExecContext(ctx, `UPDATE time_entries
		SET real_start_time = CASE WHEN real_start_time = '' THEN start_time ELSE real_start_time END,
		    true_end_time   = CASE WHEN true_end_time = '' THEN end_time ELSE true_end_time END
		WHERE real_start_time = '' OR true_end_time = ''`); err != nil {
		return fmt.Errorf("updating recorded bounds: %w", err)
	}
	return nil
}
