package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"work_projects", "time_entries", "payouts", "recurring_cash_flows", "single_cash_flows", "settings"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_work_projects_short_id",
		"idx_payouts_project",
		"idx_single_cash_flows_recurring",
		"idx_single_cash_flows_date",
		"idx_single_cash_flows_occurrence",
		"idx_time_entries_project",
		"idx_time_entries_payout",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_SeedsDefaultSettings(t *testing.T) {
	db := openTestDB(t)

	var currency string
	var fragment int
	err := db.QueryRow(`SELECT default_currency, time_fragment_interval FROM settings WHERE id = 'default'`).
		Scan(&currency, &fragment)
	require.NoError(t, err)
	assert.Equal(t, "USD", currency)
	assert.Equal(t, 15, fragment)
}

func TestMigrate_RejectsDegenerateTimeEntry(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO work_projects (id, title, created_at, updated_at) VALUES ('p1', 'P', 'x', 'x')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO time_entries (id, project_id, start_time, end_time, currency, created_at)
		VALUES ('e1', 'p1', '2025-01-01T10:00:00.000Z', '2025-01-01T10:00:00.000Z', 'USD', 'x')`)
	assert.Error(t, err, "CHECK(start_time < end_time) should reject empty entries")
}

func TestMigrate_OneOccurrencePerRuleAndDate(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO recurring_cash_flows (id, title, amount, currency, interval, start_date, created_at)
		VALUES ('r1', 'Rent', '-900', 'EUR', 'month', '2025-01-01', 'x')`)
	require.NoError(t, err)

	insert := `INSERT INTO single_cash_flows (id, title, amount, currency, date, recurring_cash_flow_id, created_at)
		VALUES (?, 'Rent', '-900', 'EUR', '2025-01-01', 'r1', 'x')`
	_, err = db.Exec(insert, "s1")
	require.NoError(t, err)
	_, err = db.Exec(insert, "s2")
	assert.Error(t, err, "duplicate occurrence should violate the unique index")
}
