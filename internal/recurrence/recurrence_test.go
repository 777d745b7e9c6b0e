package recurrence

import (
	"testing"
	"time"

	"github.com/alexanderramin/worktally/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func rule(interval domain.FinanceInterval, start string) domain.RecurringCashFlow {
	return domain.RecurringCashFlow{
		ID:        "rule-1",
		Title:     "Rent",
		Amount:    decimal.NewFromInt(-900),
		Currency:  domain.CurrencyEUR,
		Interval:  interval,
		StartDate: date(start),
	}
}

func fmtDates(ts []time.Time) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Format(domain.DateLayout))
	}
	return out
}

func cashFlowDates(cfs []domain.SingleCashFlow) []time.Time {
	out := make([]time.Time, 0, len(cfs))
	for _, cf := range cfs {
		out = append(out, cf.Date)
	}
	return out
}

func TestOccurrenceAt_Cadences(t *testing.T) {
	cases := []struct {
		interval domain.FinanceInterval
		k        int
		want     string
	}{
		{domain.IntervalDay, 3, "2025-01-13"},
		{domain.IntervalWeek, 2, "2025-01-24"},
		{domain.IntervalMonth, 1, "2025-02-10"},
		{domain.IntervalQuarter, 1, "2025-04-10"},
		{domain.IntervalHalfYear, 1, "2025-07-10"},
		{domain.IntervalYear, 2, "2027-01-10"},
	}
	for _, tc := range cases {
		got := OccurrenceAt(rule(tc.interval, "2025-01-10"), tc.k)
		assert.Equal(t, tc.want, got.Format(domain.DateLayout), "%s k=%d", tc.interval, tc.k)
	}
}

func TestOccurrenceAt_MonthEndClampsWithoutDrift(t *testing.T) {
	r := rule(domain.IntervalMonth, "2024-01-31")
	var got []time.Time
	for k := 0; k < 4; k++ {
		got = append(got, OccurrenceAt(r, k))
	}
	assert.Equal(t, []string{"2024-01-31", "2024-02-29", "2024-03-31", "2024-04-30"}, fmtDates(got))

	leap := rule(domain.IntervalYear, "2024-02-29")
	assert.Equal(t, "2025-02-28", OccurrenceAt(leap, 1).Format(domain.DateLayout))
	assert.Equal(t, "2028-02-29", OccurrenceAt(leap, 4).Format(domain.DateLayout))
}

func TestNextOccurrence(t *testing.T) {
	r := rule(domain.IntervalMonth, "2025-01-15")

	next, ok := NextOccurrence(r, date("2025-01-15"))
	require.True(t, ok)
	assert.Equal(t, "2025-02-15", next.Format(domain.DateLayout))

	next, ok = NextOccurrence(r, date("2024-12-01"))
	require.True(t, ok)
	assert.Equal(t, "2025-01-15", next.Format(domain.DateLayout))

	end := date("2025-03-01")
	r.EndDate = &end
	_, ok = NextOccurrence(r, date("2025-02-20"))
	assert.False(t, ok)
}

func TestMaterialize_FromStartWhenNothingExists(t *testing.T) {
	r := rule(domain.IntervalMonth, "2025-01-05")

	got := Materialize(r, nil, date("2025-04-04"))
	assert.Equal(t, []string{"2025-01-05", "2025-02-05", "2025-03-05"}, fmtDates(cashFlowDates(got)))
	for _, cf := range got {
		assert.NotEmpty(t, cf.ID)
		require.NotNil(t, cf.RecurringCashFlowID)
		assert.Equal(t, r.ID, *cf.RecurringCashFlowID)
		assert.True(t, cf.IsActive)
		assert.True(t, r.Amount.Equal(cf.Amount))
		assert.Equal(t, r.Title, cf.Title)
	}
}

func TestMaterialize_AsOfDayIsInclusive(t *testing.T) {
	r := rule(domain.IntervalWeek, "2025-03-03")

	got := Materialize(r, nil, time.Date(2025, 3, 17, 8, 30, 0, 0, time.UTC))
	assert.Equal(t, []string{"2025-03-03", "2025-03-10", "2025-03-17"}, fmtDates(cashFlowDates(got)))
}

func TestMaterialize_ResumesAfterLatestExisting(t *testing.T) {
	r := rule(domain.IntervalMonth, "2025-01-05")
	existing := []time.Time{date("2025-01-05"), date("2025-02-05")}

	got := Materialize(r, existing, date("2025-05-10"))
	assert.Equal(t, []string{"2025-03-05", "2025-04-05", "2025-05-05"}, fmtDates(cashFlowDates(got)))
}

func TestMaterialize_Idempotent(t *testing.T) {
	for interval := range domain.ValidFinanceIntervals {
		r := rule(interval, "2023-01-31")
		asOf := date("2025-06-30")

		first := Materialize(r, nil, asOf)
		require.NotEmpty(t, first, "%s", interval)

		second := Materialize(r, cashFlowDates(first), asOf)
		assert.Empty(t, second, "%s: second run must produce nothing", interval)

		// Output is strictly ascending with no duplicates.
		for i := 1; i < len(first); i++ {
			assert.True(t, first[i].Date.After(first[i-1].Date), "%s: dates not ascending", interval)
		}
	}
}

func TestMaterialize_IncrementalRunsMatchSingleRun(t *testing.T) {
	r := rule(domain.IntervalWeek, "2025-01-01")
	final := date("2025-03-31")

	all := cashFlowDates(Materialize(r, nil, final))

	var existing []time.Time
	for asOf := date("2025-01-01"); !asOf.After(final); asOf = asOf.AddDate(0, 0, 5) {
		existing = append(existing, cashFlowDates(Materialize(r, existing, asOf))...)
	}
	existing = append(existing, cashFlowDates(Materialize(r, existing, final))...)

	assert.Equal(t, fmtDates(all), fmtDates(existing), "stepping day by day must neither skip nor duplicate")
}

func TestMaterialize_RespectsEndDate(t *testing.T) {
	r := rule(domain.IntervalMonth, "2025-01-20")
	end := date("2025-03-19")
	r.EndDate = &end

	got := Materialize(r, nil, date("2025-12-31"))
	assert.Equal(t, []string{"2025-01-20", "2025-02-20"}, fmtDates(cashFlowDates(got)))
}

func TestMaterialize_StartInFuture(t *testing.T) {
	r := rule(domain.IntervalDay, "2030-01-01")
	assert.Nil(t, Materialize(r, nil, date("2025-01-01")))
}
