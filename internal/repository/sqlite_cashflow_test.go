package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/worktally/internal/domain"
	"github.com/alexanderramin/worktally/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleFor(rule *domain.RecurringCashFlow, date string) domain.SingleCashFlow {
	d, _ := parseDate(date, "date")
	return domain.SingleCashFlow{
		ID:                  uuid.NewString(),
		Title:               rule.Title,
		Amount:              rule.Amount,
		Currency:            rule.Currency,
		Date:                d,
		RecurringCashFlowID: &rule.ID,
		IsActive:            true,
		CreatedAt:           rule.CreatedAt,
	}
}

func TestCashFlowRepo_RecurringRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteCashFlowRepo(db)
	ctx := context.Background()

	rule := testutil.NewTestRecurringCashFlow("Rent", domain.IntervalMonth, testutil.Date(2024, 1, 31),
		testutil.WithAmount("-950.00"), testutil.WithEndDate(testutil.Date(2024, 12, 31)))
	require.NoError(t, repo.CreateRecurring(ctx, rule))

	got, err := repo.GetRecurring(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IntervalMonth, got.Interval)
	assert.True(t, got.StartDate.Equal(testutil.Date(2024, 1, 31)))
	require.NotNil(t, got.EndDate)
	assert.True(t, got.EndDate.Equal(testutil.Date(2024, 12, 31)))
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(-950)))

	list, err := repo.ListRecurring(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCashFlowRepo_OccurrenceDatesAndUniqueness(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteCashFlowRepo(db)
	ctx := context.Background()

	rule := testutil.NewTestRecurringCashFlow("Gym", domain.IntervalWeek, testutil.Date(2024, 2, 5))
	require.NoError(t, repo.CreateRecurring(ctx, rule))

	require.NoError(t, repo.CreateSingleBatch(ctx, []domain.SingleCashFlow{
		singleFor(rule, "2024-02-12"),
		singleFor(rule, "2024-02-05"),
	}))

	dates, err := repo.ListOccurrenceDates(ctx, rule.ID)
	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.True(t, dates[0].Equal(testutil.Date(2024, 2, 5)))
	assert.True(t, dates[1].Equal(testutil.Date(2024, 2, 12)))

	dup := singleFor(rule, "2024-02-05")
	assert.Error(t, repo.CreateSingle(ctx, &dup))
}

func TestCashFlowRepo_ListSingle_DateBounds(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteCashFlowRepo(db)
	ctx := context.Background()

	rule := testutil.NewTestRecurringCashFlow("Salary", domain.IntervalMonth, testutil.Date(2024, 1, 1))
	require.NoError(t, repo.CreateRecurring(ctx, rule))
	require.NoError(t, repo.CreateSingleBatch(ctx, []domain.SingleCashFlow{
		singleFor(rule, "2024-01-01"),
		singleFor(rule, "2024-02-01"),
		singleFor(rule, "2024-03-01"),
	}))

	all, err := repo.ListSingle(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	from, to := testutil.Date(2024, 2, 1), testutil.Date(2024, 2, 29)
	feb, err := repo.ListSingle(ctx, &from, &to)
	require.NoError(t, err)
	require.Len(t, feb, 1)
	assert.True(t, feb[0].Date.Equal(from))
	require.NotNil(t, feb[0].RecurringCashFlowID)
	assert.Equal(t, rule.ID, *feb[0].RecurringCashFlowID)
}

func TestCashFlowRepo_DeleteRecurringKeepsSingles(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteCashFlowRepo(db)
	ctx := context.Background()

	rule := testutil.NewTestRecurringCashFlow("Netflix", domain.IntervalMonth, testutil.Date(2024, 1, 15))
	require.NoError(t, repo.CreateRecurring(ctx, rule))
	s := singleFor(rule, "2024-01-15")
	require.NoError(t, repo.CreateSingle(ctx, &s))

	require.NoError(t, repo.DeleteRecurring(ctx, rule.ID))

	flows, err := repo.ListSingle(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, flows, 1)
	assert.Nil(t, flows[0].RecurringCashFlowID)
	assert.ErrorIs(t, repo.DeleteRecurring(ctx, rule.ID), ErrNotFound)
}

func TestCashFlowRepo_PayoutLinkedSingle(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteCashFlowRepo(db)
	ctx := context.Background()

	payout := testutil.NewTestPayout("Bonus", "250", nil)
	require.NoError(t, NewSQLitePayoutRepo(db).Create(ctx, payout))

	s := domain.SingleCashFlow{
		ID:        uuid.NewString(),
		Title:     payout.Title,
		Amount:    payout.Value,
		Currency:  payout.Currency,
		Date:      testutil.Date(2024, 4, 1),
		PayoutID:  &payout.ID,
		IsActive:  true,
		CreatedAt: payout.CreatedAt,
	}
	require.NoError(t, repo.CreateSingle(ctx, &s))

	got, err := repo.GetSingleByPayout(ctx, payout.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)

	got.Amount = decimal.NewFromInt(300)
	require.NoError(t, repo.UpdateSingle(ctx, got))

	_, err = repo.GetSingleByPayout(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
