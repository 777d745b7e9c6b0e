package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/worktally/internal/domain"
	"github.com/alexanderramin/worktally/internal/testutil"
	"github.com/alexanderramin/worktally/internal/workflow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPayoutService(t *testing.T) (*testRepos, PayoutService, *domain.WorkProject, []string) {
	t.Helper()
	r := setupRepos(t)
	ctx := context.Background()

	proj := testutil.NewTestWorkProject("Acme")
	require.NoError(t, r.projects.Create(ctx, proj))
	e1 := testutil.NewTestTimeEntry(proj.ID, at(9, 0), at(10, 0))
	e2 := testutil.NewTestTimeEntry(proj.ID, at(11, 0), at(12, 0))
	require.NoError(t, r.entries.CreateBatch(ctx, []domain.TimeEntry{*e1, *e2}))

	svc := NewPayoutService(r.payouts, r.entries, r.cashFlows, r.uow)
	return r, svc, proj, []string{e1.ID, e2.ID}
}

func TestPayoutService_Create_RunsAllSteps(t *testing.T) {
	r, svc, proj, entryIDs := setupPayoutService(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, PayoutInput{
		Title:     "April invoice",
		Value:     decimal.RequireFromString("120.50"),
		Currency:  domain.CurrencyUSD,
		ProjectID: &proj.ID,
		EntryIDs:  entryIDs,
		Date:      testutil.Date(2024, 4, 30),
	})
	require.NoError(t, err)
	require.Len(t, res.Report.Results, 3)
	assert.Equal(t, "book cash flow", res.Report.Results[0].Step)
	assert.Equal(t, "add to project total", res.Report.Results[1].Step)
	assert.Equal(t, "link time entries", res.Report.Results[2].Step)
	assert.Empty(t, res.Report.Failed())

	cf, err := r.cashFlows.GetSingleByPayout(ctx, res.Payout.ID)
	require.NoError(t, err)
	assert.Equal(t, "120.5", cf.Amount.String())
	assert.True(t, cf.Date.Equal(testutil.Date(2024, 4, 30)))

	fetched, err := r.projects.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, "120.5", fetched.TotalPayout.String())

	linked, err := r.entries.ListByPayout(ctx, res.Payout.ID)
	require.NoError(t, err)
	require.Len(t, linked, 2)
	for _, e := range linked {
		assert.True(t, e.Paid)
	}
}

func TestPayoutService_Create_SkipCashFlow(t *testing.T) {
	r, svc, _, _ := setupPayoutService(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, PayoutInput{
		Title: "Tip", Value: decimal.NewFromInt(5), Currency: domain.CurrencyUSD, SkipCashFlow: true,
	})
	require.NoError(t, err)
	assert.Empty(t, res.Report.Results)

	flows, err := r.cashFlows.ListSingle(ctx, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, flows)
}

func TestPayoutService_Create_ReportsFailedStepAndContinues(t *testing.T) {
	r, svc, proj, entryIDs := setupPayoutService(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, PayoutInput{
		Title:     "Partial",
		Value:     decimal.NewFromInt(40),
		Currency:  domain.CurrencyUSD,
		ProjectID: &proj.ID,
		EntryIDs:  append(entryIDs, uuid.NewString()),
	})
	require.Error(t, err)
	require.NotNil(t, res, "payout is kept even when a step fails")

	var stepErr *workflow.StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, "link time entries", stepErr.Step)
	assert.Contains(t, err.Error(), "linked 2 of 3")

	failed := res.Report.Failed()
	require.Len(t, failed, 1)

	_, err = r.payouts.GetByID(ctx, res.Payout.ID)
	require.NoError(t, err)
	fetched, err := r.projects.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, "40", fetched.TotalPayout.String())
}

func TestPayoutService_Create_InvalidInputWritesNothing(t *testing.T) {
	r, svc, _, _ := setupPayoutService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, PayoutInput{Title: "", Value: decimal.NewFromInt(1), Currency: domain.CurrencyUSD})
	require.Error(t, err)

	payouts, err := r.payouts.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, payouts)
}

func TestPayoutService_Update_SyncsCashFlowAndTotal(t *testing.T) {
	r, svc, proj, _ := setupPayoutService(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, PayoutInput{
		Title: "May", Value: decimal.NewFromInt(100), Currency: domain.CurrencyUSD, ProjectID: &proj.ID,
	})
	require.NoError(t, err)

	p := res.Payout
	p.Value = decimal.NewFromInt(80)
	p.Title = "May (corrected)"
	upd, err := svc.Update(ctx, p)
	require.NoError(t, err)
	assert.Len(t, upd.Report.Results, 2)

	cf, err := r.cashFlows.GetSingleByPayout(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "80", cf.Amount.String())
	assert.Equal(t, "May (corrected)", cf.Title)

	fetched, err := r.projects.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, "80", fetched.TotalPayout.String())
}

func TestPayoutService_Update_MovesBetweenProjects(t *testing.T) {
	r, svc, proj, _ := setupPayoutService(t)
	ctx := context.Background()

	other := testutil.NewTestWorkProject("Globex")
	require.NoError(t, r.projects.Create(ctx, other))

	res, err := svc.Create(ctx, PayoutInput{
		Title: "Retainer", Value: decimal.NewFromInt(300), Currency: domain.CurrencyUSD,
		ProjectID: &proj.ID, SkipCashFlow: true,
	})
	require.NoError(t, err)

	p := res.Payout
	p.ProjectID = &other.ID
	_, err = svc.Update(ctx, p)
	require.NoError(t, err)

	from, err := r.projects.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.True(t, from.TotalPayout.IsZero())
	to, err := r.projects.GetByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "300", to.TotalPayout.String())
}

func TestPayoutService_Delete_ReleasesEntriesAndClampsTotal(t *testing.T) {
	r, svc, proj, entryIDs := setupPayoutService(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, PayoutInput{
		Title: "June", Value: decimal.NewFromInt(200), Currency: domain.CurrencyUSD,
		ProjectID: &proj.ID, EntryIDs: entryIDs,
	})
	require.NoError(t, err)

	// Manually lowered total must not go negative when the payout is removed.
	_, err = r.projects.AdjustTotalPayout(ctx, proj.ID, decimal.NewFromInt(-150))
	require.NoError(t, err)

	del, err := svc.Delete(ctx, res.Payout.ID)
	require.NoError(t, err)
	require.Len(t, del.Report.Results, 2)

	fetched, err := r.projects.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.True(t, fetched.TotalPayout.IsZero())

	for _, id := range entryIDs {
		e, err := r.entries.GetByID(ctx, id)
		require.NoError(t, err)
		assert.False(t, e.Paid)
		assert.Nil(t, e.PayoutID)
	}

	flows, err := r.cashFlows.ListSingle(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, flows, 1, "booked cash flow stays")
	assert.Nil(t, flows[0].PayoutID)
}

func TestPayoutService_ObservesFailedSteps(t *testing.T) {
	r, _, proj, _ := setupPayoutService(t)
	obs := &recordingObserver{}
	svc := NewPayoutService(r.payouts, r.entries, r.cashFlows, r.uow, obs)

	_, err := svc.Create(context.Background(), PayoutInput{
		Title: "Ghost entries", Value: decimal.NewFromInt(1), Currency: domain.CurrencyUSD,
		ProjectID: &proj.ID, EntryIDs: []string{"missing"},
	})
	require.Error(t, err)

	ev := obs.last()
	assert.Equal(t, "create-payout", ev.Name)
	assert.False(t, ev.Success)
	assert.Equal(t, 1, ev.Fields["failed_steps"])
}
