package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/worktally/internal/domain"
	"github.com/alexanderramin/worktally/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEntryRepo(t *testing.T) (*SQLiteTimeEntryRepo, *domain.WorkProject, time.Time) {
	t.Helper()
	db := testutil.NewTestDB(t)
	proj := testutil.NewTestWorkProject("Hooli")
	require.NoError(t, NewSQLiteWorkProjectRepo(db).Create(context.Background(), proj))
	return NewSQLiteTimeEntryRepo(db), proj, time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
}

func TestTimeEntryRepo_CreateAndGetByID(t *testing.T) {
	repo, proj, base := setupEntryRepo(t)
	ctx := context.Background()

	fragment := 15
	entry := testutil.NewTestTimeEntry(proj.ID, base, base.Add(90*time.Minute),
		testutil.WithMemo("standup"), testutil.WithEntrySalary("80", true))
	entry.RealStartTime = base.Add(4 * time.Minute)
	entry.TimeFragmentsInterval = &fragment
	require.NoError(t, repo.Create(ctx, entry))

	got, err := repo.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.True(t, got.StartTime.Equal(base))
	assert.True(t, got.EndTime.Equal(base.Add(90*time.Minute)))
	assert.True(t, got.RealStartTime.Equal(base.Add(4*time.Minute)))
	assert.True(t, got.TrueEndTime.Equal(got.EndTime))
	assert.Equal(t, 5400, got.ActiveSeconds)
	assert.Equal(t, "80", got.Salary.String())
	require.NotNil(t, got.Memo)
	assert.Equal(t, "standup", *got.Memo)
	require.NotNil(t, got.TimeFragmentsInterval)
	assert.Equal(t, 15, *got.TimeFragmentsInterval)
	assert.Nil(t, got.PayoutID)
}

func TestTimeEntryRepo_Create_RejectsDegenerate(t *testing.T) {
	repo, proj, base := setupEntryRepo(t)

	entry := testutil.NewTestTimeEntry(proj.ID, base, base)
	err := repo.Create(context.Background(), entry)
	assert.ErrorIs(t, err, domain.ErrDegenerateInterval)
}

func TestTimeEntryRepo_ListOverlapping_ExcludesTouching(t *testing.T) {
	repo, proj, base := setupEntryRepo(t)
	ctx := context.Background()

	before := testutil.NewTestTimeEntry(proj.ID, base, base.Add(time.Hour))
	inside := testutil.NewTestTimeEntry(proj.ID, base.Add(90*time.Minute), base.Add(2*time.Hour))
	after := testutil.NewTestTimeEntry(proj.ID, base.Add(3*time.Hour), base.Add(4*time.Hour))
	require.NoError(t, repo.CreateBatch(ctx, []domain.TimeEntry{*after, *before, *inside}))

	// [1h, 3h) touches both outer entries without overlapping them.
	got, err := repo.ListOverlapping(ctx, proj.ID, base.Add(time.Hour), base.Add(3*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, inside.ID, got[0].ID)

	got, err = repo.ListOverlapping(ctx, proj.ID, base.Add(30*time.Minute), base.Add(200*time.Minute))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{before.ID, inside.ID, after.ID}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestTimeEntryRepo_ListByProject_Ordered(t *testing.T) {
	repo, proj, base := setupEntryRepo(t)
	ctx := context.Background()

	late := testutil.NewTestTimeEntry(proj.ID, base.Add(5*time.Hour), base.Add(6*time.Hour))
	early := testutil.NewTestTimeEntry(proj.ID, base, base.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, late))
	require.NoError(t, repo.Create(ctx, early))

	list, err := repo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, early.ID, list[0].ID)
	assert.Equal(t, late.ID, list[1].ID)
}

func TestTimeEntryRepo_LinkPayoutAndSetPaid(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	proj := testutil.NewTestWorkProject("Pied Piper")
	require.NoError(t, NewSQLiteWorkProjectRepo(db).Create(ctx, proj))
	payout := testutil.NewTestPayout("March", "500", &proj.ID)
	require.NoError(t, NewSQLitePayoutRepo(db).Create(ctx, payout))

	repo := NewSQLiteTimeEntryRepo(db)
	base := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	e1 := testutil.NewTestTimeEntry(proj.ID, base, base.Add(time.Hour))
	e2 := testutil.NewTestTimeEntry(proj.ID, base.Add(2*time.Hour), base.Add(3*time.Hour))
	require.NoError(t, repo.CreateBatch(ctx, []domain.TimeEntry{*e1, *e2}))

	n, err := repo.LinkPayout(ctx, payout.ID, []string{e1.ID, e2.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	linked, err := repo.ListByPayout(ctx, payout.ID)
	require.NoError(t, err)
	require.Len(t, linked, 2)
	assert.True(t, linked[0].Paid)

	n, err = repo.SetPaid(ctx, []string{e1.ID}, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	got, err := repo.GetByID(ctx, e1.ID)
	require.NoError(t, err)
	assert.False(t, got.Paid)

	n, err = repo.LinkPayout(ctx, payout.ID, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTimeEntryRepo_Delete(t *testing.T) {
	repo, proj, base := setupEntryRepo(t)
	ctx := context.Background()

	entry := testutil.NewTestTimeEntry(proj.ID, base, base.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, entry))
	require.NoError(t, repo.Delete(ctx, entry.ID))
	assert.ErrorIs(t, repo.Delete(ctx, entry.ID), ErrNotFound)
}
