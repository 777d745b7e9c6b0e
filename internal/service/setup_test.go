package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/alexanderramin/worktally/internal/db"
	"github.com/alexanderramin/worktally/internal/repository"
	"github.com/alexanderramin/worktally/internal/testutil"
)

type testRepos struct {
	db        *sql.DB
	projects  repository.WorkProjectRepo
	entries   repository.TimeEntryRepo
	payouts   repository.PayoutRepo
	cashFlows repository.CashFlowRepo
	settings  repository.SettingsRepo
	uow       db.UnitOfWork
}

func setupRepos(t *testing.T) *testRepos {
	t.Helper()
	database := testutil.NewTestDB(t)
	repos := repository.NewSQLiteRepos(database)
	return &testRepos{
		db:        database,
		projects:  repos.Projects,
		entries:   repos.Entries,
		payouts:   repos.Payouts,
		cashFlows: repos.CashFlows,
		settings:  repos.Settings,
		uow:       testutil.NewTestUoW(database),
	}
}

// recordingObserver keeps every use-case event for assertions.
type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}
