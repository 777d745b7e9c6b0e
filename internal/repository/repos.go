package repository

import (
	"context"

	"github.com/alexanderramin/worktally/internal/db"
)

// Repos bundles every worktally repository over one connection or
// transaction.
type Repos struct {
	Projects  WorkProjectRepo
	Entries   TimeEntryRepo
	Payouts   PayoutRepo
	CashFlows CashFlowRepo
	Settings  SettingsRepo
}

func NewSQLiteRepos(conn db.DBTX) Repos {
	return Repos{
		Projects:  NewSQLiteWorkProjectRepo(conn),
		Entries:   NewSQLiteTimeEntryRepo(conn),
		Payouts:   NewSQLitePayoutRepo(conn),
		CashFlows: NewSQLiteCashFlowRepo(conn),
		Settings:  NewSQLiteSettingsRepo(conn),
	}
}

// WithinTx runs fn with repositories bound to a single transaction of uow.
// Inside fn, use only the given repos: on an in-memory database the outer
// connection is held by the transaction.
func WithinTx(ctx context.Context, uow db.UnitOfWork, fn func(ctx context.Context, tx Repos) error) error {
	return uow.WithinTx(ctx, func(ctx context.Context, conn db.DBTX) error {
		return fn(ctx, NewSQLiteRepos(conn))
	})
}
