package service

import (
	"context"
	"time"

	"github.com/alexanderramin/worktally/internal/domain"
	"github.com/alexanderramin/worktally/internal/workflow"
	"github.com/shopspring/decimal"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.WorkProject) error
	GetByID(ctx context.Context, id string) (*domain.WorkProject, error)
	// Resolve accepts a short ID (case-insensitive) or a full UUID.
	Resolve(ctx context.Context, ref string) (*domain.WorkProject, error)
	List(ctx context.Context) ([]*domain.WorkProject, error)
	Update(ctx context.Context, p *domain.WorkProject) error
	Delete(ctx context.Context, id string) error
}

type TimeEntryService interface {
	// Plan builds the candidate entry for draft and reconciles it against
	// the project's existing entries. Nothing is written.
	Plan(ctx context.Context, draft EntryDraft) (*EntryPlan, error)
	// Commit persists the produced entries of plan atomically.
	Commit(ctx context.Context, plan *EntryPlan) (*AddResult, error)
	Add(ctx context.Context, draft EntryDraft) (*AddResult, error)
	GetByID(ctx context.Context, id string) (*domain.TimeEntry, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.TimeEntry, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context, projectID string) (*EntrySummary, error)
}

type PayoutService interface {
	Create(ctx context.Context, in PayoutInput) (*PayoutResult, error)
	GetByID(ctx context.Context, id string) (*domain.Payout, error)
	List(ctx context.Context) ([]*domain.Payout, error)
	Update(ctx context.Context, p *domain.Payout) (*PayoutResult, error)
	Delete(ctx context.Context, id string) (*PayoutResult, error)
}

type CashFlowService interface {
	CreateRecurring(ctx context.Context, r *domain.RecurringCashFlow) error
	ListRecurring(ctx context.Context) ([]*domain.RecurringCashFlow, error)
	DeleteRecurring(ctx context.Context, id string) error
	ListSingle(ctx context.Context, from, to *time.Time) ([]*domain.SingleCashFlow, error)
	// ProcessRecurring materializes every due occurrence up to asOf. It is a
	// no-op when already run on asOf's calendar day, unless force is set.
	ProcessRecurring(ctx context.Context, asOf time.Time, force bool) (*ProcessResult, error)
}

// EntryDraft is the user-supplied part of a new time entry. Billing fields
// come from the project.
type EntryDraft struct {
	ProjectID     string
	Start         time.Time
	End           time.Time
	PausedSeconds int
	Memo          *string
}

// EntrySummary aggregates a project's tracked time and money.
type EntrySummary struct {
	Entries        int
	TrackedSeconds int
	Earnings       decimal.Decimal
	Unpaid         decimal.Decimal
	Currency       domain.Currency
}

// PayoutInput describes a new payout and the side effects to apply with it.
type PayoutInput struct {
	Title     string
	Value     decimal.Decimal
	Currency  domain.Currency
	ProjectID *string
	// EntryIDs are linked to the payout and marked paid.
	EntryIDs []string
	// SkipCashFlow suppresses the single cash flow normally booked for a payout.
	SkipCashFlow bool
	// Date of the booked cash flow; zero means today.
	Date time.Time
}

// PayoutResult carries the payout and the report of its side-effect steps.
// The payout row itself is persisted whenever a result is returned, even if
// some steps failed.
type PayoutResult struct {
	Payout *domain.Payout
	Report workflow.Report
}

// ProcessResult summarizes one ProcessRecurring run.
type ProcessResult struct {
	Skipped bool
	Created []domain.SingleCashFlow
	Rules   int
}
