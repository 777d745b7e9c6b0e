package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/worktally/internal/domain"
	"github.com/shopspring/decimal"
)

type WorkProjectRepo interface {
	Create(ctx context.Context, p *domain.WorkProject) error
	GetByID(ctx context.Context, id string) (*domain.WorkProject, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.WorkProject, error)
	List(ctx context.Context) ([]*domain.WorkProject, error)
	Update(ctx context.Context, p *domain.WorkProject) error
	// AdjustTotalPayout adds delta to the project's total payout, never
	// letting it drop below zero, and returns the new total.
	AdjustTotalPayout(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error)
	Delete(ctx context.Context, id string) error
}

type TimeEntryRepo interface {
	Create(ctx context.Context, e *domain.TimeEntry) error
	// CreateBatch inserts all entries or none of them when run inside a
	// transaction.
	CreateBatch(ctx context.Context, entries []domain.TimeEntry) error
	GetByID(ctx context.Context, id string) (*domain.TimeEntry, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.TimeEntry, error)
	// ListOverlapping returns the project's entries whose span intersects [from, to).
	ListOverlapping(ctx context.Context, projectID string, from, to time.Time) ([]domain.TimeEntry, error)
	ListByPayout(ctx context.Context, payoutID string) ([]*domain.TimeEntry, error)
	// LinkPayout attaches the given entries to a payout and marks them paid.
	LinkPayout(ctx context.Context, payoutID string, entryIDs []string) (int64, error)
	SetPaid(ctx context.Context, entryIDs []string, paid bool) (int64, error)
	Delete(ctx context.Context, id string) error
}

type PayoutRepo interface {
	Create(ctx context.Context, p *domain.Payout) error
	GetByID(ctx context.Context, id string) (*domain.Payout, error)
	List(ctx context.Context) ([]*domain.Payout, error)
	Update(ctx context.Context, p *domain.Payout) error
	Delete(ctx context.Context, id string) error
}

type CashFlowRepo interface {
	CreateRecurring(ctx context.Context, r *domain.RecurringCashFlow) error
	GetRecurring(ctx context.Context, id string) (*domain.RecurringCashFlow, error)
	ListRecurring(ctx context.Context) ([]*domain.RecurringCashFlow, error)
	DeleteRecurring(ctx context.Context, id string) error

	CreateSingle(ctx context.Context, s *domain.SingleCashFlow) error
	CreateSingleBatch(ctx context.Context, flows []domain.SingleCashFlow) error
	GetSingleByPayout(ctx context.Context, payoutID string) (*domain.SingleCashFlow, error)
	UpdateSingle(ctx context.Context, s *domain.SingleCashFlow) error
	ListSingle(ctx context.Context, from, to *time.Time) ([]*domain.SingleCashFlow, error)
	// ListOccurrenceDates returns the dates already materialized for a rule.
	ListOccurrenceDates(ctx context.Context, recurringID string) ([]time.Time, error)
}

type SettingsRepo interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Upsert(ctx context.Context, s *domain.Settings) error
}
