package service

import (
	"context"
	"time"

	"github.com/alexanderramin/worktally/internal/db"
	"github.com/alexanderramin/worktally/internal/domain"
	"github.com/alexanderramin/worktally/internal/recurrence"
	"github.com/alexanderramin/worktally/internal/repository"
	"github.com/google/uuid"
)

type cashFlowService struct {
	cashFlows repository.CashFlowRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
	now       func() time.Time
}

func NewCashFlowService(cashFlows repository.CashFlowRepo, uow db.UnitOfWork, observers ...UseCaseObserver) CashFlowService {
	return &cashFlowService{
		cashFlows: cashFlows,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *cashFlowService) CreateRecurring(ctx context.Context, r *domain.RecurringCashFlow) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	r.StartDate = domain.CalendarDate(r.StartDate)
	if r.EndDate != nil {
		end := domain.CalendarDate(*r.EndDate)
		r.EndDate = &end
	}
	if err := r.Validate(); err != nil {
		return err
	}
	r.CreatedAt = s.now()
	return s.cashFlows.CreateRecurring(ctx, r)
}

func (s *cashFlowService) ListRecurring(ctx context.Context) ([]*domain.RecurringCashFlow, error) {
	return s.cashFlows.ListRecurring(ctx)
}

func (s *cashFlowService) DeleteRecurring(ctx context.Context, id string) error {
	return s.cashFlows.DeleteRecurring(ctx, id)
}

func (s *cashFlowService) ListSingle(ctx context.Context, from, to *time.Time) ([]*domain.SingleCashFlow, error) {
	return s.cashFlows.ListSingle(ctx, from, to)
}

// ProcessRecurring reads every rule, materializes the occurrences that are
// due and records the processing date, all in one transaction. Either every
// new cash flow is written or none is.
func (s *cashFlowService) ProcessRecurring(ctx context.Context, asOf time.Time, force bool) (res *ProcessResult, err error) {
	startedAt := time.Now().UTC()
	day := domain.CalendarDate(asOf)
	fields := map[string]any{"as_of": day.Format(domain.DateLayout), "force": force}
	defer func() {
		if res != nil {
			fields["skipped"] = res.Skipped
			fields["rules"] = res.Rules
			fields["created"] = len(res.Created)
		}
		observe(ctx, s.observer, "process-recurring", startedAt, fields, &err)
	}()

	result := &ProcessResult{}
	err = repository.WithinTx(ctx, s.uow, func(ctx context.Context, tx repository.Repos) error {
		txSettings, txCashFlows := tx.Settings, tx.CashFlows

		prefs, err := txSettings.Get(ctx)
		if err != nil {
			return err
		}
		if !force && prefs.LastRecurringProcessed != nil &&
			domain.CalendarDate(*prefs.LastRecurringProcessed).Equal(day) {
			result.Skipped = true
			return nil
		}

		rules, err := txCashFlows.ListRecurring(ctx)
		if err != nil {
			return err
		}
		result.Rules = len(rules)

		createdAt := s.now()
		for _, rule := range rules {
			existing, err := txCashFlows.ListOccurrenceDates(ctx, rule.ID)
			if err != nil {
				return err
			}
			flows := recurrence.Materialize(*rule, existing, day)
			for i := range flows {
				flows[i].CreatedAt = createdAt
			}
			if err := txCashFlows.CreateSingleBatch(ctx, flows); err != nil {
				return err
			}
			result.Created = append(result.Created, flows...)
		}

		prefs.LastRecurringProcessed = &day
		return txSettings.Upsert(ctx, prefs)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
