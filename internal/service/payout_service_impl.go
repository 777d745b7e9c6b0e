package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/worktally/internal/db"
	"github.com/alexanderramin/worktally/internal/domain"
	"github.com/alexanderramin/worktally/internal/repository"
	"github.com/alexanderramin/worktally/internal/workflow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// payoutService writes the payout row first and then runs the dependent
// bookkeeping as workflow steps. A failed step does not undo the payout or
// stop later steps; it is reported in PayoutResult.Report and in the
// returned error.
type payoutService struct {
	payouts   repository.PayoutRepo
	entries   repository.TimeEntryRepo
	cashFlows repository.CashFlowRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
	now       func() time.Time
}

func NewPayoutService(
	payouts repository.PayoutRepo,
	entries repository.TimeEntryRepo,
	cashFlows repository.CashFlowRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) PayoutService {
	return &payoutService{
		payouts:   payouts,
		entries:   entries,
		cashFlows: cashFlows,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *payoutService) Create(ctx context.Context, in PayoutInput) (res *PayoutResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"title": in.Title, "entries": len(in.EntryIDs)}
	defer func() {
		addReportFields(fields, res)
		observe(ctx, s.observer, "create-payout", startedAt, fields, &err)
	}()

	p := &domain.Payout{
		ID:        uuid.New().String(),
		Title:     in.Title,
		Value:     in.Value,
		Currency:  in.Currency,
		ProjectID: in.ProjectID,
		CreatedAt: s.now(),
	}
	if err = p.Validate(); err != nil {
		return nil, err
	}
	if err = s.payouts.Create(ctx, p); err != nil {
		return nil, err
	}

	var steps []workflow.Step
	if !in.SkipCashFlow {
		date := in.Date
		if date.IsZero() {
			date = s.now()
		}
		steps = append(steps, s.bookCashFlow(p, date))
	}
	if p.ProjectID != nil {
		steps = append(steps, s.adjustProjectTotal("add to project total", *p.ProjectID, p.Value))
	}
	if len(in.EntryIDs) > 0 {
		steps = append(steps, s.linkEntries(p.ID, in.EntryIDs))
	}

	report := workflow.Run(ctx, steps...)
	return &PayoutResult{Payout: p, Report: report}, report.Err()
}

func (s *payoutService) GetByID(ctx context.Context, id string) (*domain.Payout, error) {
	return s.payouts.GetByID(ctx, id)
}

func (s *payoutService) List(ctx context.Context) ([]*domain.Payout, error) {
	return s.payouts.List(ctx)
}

func (s *payoutService) Update(ctx context.Context, p *domain.Payout) (res *PayoutResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"payout": p.ID}
	defer func() {
		addReportFields(fields, res)
		observe(ctx, s.observer, "update-payout", startedAt, fields, &err)
	}()

	if err = p.Validate(); err != nil {
		return nil, err
	}
	var old *domain.Payout
	if old, err = s.payouts.GetByID(ctx, p.ID); err != nil {
		return nil, err
	}
	if err = s.payouts.Update(ctx, p); err != nil {
		return nil, err
	}

	steps := []workflow.Step{s.syncCashFlow(p)}
	switch {
	case old.ProjectID != nil && p.ProjectID != nil && *old.ProjectID == *p.ProjectID:
		if delta := p.Value.Sub(old.Value); !delta.IsZero() {
			steps = append(steps, s.adjustProjectTotal("adjust project total", *p.ProjectID, delta))
		}
	default:
		if old.ProjectID != nil {
			steps = append(steps, s.adjustProjectTotal("remove from previous project total", *old.ProjectID, old.Value.Neg()))
		}
		if p.ProjectID != nil {
			steps = append(steps, s.adjustProjectTotal("add to project total", *p.ProjectID, p.Value))
		}
	}

	report := workflow.Run(ctx, steps...)
	return &PayoutResult{Payout: p, Report: report}, report.Err()
}

// Delete removes the payout. Linked entries and cash flows lose their
// payout reference with the row; the steps then release the entries and
// take the value back off the project total.
func (s *payoutService) Delete(ctx context.Context, id string) (res *PayoutResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"payout": id}
	defer func() {
		addReportFields(fields, res)
		observe(ctx, s.observer, "delete-payout", startedAt, fields, &err)
	}()

	var p *domain.Payout
	if p, err = s.payouts.GetByID(ctx, id); err != nil {
		return nil, err
	}
	var linked []*domain.TimeEntry
	if linked, err = s.entries.ListByPayout(ctx, id); err != nil {
		return nil, err
	}
	entryIDs := make([]string, len(linked))
	for i, e := range linked {
		entryIDs[i] = e.ID
	}
	if err = s.payouts.Delete(ctx, id); err != nil {
		return nil, err
	}

	var steps []workflow.Step
	if len(entryIDs) > 0 {
		steps = append(steps, workflow.Step{
			Name: "release time entries",
			Run: func(ctx context.Context) error {
				_, err := s.entries.SetPaid(ctx, entryIDs, false)
				return err
			},
		})
	}
	if p.ProjectID != nil {
		steps = append(steps, s.adjustProjectTotal("reduce project total", *p.ProjectID, p.Value.Neg()))
	}

	report := workflow.Run(ctx, steps...)
	return &PayoutResult{Payout: p, Report: report}, report.Err()
}

func (s *payoutService) bookCashFlow(p *domain.Payout, date time.Time) workflow.Step {
	return workflow.Step{
		Name: "book cash flow",
		Run: func(ctx context.Context) error {
			payoutID := p.ID
			return s.cashFlows.CreateSingle(ctx, &domain.SingleCashFlow{
				ID:        uuid.New().String(),
				Title:     p.Title,
				Amount:    p.Value,
				Currency:  p.Currency,
				Date:      domain.CalendarDate(date),
				PayoutID:  &payoutID,
				IsActive:  true,
				CreatedAt: s.now(),
			})
		},
	}
}

func (s *payoutService) syncCashFlow(p *domain.Payout) workflow.Step {
	return workflow.Step{
		Name: "sync cash flow",
		Run: func(ctx context.Context) error {
			cf, err := s.cashFlows.GetSingleByPayout(ctx, p.ID)
			if err != nil {
				if repository.IsNotFound(err) {
					return nil
				}
				return err
			}
			cf.Title = p.Title
			cf.Amount = p.Value
			cf.Currency = p.Currency
			return s.cashFlows.UpdateSingle(ctx, cf)
		},
	}
}

func (s *payoutService) adjustProjectTotal(name, projectID string, delta decimal.Decimal) workflow.Step {
	return workflow.Step{
		Name: name,
		Run: func(ctx context.Context) error {
			return repository.WithinTx(ctx, s.uow, func(ctx context.Context, tx repository.Repos) error {
				_, err := tx.Projects.AdjustTotalPayout(ctx, projectID, delta)
				return err
			})
		},
	}
}

func (s *payoutService) linkEntries(payoutID string, entryIDs []string) workflow.Step {
	return workflow.Step{
		Name: "link time entries",
		Run: func(ctx context.Context) error {
			n, err := s.entries.LinkPayout(ctx, payoutID, entryIDs)
			if err != nil {
				return err
			}
			if int(n) != len(entryIDs) {
				return fmt.Errorf("linked %d of %d time entries", n, len(entryIDs))
			}
			return nil
		},
	}
}

func addReportFields(fields map[string]any, res *PayoutResult) {
	if res == nil {
		return
	}
	fields["payout"] = res.Payout.ID
	fields["steps"] = len(res.Report.Results)
	fields["failed_steps"] = len(res.Report.Failed())
}
