package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/worktally/internal/db"
	"github.com/alexanderramin/worktally/internal/domain"
	"github.com/alexanderramin/worktally/internal/reconcile"
	"github.com/alexanderramin/worktally/internal/repository"
	"github.com/alexanderramin/worktally/internal/rounding"
	"github.com/google/uuid"
)

// ErrFullyOverlapped is returned when every moment of a new entry is already
// covered by existing entries, so nothing was saved.
var ErrFullyOverlapped = errors.New("time entry is fully covered by existing entries")

// Outcome classifies what happened to a new entry.
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeAdjusted
	OutcomeFullyOverlapped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeAdjusted:
		return "adjusted"
	case OutcomeFullyOverlapped:
		return "fully_overlapped"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// EntryPlan is a reconciled but not yet persisted time entry.
type EntryPlan struct {
	Project   *domain.WorkProject
	Candidate domain.TimeEntry
	Result    reconcile.Result
}

func (p *EntryPlan) Outcome() Outcome {
	switch {
	case p.Result.FullyShadowed():
		return OutcomeFullyOverlapped
	case p.Result.Adjusted():
		return OutcomeAdjusted
	default:
		return OutcomeCreated
	}
}

// AddResult reports the entries written and the ones they had to avoid.
type AddResult struct {
	Outcome   Outcome
	Created   []domain.TimeEntry
	Colliding []domain.TimeEntry
}

type timeEntryService struct {
	projects repository.WorkProjectRepo
	entries  repository.TimeEntryRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
	now      func() time.Time
}

func NewTimeEntryService(
	projects repository.WorkProjectRepo,
	entries repository.TimeEntryRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) TimeEntryService {
	return &timeEntryService{
		projects: projects,
		entries:  entries,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *timeEntryService) Plan(ctx context.Context, draft EntryDraft) (*EntryPlan, error) {
	project, err := s.projects.GetByID(ctx, draft.ProjectID)
	if err != nil {
		return nil, err
	}
	candidate, err := s.buildCandidate(project, draft)
	if err != nil {
		return nil, err
	}

	existing, err := s.entries.ListOverlapping(ctx, project.ID, candidate.StartTime, candidate.EndTime)
	if err != nil {
		return nil, err
	}
	result, err := reconcile.Reconcile(existing, candidate)
	if err != nil {
		return nil, err
	}
	return &EntryPlan{Project: project, Candidate: candidate, Result: result}, nil
}

// buildCandidate applies the project's billing and rounding settings to draft.
func (s *timeEntryService) buildCandidate(project *domain.WorkProject, draft EntryDraft) (domain.TimeEntry, error) {
	// Stored timestamps keep milliseconds; reconcile at the same precision.
	start := draft.Start.UTC().Truncate(time.Millisecond)
	end := draft.End.UTC().Truncate(time.Millisecond)
	e := domain.TimeEntry{
		ID:            uuid.New().String(),
		ProjectID:     project.ID,
		StartTime:     start,
		EndTime:       end,
		RealStartTime: start,
		TrueEndTime:   end,
		PausedSeconds: draft.PausedSeconds,
		Currency:      project.Currency,
		Salary:        project.Salary,
		HourlyPayment: project.HourlyPayment,
		Memo:          draft.Memo,
		CreatedAt:     s.now(),
	}
	if err := e.Validate(); err != nil {
		return domain.TimeEntry{}, err
	}
	active := int(end.Sub(start)/time.Second) - draft.PausedSeconds
	if active < 0 {
		return domain.TimeEntry{}, fmt.Errorf("paused %ds exceeds the entry's length", draft.PausedSeconds)
	}
	e.ActiveSeconds = active

	if project.RoundInTimeFragments {
		e = rounding.FragmentEntry(e, project.TimeFragmentInterval)
	}
	// Rounding applies after fragmenting.
	e.ActiveSeconds = rounding.RoundSeconds(e.ActiveSeconds, project.RoundingInterval, project.RoundingDirection)
	return e, nil
}

// Commit writes plan.Result.Produced in one transaction. When entries were
// added since the plan was made, the candidate is reconciled again against
// the current state and that result is persisted instead.
func (s *timeEntryService) Commit(ctx context.Context, plan *EntryPlan) (res *AddResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project": plan.Candidate.ProjectID}
	defer func() {
		if res != nil {
			fields["outcome"] = res.Outcome.String()
			fields["created"] = len(res.Created)
			fields["colliding"] = len(res.Colliding)
		}
		observe(ctx, s.observer, "commit-time-entry", startedAt, fields, &err)
	}()

	result := plan.Result
	err = repository.WithinTx(ctx, s.uow, func(ctx context.Context, tx repository.Repos) error {
		txEntries := tx.Entries

		current, err := txEntries.ListOverlapping(ctx, plan.Candidate.ProjectID,
			plan.Candidate.StartTime, plan.Candidate.EndTime)
		if err != nil {
			return err
		}
		if !sameEntrySet(current, result.Colliding) {
			fields["replanned"] = true
			if result, err = reconcile.Reconcile(current, plan.Candidate); err != nil {
				return err
			}
		}
		if result.FullyShadowed() {
			return nil
		}
		return txEntries.CreateBatch(ctx, result.Produced)
	})
	if err != nil {
		return nil, err
	}

	res = &AddResult{Created: result.Produced, Colliding: result.Colliding}
	switch {
	case result.FullyShadowed():
		res.Outcome = OutcomeFullyOverlapped
		err = ErrFullyOverlapped
	case result.Adjusted():
		res.Outcome = OutcomeAdjusted
	default:
		res.Outcome = OutcomeCreated
	}
	return res, err
}

// Add plans and commits in one call. A fully overlapped entry returns both
// the result and ErrFullyOverlapped.
func (s *timeEntryService) Add(ctx context.Context, draft EntryDraft) (*AddResult, error) {
	plan, err := s.Plan(ctx, draft)
	if err != nil {
		return nil, err
	}
	return s.Commit(ctx, plan)
}

func (s *timeEntryService) GetByID(ctx context.Context, id string) (*domain.TimeEntry, error) {
	return s.entries.GetByID(ctx, id)
}

func (s *timeEntryService) ListByProject(ctx context.Context, projectID string) ([]*domain.TimeEntry, error) {
	return s.entries.ListByProject(ctx, projectID)
}

func (s *timeEntryService) Delete(ctx context.Context, id string) error {
	return s.entries.Delete(ctx, id)
}

func (s *timeEntryService) Summary(ctx context.Context, projectID string) (*EntrySummary, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	entries, err := s.entries.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	sum := summarizeEntries(entries, project.Currency)
	return &sum, nil
}
