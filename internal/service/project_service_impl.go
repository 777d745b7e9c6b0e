package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alexanderramin/worktally/internal/domain"
	"github.com/alexanderramin/worktally/internal/repository"
	"github.com/google/uuid"
)

type projectService struct {
	projects repository.WorkProjectRepo
	settings repository.SettingsRepo
}

func NewProjectService(projects repository.WorkProjectRepo, settings repository.SettingsRepo) ProjectService {
	return &projectService{projects: projects, settings: settings}
}

func (s *projectService) Create(ctx context.Context, p *domain.WorkProject) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.ShortID = strings.ToUpper(p.ShortID)

	if p.Currency == "" || p.RoundingDirection == "" {
		prefs, err := s.settings.Get(ctx)
		if err != nil {
			return err
		}
		p.Currency = domain.Currency(domain.CoalesceStr(string(p.Currency), string(prefs.DefaultCurrency)))
		p.RoundingDirection = domain.RoundingDirection(domain.CoalesceStr(
			string(p.RoundingDirection), string(prefs.RoundingDirection), string(domain.RoundUp)))
	}
	if err := p.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.projects.Create(ctx, p)
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.WorkProject, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) Resolve(ctx context.Context, ref string) (*domain.WorkProject, error) {
	p, err := s.projects.GetByShortID(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return s.projects.GetByID(ctx, ref)
}

func (s *projectService) List(ctx context.Context) ([]*domain.WorkProject, error) {
	return s.projects.List(ctx)
}

func (s *projectService) Update(ctx context.Context, p *domain.WorkProject) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()
	return s.projects.Update(ctx, p)
}

// Delete removes the project together with its time entries.
func (s *projectService) Delete(ctx context.Context, id string) error {
	return s.projects.Delete(ctx, id)
}
