package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/proyectos-app/proyectos-backend/internal/projects/domain"
	"github.com/proyectos-app/proyectos-backend/internal/projects/repository"
)

// ProjectService handles project-related business logic
type ProjectService struct {
	repo *repository.ProjectRepository
}

// NewProjectService creates a new project service
func NewProjectService(repo *repository.ProjectRepository) *ProjectService {
	return &ProjectService{
		repo: repo,
	}
}

// Create stores the caller's document as the initial project state.
func (s *ProjectService) Create(ctx context.Context, body domain.Project) (domain.Project, error) {
	p, err := prepare(body)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, p)
}

// List returns all projects
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	return s.repo.List(ctx)
}

// Get returns a single project
func (s *ProjectService) Get(ctx context.Context, id string) (domain.Project, error) {
	id, err := checkID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Update applies a partial update. An empty body returns the project unchanged.
func (s *ProjectService) Update(ctx context.Context, id string, fields domain.Project) (domain.Project, error) {
	id, err := checkID(id)
	if err != nil {
		return nil, err
	}
	p, err := prepare(fields)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, p)
}

// Delete hard-deletes a project
func (s *ProjectService) Delete(ctx context.Context, id string) (domain.Project, error) {
	id, err := checkID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.Delete(ctx, id)
}

// Search filters projects by piece presence and start date
func (s *ProjectService) Search(ctx context.Context, f domain.SearchFilter) ([]domain.Project, error) {
	return s.repo.Search(ctx, f)
}

// AppendPieces adds pieces to the end of a project's piece list
func (s *ProjectService) AppendPieces(ctx context.Context, id string, pieces []interface{}) (domain.AppendOutcome, error) {
	id, err := checkID(id)
	if err != nil {
		return domain.AppendNotFound, err
	}
	return s.repo.AppendPieces(ctx, id, pieces)
}

// ListWithPieces returns projects that have at least one piece
func (s *ProjectService) ListWithPieces(ctx context.Context) ([]domain.Project, error) {
	return s.repo.ListWithPieces(ctx)
}

// ListByDate returns all projects, newest fecha first
func (s *ProjectService) ListByDate(ctx context.Context) ([]domain.Project, error) {
	return s.repo.ListByDateDesc(ctx)
}

// prepare copies the body without its id and normalizes date fields.
func prepare(body domain.Project) (domain.Project, error) {
	p := make(domain.Project, len(body))
	for k, v := range body {
		if k == domain.FieldID {
			continue
		}
		p[k] = v
	}
	if err := domain.NormalizeDates(p); err != nil {
		return nil, err
	}
	return p, nil
}

func checkID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: empty", domain.ErrInvalidID)
	}
	return id, nil
}
