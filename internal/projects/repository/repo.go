package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/proyectos-app/proyectos-backend/internal/projects/domain"
	"github.com/proyectos-app/proyectos-backend/internal/storage/docstore"
)

// ProjectRepository provides persistence operations for projects on top of any
// document store backend.
type ProjectRepository struct {
	store docstore.Store
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(store docstore.Store) *ProjectRepository {
	return &ProjectRepository{store: store}
}

// Create inserts the document as given; the store assigns the id.
func (r *ProjectRepository) Create(ctx context.Context, p domain.Project) (domain.Project, error) {
	doc, err := r.store.Insert(ctx, domain.Collection, docstore.Document(p))
	if err != nil {
		return nil, translate(err)
	}
	return toProject(doc), nil
}

// List returns every project in natural store order.
func (r *ProjectRepository) List(ctx context.Context) ([]domain.Project, error) {
	return r.find(ctx, docstore.Query{})
}

func (r *ProjectRepository) Get(ctx context.Context, id string) (domain.Project, error) {
	doc, err := r.store.FindByID(ctx, domain.Collection, id)
	if err != nil {
		return nil, translate(err)
	}
	return toProject(doc), nil
}

// Update replaces the given top-level fields and returns the post-update project.
func (r *ProjectRepository) Update(ctx context.Context, id string, fields domain.Project) (domain.Project, error) {
	doc, err := r.store.UpdateByID(ctx, domain.Collection, id, docstore.Document(fields))
	if err != nil {
		return nil, translate(err)
	}
	return toProject(doc), nil
}

// Delete removes the project and returns its last state.
func (r *ProjectRepository) Delete(ctx context.Context, id string) (domain.Project, error) {
	doc, err := r.store.DeleteByID(ctx, domain.Collection, id)
	if err != nil {
		return nil, translate(err)
	}
	return toProject(doc), nil
}

// Search combines the optional filters with AND. HasPieces checks only that the
// piezas field exists; Date matches fechaInicio within that local calendar day.
func (r *ProjectRepository) Search(ctx context.Context, f domain.SearchFilter) ([]domain.Project, error) {
	q := docstore.Query{}
	if f.HasPieces != nil {
		q = q.Where(domain.FieldPieces, docstore.OpExists, *f.HasPieces)
	}
	if f.Date != nil && *f.Date != "" {
		from, to, err := domain.DayWindow(*f.Date)
		if err != nil {
			return nil, err
		}
		q = q.Where(domain.FieldStartDate, docstore.OpGte, from).
			Where(domain.FieldStartDate, docstore.OpLte, to)
	}
	return r.find(ctx, q)
}

// AppendPieces pushes pieces onto the project's piece list, keeping order and
// duplicates.
func (r *ProjectRepository) AppendPieces(ctx context.Context, id string, pieces []interface{}) (domain.AppendOutcome, error) {
	res, err := r.store.PushByID(ctx, domain.Collection, id, domain.FieldPieces, pieces)
	if err != nil {
		return domain.AppendNotFound, translate(err)
	}
	switch {
	case !res.Matched:
		return domain.AppendNotFound, nil
	case !res.Modified:
		return domain.AppendNoChange, nil
	}
	return domain.Appended, nil
}

// ListWithPieces returns projects holding at least one piece.
func (r *ProjectRepository) ListWithPieces(ctx context.Context) ([]domain.Project, error) {
	return r.find(ctx, docstore.Query{}.Where(domain.FieldPieces, docstore.OpNonEmpty, nil))
}

// ListByDateDesc orders by fecha, newest first; projects without fecha come last.
func (r *ProjectRepository) ListByDateDesc(ctx context.Context) ([]domain.Project, error) {
	return r.find(ctx, docstore.Query{}.OrderBy(docstore.SortField{
		Field:      domain.FieldDate,
		Descending: true,
		AsTime:     true,
	}))
}

func (r *ProjectRepository) find(ctx context.Context, q docstore.Query) ([]domain.Project, error) {
	docs, err := r.store.Find(ctx, domain.Collection, q)
	if err != nil {
		return nil, translate(err)
	}
	out := make([]domain.Project, 0, len(docs))
	for _, d := range docs {
		out = append(out, toProject(d))
	}
	return out, nil
}

// toProject re-reads date fields as time values; backends that store JSON hand
// them back as strings. A stored value that is not a date is returned raw so
// one legacy document cannot fail a whole listing.
func toProject(doc docstore.Document) domain.Project {
	p := domain.Project(doc)
	_ = domain.NormalizeDates(p)
	return p
}

func translate(err error) error {
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		return domain.ErrNotFound
	case errors.Is(err, docstore.ErrInvalidID):
		return fmt.Errorf("%w: %v", domain.ErrInvalidID, err)
	}
	return err
}
