package pieces

import (
	"context"
	"errors"

	"github.com/proyectos-app/proyectos-backend/internal/storage/docstore"
)

const Collection = "piezas"

var (
	ErrNotFound  = errors.New("piece not found")
	ErrInvalidID = errors.New("invalid piece id")
)

// Piece is a schema-free piece document.
type Piece map[string]interface{}

type Repo struct {
	store docstore.Store
}

func NewRepo(store docstore.Store) *Repo {
	return &Repo{store: store}
}

func (r *Repo) Create(ctx context.Context, p Piece) (Piece, error) {
	doc, err := r.store.Insert(ctx, Collection, docstore.Document(p).WithoutID())
	if err != nil {
		return nil, translate(err)
	}
	return Piece(doc), nil
}

func (r *Repo) List(ctx context.Context) ([]Piece, error) {
	docs, err := r.store.Find(ctx, Collection, docstore.Query{})
	if err != nil {
		return nil, translate(err)
	}
	out := make([]Piece, 0, len(docs))
	for _, d := range docs {
		out = append(out, Piece(d))
	}
	return out, nil
}

func (r *Repo) Get(ctx context.Context, id string) (Piece, error) {
	doc, err := r.store.FindByID(ctx, Collection, id)
	if err != nil {
		return nil, translate(err)
	}
	return Piece(doc), nil
}

func (r *Repo) Update(ctx context.Context, id string, fields Piece) (Piece, error) {
	doc, err := r.store.UpdateByID(ctx, Collection, id, docstore.Document(fields).WithoutID())
	if err != nil {
		return nil, translate(err)
	}
	return Piece(doc), nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	_, err := r.store.DeleteByID(ctx, Collection, id)
	return translate(err)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, docstore.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, docstore.ErrInvalidID):
		return ErrInvalidID
	}
	return err
}
