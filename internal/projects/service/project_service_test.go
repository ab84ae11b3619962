package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proyectos-app/proyectos-backend/internal/projects/domain"
	"github.com/proyectos-app/proyectos-backend/internal/projects/repository"
	"github.com/proyectos-app/proyectos-backend/internal/storage/redisstore"
)

func setupTestService(t *testing.T) *ProjectService {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := redisstore.New(client)
	return NewProjectService(repository.NewProjectRepository(store))
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func ids(ps []domain.Project) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID())
	}
	return out
}

func TestProjectService_CreateAndGet(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.Project{"nombre": "A", "_id": "forged"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID())
	assert.NotEqual(t, "forged", created.ID())

	got, err := svc.Get(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, "A", got["nombre"])

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestProjectService_CreateRejectsBadDate(t *testing.T) {
	svc := setupTestService(t)

	_, err := svc.Create(context.Background(), domain.Project{"fechaInicio": "no es fecha"})
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
}

func TestProjectService_Get(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	t.Run("well-formed but missing id", func(t *testing.T) {
		_, err := svc.Get(ctx, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := svc.Get(ctx, "xyz")
		assert.ErrorIs(t, err, domain.ErrInvalidID)
	})

	t.Run("blank id", func(t *testing.T) {
		_, err := svc.Get(ctx, "  ")
		assert.ErrorIs(t, err, domain.ErrInvalidID)
	})
}

func TestProjectService_Update(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.Project{"nombre": "A", "estado": "nuevo"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID(), domain.Project{"nombre": "B", "_id": "other"})
	require.NoError(t, err)
	assert.Equal(t, created.ID(), updated.ID())
	assert.Equal(t, "B", updated["nombre"])
	assert.Equal(t, "nuevo", updated["estado"])

	unchanged, err := svc.Update(ctx, created.ID(), domain.Project{})
	require.NoError(t, err)
	assert.Equal(t, "B", unchanged["nombre"])

	_, err = svc.Update(ctx, "00000000-0000-0000-0000-000000000000", domain.Project{"nombre": "C"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectService_Delete(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.Project{"nombre": "A"})
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, "A", deleted["nombre"])

	_, err = svc.Get(ctx, created.ID())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Delete(ctx, created.ID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectService_Search(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	inDay, err := svc.Create(ctx, domain.Project{"fechaInicio": "2024-03-01T23:59:59.000", "piezas": []interface{}{}})
	require.NoError(t, err)
	nextDay, err := svc.Create(ctx, domain.Project{"fechaInicio": "2024-03-02T00:00:01.000"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.Project{"nombre": "sin fecha"})
	require.NoError(t, err)

	t.Run("no criteria returns everything", func(t *testing.T) {
		got, err := svc.Search(ctx, domain.SearchFilter{})
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("date matches only that calendar day", func(t *testing.T) {
		got, err := svc.Search(ctx, domain.SearchFilter{Date: strPtr("2024-03-01")})
		require.NoError(t, err)
		assert.Equal(t, []string{inDay.ID()}, ids(got))
	})

	t.Run("has pieces checks field presence", func(t *testing.T) {
		got, err := svc.Search(ctx, domain.SearchFilter{HasPieces: boolPtr(true)})
		require.NoError(t, err)
		assert.Equal(t, []string{inDay.ID()}, ids(got))

		got, err = svc.Search(ctx, domain.SearchFilter{HasPieces: boolPtr(false)})
		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Contains(t, ids(got), nextDay.ID())
	})

	t.Run("criteria combine with and", func(t *testing.T) {
		got, err := svc.Search(ctx, domain.SearchFilter{HasPieces: boolPtr(true), Date: strPtr("2024-03-02")})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := svc.Search(ctx, domain.SearchFilter{Date: strPtr("marzo")})
		assert.ErrorIs(t, err, domain.ErrInvalidDocument)
	})
}

func TestProjectService_AppendPieces(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.Project{"piezas": []interface{}{"p0"}})
	require.NoError(t, err)

	t.Run("appends in order", func(t *testing.T) {
		outcome, err := svc.AppendPieces(ctx, created.ID(), []interface{}{"p1", "p2"})
		require.NoError(t, err)
		assert.Equal(t, domain.Appended, outcome)

		got, err := svc.Get(ctx, created.ID())
		require.NoError(t, err)
		pieces, ok := got.Pieces()
		require.True(t, ok)
		assert.Equal(t, []interface{}{"p0", "p1", "p2"}, pieces)
	})

	t.Run("empty list changes nothing", func(t *testing.T) {
		outcome, err := svc.AppendPieces(ctx, created.ID(), []interface{}{})
		require.NoError(t, err)
		assert.Equal(t, domain.AppendNoChange, outcome)
	})

	t.Run("missing project", func(t *testing.T) {
		outcome, err := svc.AppendPieces(ctx, "00000000-0000-0000-0000-000000000000", []interface{}{"p"})
		require.NoError(t, err)
		assert.Equal(t, domain.AppendNotFound, outcome)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := svc.AppendPieces(ctx, "bad", []interface{}{"p"})
		assert.ErrorIs(t, err, domain.ErrInvalidID)
	})
}

func TestProjectService_ListWithPieces(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	with, err := svc.Create(ctx, domain.Project{"piezas": []interface{}{"p0"}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.Project{"piezas": []interface{}{}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.Project{"nombre": "sin piezas"})
	require.NoError(t, err)

	got, err := svc.ListWithPieces(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{with.ID()}, ids(got))
}

func TestProjectService_ListByDate(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	older, err := svc.Create(ctx, domain.Project{"fecha": "2023-06-01"})
	require.NoError(t, err)
	undated, err := svc.Create(ctx, domain.Project{"nombre": "sin fecha"})
	require.NoError(t, err)
	newest, err := svc.Create(ctx, domain.Project{"fecha": "2025-01-15T10:00:00Z"})
	require.NoError(t, err)
	middle, err := svc.Create(ctx, domain.Project{"fecha": "2024-02-10"})
	require.NoError(t, err)

	got, err := svc.ListByDate(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{newest.ID(), middle.ID(), older.ID(), undated.ID()}, ids(got))

	first, ok := got[0]["fecha"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, 2025, first.Year())
}
