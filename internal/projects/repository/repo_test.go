package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proyectos-app/proyectos-backend/internal/projects/domain"
	"github.com/proyectos-app/proyectos-backend/internal/storage/docstore"
	"github.com/proyectos-app/proyectos-backend/internal/storage/redisstore"
)

func TestProjectRepository_KeepsLegacyDateValues(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := redisstore.New(client)
	repo := NewProjectRepository(store)
	ctx := context.Background()

	// written around the service, as older clients did
	legacy, err := store.Insert(ctx, domain.Collection, docstore.Document{"fecha": "sin fecha", "nombre": "viejo"})
	require.NoError(t, err)
	_, err = store.Insert(ctx, domain.Collection, docstore.Document{"fecha": "2024-03-01T00:00:00Z"})
	require.NoError(t, err)

	got, err := repo.Get(ctx, legacy.ID())
	require.NoError(t, err)
	assert.Equal(t, "sin fecha", got[domain.FieldDate])

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "sin fecha", all[0][domain.FieldDate])
	_, ok := all[1][domain.FieldDate].(time.Time)
	assert.True(t, ok)
}
