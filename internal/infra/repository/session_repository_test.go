package repository

import (
	"context"
	"testing"
	"time"

	"bodega/internal/domain/model"
	repo "bodega/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSession() *model.Session {
	s := model.NewSession("sess-1", time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC))
	_, _ = s.Cart.Add(model.Product{Code: "AN-001", Name: "Anillo", Price: 50000, Stock: 10}, 3)
	s.ExtraCategories = []string{"Relojes"}
	return s
}

func TestSessionMemoryRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	r := NewSessionMemoryRepository(time.Hour)
	r.now = func() time.Time { return now }

	s := sampleSession()
	require.NoError(t, r.Save(ctx, s))

	got, err := r.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, s.Cart.Items, got.Cart.Items)
	assert.NotSame(t, s, got)

	// mutating the copy does not leak into the store
	got.Cart.Clear()
	again, err := r.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Len(t, again.Cart.Items, 1)

	now = now.Add(time.Hour)
	_, err = r.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestSessionMemoryRepository_Delete(t *testing.T) {
	ctx := context.Background()
	r := NewSessionMemoryRepository(time.Hour)
	require.NoError(t, r.Save(ctx, sampleSession()))
	require.NoError(t, r.Delete(ctx, "sess-1"))

	_, err := r.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestSessionRedisRepository(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	r := NewSessionRedisRepository(client, 30*time.Minute)
	s := sampleSession()
	require.NoError(t, r.Save(ctx, s))

	assert.True(t, mr.Exists("session:sess-1"))
	assert.Equal(t, 30*time.Minute, mr.TTL("session:sess-1"))

	got, err := r.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, s.Cart.Items, got.Cart.Items)
	assert.Equal(t, []string{"Relojes"}, got.ExtraCategories)

	mr.FastForward(31 * time.Minute)
	_, err = r.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	require.NoError(t, r.Save(ctx, s))
	require.NoError(t, r.Delete(ctx, "sess-1"))
	_, err = r.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestSessionRedisRepository_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	_, err := NewSessionRedisRepository(client, time.Minute).Get(context.Background(), "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, repo.ErrNotFound)
}
