package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-service/internal/store"
)

func TestFavoriteToggle(t *testing.T) {
	kv := store.NewMemory()
	profiles := NewProfileRepository(kv)
	repo := NewFavoriteRepository(kv, profiles)
	ctx := context.Background()

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	now, err := repo.Toggle(ctx, "go-basics")
	require.NoError(t, err)
	assert.True(t, now)

	fav, err := repo.IsFavorite(ctx, "go-basics")
	require.NoError(t, err)
	assert.True(t, fav)

	now, err = repo.Toggle(ctx, "go-basics")
	require.NoError(t, err)
	assert.False(t, now)

	fav, err = repo.IsFavorite(ctx, "go-basics")
	require.NoError(t, err)
	assert.False(t, fav)
}

func TestFavoritesScopedToProfile(t *testing.T) {
	kv := store.NewMemory()
	profiles := NewProfileRepository(kv)
	repo := NewFavoriteRepository(kv, profiles)
	ctx := context.Background()

	_, err := repo.Toggle(ctx, "go-basics")
	require.NoError(t, err)

	second, err := profiles.Create(ctx, "Maria", "")
	require.NoError(t, err)
	require.NoError(t, profiles.Switch(ctx, second.ID))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
