package userrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/itinerary-planner/internal/domain/auth"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	user, err := repo.Create(ctx, "a@example.com", "Ann", "hash")
	require.NoError(t, err)
	require.Equal(t, int64(1), user.ID)

	_, err = repo.Create(ctx, "a@example.com", "Other", "hash")
	require.ErrorIs(t, err, auth.ErrEmailExists)

	got, found, err := repo.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, user, got)

	got, found, err = repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Ann", got.Nickname)

	_, found, err = repo.GetByID(ctx, 42)
	require.NoError(t, err)
	require.False(t, found)
}
