package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realestate/internal/backend"
	apperrors "realestate/internal/errors"
	"realestate/internal/model"
)

func TestNewRepositories_MockBackendUsesMemory(t *testing.T) {
	b := &backend.Mock{}

	assert.IsType(t, &MemoryUserRepository{}, NewUserRepository(b))
	assert.IsType(t, &MemoryInvitationRepository{}, NewInvitationRepository(b))
	assert.IsType(t, &MemoryPropertyRepository{}, NewPropertyRepository(b))
}

func TestMemoryUserRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user := &model.User{Email: "Jane@Example.com", FullName: "Jane", Role: model.RoleClient, HashedPassword: "h", IsActive: true}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)

	found, err := repo.FindByEmail(ctx, "Jane@Example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByEmail(ctx, "jane@example.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "emails compare case-sensitively")

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", byID.FullName)
}

func TestMemoryUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()
	require.NoError(t, repo.Create(ctx, &model.User{Email: "a@b.com", FullName: "A"}))

	u, err := repo.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	u.FullName = "mutated"

	again, err := repo.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "A", again.FullName)
}

func TestMemoryUserRepository_UpdateMergesFields(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, &model.User{
		Email: "a@b.com", FullName: "A", Role: model.RoleClient, HashedPassword: "h1",
		CreatedAt: created, UpdatedAt: created,
	}))

	name := "Alice"
	updated, err := repo.Update(ctx, "a@b.com", model.UserUpdate{FullName: &name})
	require.NoError(t, err)

	assert.Equal(t, "Alice", updated.FullName)
	assert.Equal(t, "h1", updated.HashedPassword)
	assert.Equal(t, model.RoleClient, updated.Role)
	assert.Equal(t, created, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created))
}

func TestMemoryUserRepository_UpdateMissing(t *testing.T) {
	_, err := NewMemoryUserRepository().Update(context.Background(), "nobody@x.com", model.UserUpdate{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMemoryUserRepository_ListInCreationOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()
	for _, email := range []string{"c@x.com", "a@x.com", "b@x.com"} {
		require.NoError(t, repo.Create(ctx, &model.User{Email: email}))
	}

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "c@x.com", users[0].Email)
	assert.Equal(t, "b@x.com", users[2].Email)
}
