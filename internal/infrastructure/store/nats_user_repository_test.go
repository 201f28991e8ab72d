// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infracouncil/council-portal-service/internal/domain"
	"github.com/infracouncil/council-portal-service/internal/domain/models"
)

func TestNatsUserRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	mockKV := newMockNatsKeyValue()
	repo := NewNatsUserRepository(mockKV)

	user := &models.User{
		UID:      "user-1",
		Name:     "Taro Kasen",
		Email:    "taro@example.com",
		Division: models.DivisionTransport,
	}

	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.Get(ctx, "user-1")
	assert.NoError(t, err)
	assert.Equal(t, user.Name, got.Name)
	assert.Equal(t, models.DivisionTransport, got.Division)
}

func TestNatsUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	mockKV := newMockNatsKeyValue()
	repo := NewNatsUserRepository(mockKV)

	require.NoError(t, repo.Create(ctx, &models.User{UID: "user-1", Email: "alpha@example.com"}))
	require.NoError(t, repo.Create(ctx, &models.User{UID: "user-2", Email: "beta@example.com"}))

	t.Run("found", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "beta@example.com")
		assert.NoError(t, err)
		assert.Equal(t, "user-2", got.UID)
	})

	t.Run("case-insensitive match", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "ALPHA@example.com")
		assert.NoError(t, err)
		assert.Equal(t, "user-1", got.UID)
	})

	t.Run("not found", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "missing@example.com")
		assert.Error(t, err)
		assert.Nil(t, got)
		assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
	})
}

func TestNatsUserRepository_UpdateRequiresRevision(t *testing.T) {
	ctx := context.Background()
	mockKV := newMockNatsKeyValue()
	repo := NewNatsUserRepository(mockKV)

	user := &models.User{UID: "user-1", Email: "taro@example.com"}
	require.NoError(t, repo.Create(ctx, user))

	got, revision, err := repo.GetWithRevision(ctx, "user-1")
	require.NoError(t, err)

	got.Approved = true
	assert.NoError(t, repo.Update(ctx, got, revision))

	err = repo.Update(ctx, got, revision)
	assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
}
