// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infracouncil/council-portal-service/internal/domain/models"
)

func TestNatsProposalRepository_ListByProposer(t *testing.T) {
	ctx := context.Background()
	mockKV := newMockNatsKeyValue()
	repo := NewNatsProposalRepository(mockKV)

	require.NoError(t, repo.Create(ctx, &models.Proposal{UID: "prop-1", ProposerUID: "user-1", Title: "Road renewal plan"}))
	require.NoError(t, repo.Create(ctx, &models.Proposal{UID: "prop-2", ProposerUID: "user-2", Title: "Dam inspection"}))
	require.NoError(t, repo.Create(ctx, &models.Proposal{UID: "prop-3", ProposerUID: "user-1", Title: "Port survey"}))

	owned, err := repo.ListByProposer(ctx, "user-1")

	assert.NoError(t, err)
	require.Len(t, owned, 2)
	uids := map[string]bool{owned[0].UID: true, owned[1].UID: true}
	assert.True(t, uids["prop-1"])
	assert.True(t, uids["prop-3"])

	none, err := repo.ListByProposer(ctx, "user-9")
	assert.NoError(t, err)
	assert.Empty(t, none)
}
