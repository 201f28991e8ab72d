// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/infracouncil/council-portal-service/internal/domain/models"
)

// NatsProposalRepository is the NATS KV implementation of the proposal repository.
type NatsProposalRepository struct {
	*NatsBaseRepository[models.Proposal]
}

// NewNatsProposalRepository creates a new NATS KV proposals repository.
func NewNatsProposalRepository(kvStore INatsKeyValue) *NatsProposalRepository {
	return &NatsProposalRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Proposal](kvStore, "proposal"),
	}
}

func (r *NatsProposalRepository) Create(ctx context.Context, proposal *models.Proposal) error {
	return r.NatsBaseRepository.Create(ctx, proposal.UID, proposal)
}

func (r *NatsProposalRepository) Update(ctx context.Context, proposal *models.Proposal, revision uint64) error {
	return r.NatsBaseRepository.Update(ctx, proposal.UID, proposal, revision)
}

// ListByProposer returns every proposal submitted by the given user.
func (r *NatsProposalRepository) ListByProposer(ctx context.Context, proposerUID string) ([]*models.Proposal, error) {
	proposals, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var owned []*models.Proposal
	for _, proposal := range proposals {
		if proposal.ProposerUID == proposerUID {
			owned = append(owned, proposal)
		}
	}

	return owned, nil
}
