// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/infracouncil/council-portal-service/internal/domain/models"
)

// NatsMeetingResultRepository is the NATS KV implementation of the meeting
// result repository.
type NatsMeetingResultRepository struct {
	*NatsBaseRepository[models.MeetingResult]
}

// NewNatsMeetingResultRepository creates a new NATS KV meeting results repository.
func NewNatsMeetingResultRepository(kvStore INatsKeyValue) *NatsMeetingResultRepository {
	return &NatsMeetingResultRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.MeetingResult](kvStore, "meeting-result"),
	}
}

func (r *NatsMeetingResultRepository) Create(ctx context.Context, result *models.MeetingResult) error {
	return r.NatsBaseRepository.Create(ctx, result.UID, result)
}

func (r *NatsMeetingResultRepository) Update(ctx context.Context, result *models.MeetingResult, revision uint64) error {
	return r.NatsBaseRepository.Update(ctx, result.UID, result, revision)
}
