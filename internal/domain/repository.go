// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/infracouncil/council-portal-service/internal/domain/models"
)

// Repositories expose a watch operation alongside the usual CRUD: Watch
// streams the full current collection (a snapshot, never a diff) on every
// remote change until the context is cancelled. The snapshot channel closes
// when watching stops; a delivery on the error channel is terminal.

// UserRepository defines the interface for user storage operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, userUID string) (*models.User, error)
	GetWithRevision(ctx context.Context, userUID string) (*models.User, uint64, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User, revision uint64) error
	Delete(ctx context.Context, userUID string, revision uint64) error
	Exists(ctx context.Context, userUID string) (bool, error)
	ListAll(ctx context.Context) ([]*models.User, error)
	Watch(ctx context.Context) (<-chan []*models.User, <-chan error, error)
}

// ProposalRepository defines the interface for proposal storage operations.
type ProposalRepository interface {
	Create(ctx context.Context, proposal *models.Proposal) error
	Get(ctx context.Context, proposalUID string) (*models.Proposal, error)
	GetWithRevision(ctx context.Context, proposalUID string) (*models.Proposal, uint64, error)
	Update(ctx context.Context, proposal *models.Proposal, revision uint64) error
	Delete(ctx context.Context, proposalUID string, revision uint64) error
	ListAll(ctx context.Context) ([]*models.Proposal, error)
	ListByProposer(ctx context.Context, proposerUID string) ([]*models.Proposal, error)
	Watch(ctx context.Context) (<-chan []*models.Proposal, <-chan error, error)
}

// MeetingRepository defines the interface for meeting storage operations.
type MeetingRepository interface {
	Create(ctx context.Context, meeting *models.Meeting) error
	Get(ctx context.Context, meetingUID string) (*models.Meeting, error)
	GetWithRevision(ctx context.Context, meetingUID string) (*models.Meeting, uint64, error)
	Update(ctx context.Context, meeting *models.Meeting, revision uint64) error
	Delete(ctx context.Context, meetingUID string, revision uint64) error
	Exists(ctx context.Context, meetingUID string) (bool, error)
	ListAll(ctx context.Context) ([]*models.Meeting, error)
	Watch(ctx context.Context) (<-chan []*models.Meeting, <-chan error, error)
}

// MeetingResultRepository defines the interface for meeting result storage operations.
type MeetingResultRepository interface {
	Create(ctx context.Context, result *models.MeetingResult) error
	Get(ctx context.Context, resultUID string) (*models.MeetingResult, error)
	GetWithRevision(ctx context.Context, resultUID string) (*models.MeetingResult, uint64, error)
	Update(ctx context.Context, result *models.MeetingResult, revision uint64) error
	Delete(ctx context.Context, resultUID string, revision uint64) error
	ListAll(ctx context.Context) ([]*models.MeetingResult, error)
	Watch(ctx context.Context) (<-chan []*models.MeetingResult, <-chan error, error)
}
