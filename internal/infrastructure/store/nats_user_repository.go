// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/infracouncil/council-portal-service/internal/domain"
	"github.com/infracouncil/council-portal-service/internal/domain/models"
)

// NatsUserRepository is the NATS KV implementation of the user repository.
type NatsUserRepository struct {
	*NatsBaseRepository[models.User]
}

// NewNatsUserRepository creates a new NATS KV users repository.
func NewNatsUserRepository(kvStore INatsKeyValue) *NatsUserRepository {
	return &NatsUserRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.User](kvStore, "user"),
	}
}

func (r *NatsUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.NatsBaseRepository.Create(ctx, user.UID, user)
}

func (r *NatsUserRepository) Update(ctx context.Context, user *models.User, revision uint64) error {
	return r.NatsBaseRepository.Update(ctx, user.UID, user, revision)
}

// GetByEmail scans the bucket for a user with the given email address.
// Emails are compared case-insensitively.
func (r *NatsUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}

	return nil, domain.NewNotFoundError(fmt.Sprintf("user with email '%s' not found", email))
}
