// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/infracouncil/council-portal-service/internal/domain/models"
)

// Message represents a domain message interface
type Message interface {
	Subject() string
	Data() []byte
	Respond(data []byte) error
	HasReply() bool
}

// MessageHandler defines how the service handles incoming messages
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg Message)
	HandlerReady() bool
}

// UserIndexSender handles indexing operations for users.
type UserIndexSender interface {
	SendIndexUser(ctx context.Context, action models.MessageAction, data models.User) error
	SendDeleteIndexUser(ctx context.Context, data string) error
}

// ProposalIndexSender handles indexing operations for proposals.
type ProposalIndexSender interface {
	SendIndexProposal(ctx context.Context, action models.MessageAction, data models.Proposal) error
	SendDeleteIndexProposal(ctx context.Context, data string) error
}

// MeetingIndexSender handles indexing operations for meetings.
type MeetingIndexSender interface {
	SendIndexMeeting(ctx context.Context, action models.MessageAction, data models.Meeting) error
	SendDeleteIndexMeeting(ctx context.Context, data string) error
}

// MeetingResultIndexSender handles indexing operations for meeting results.
type MeetingResultIndexSender interface {
	SendIndexMeetingResult(ctx context.Context, action models.MessageAction, data models.MeetingResult) error
	SendDeleteIndexMeetingResult(ctx context.Context, data string) error
}

// UserLifecycleSender publishes user lifecycle events for dependent cleanup.
type UserLifecycleSender interface {
	SendUserDeleted(ctx context.Context, data models.UserDeletedMessage) error
}
