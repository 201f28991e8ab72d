// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

// Package messaging publishes portal events to NATS: indexer messages for
// searchable entities and lifecycle events for dependent cleanup.
package messaging

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/go-viper/mapstructure/v2"

	"github.com/infracouncil/council-portal-service/internal/domain/models"
	"github.com/infracouncil/council-portal-service/internal/logging"
	"github.com/infracouncil/council-portal-service/pkg/constants"
)

// INatsConn is the NATS connection interface the message builder needs.
type INatsConn interface {
	IsConnected() bool
	Publish(subj string, data []byte) error
}

// MessageBuilder builds portal messages and sends them to the NATS server.
type MessageBuilder struct {
	NatsConn INatsConn
}

// NewMessageBuilder creates a new MessageBuilder.
func NewMessageBuilder(natsConn INatsConn) *MessageBuilder {
	return &MessageBuilder{
		NatsConn: natsConn,
	}
}

// sendMessage sends the message to the NATS server.
func (m *MessageBuilder) sendMessage(ctx context.Context, subject string, data []byte) error {
	err := m.NatsConn.Publish(subject, data)
	if err != nil {
		slog.ErrorContext(ctx, "error sending message to NATS", logging.ErrKey, err, "subject", subject)
		return err
	}
	slog.DebugContext(ctx, "sent message to NATS", "subject", subject)
	return nil
}

// sendIndexerMessage sends the message to the NATS server for the indexer.
func (m *MessageBuilder) sendIndexerMessage(ctx context.Context, subject string, action models.MessageAction, data []byte, tags []string) error {
	headers := make(map[string]string)
	if authorization, ok := ctx.Value(constants.AuthorizationContextID).(string); ok {
		headers[constants.AuthorizationHeader] = authorization
	} else {
		// Fallback for system-generated events that carry no user auth
		// context; the indexer requires an authorization header.
		headers[constants.AuthorizationHeader] = "Bearer portal-service"
	}
	if principal, ok := ctx.Value(constants.PrincipalContextID).(string); ok {
		headers[constants.XOnBehalfOfHeader] = principal
	}

	var payload any
	switch action {
	case models.ActionCreated, models.ActionUpdated:
		// The data should be a JSON object.
		var jsonData any
		if err := json.Unmarshal(data, &jsonData); err != nil {
			slog.ErrorContext(ctx, "error unmarshalling data into JSON", logging.ErrKey, err, "subject", subject)
			return err
		}

		// Decode into a map[string]any since that is what the indexer expects.
		config := mapstructure.DecoderConfig{
			TagName: "json",
			Result:  &payload,
		}
		decoder, err := mapstructure.NewDecoder(&config)
		if err != nil {
			slog.ErrorContext(ctx, "error creating decoder", logging.ErrKey, err, "subject", subject)
			return err
		}
		err = decoder.Decode(jsonData)
		if err != nil {
			slog.ErrorContext(ctx, "error decoding data", logging.ErrKey, err, "subject", subject)
			return err
		}
	case models.ActionDeleted:
		// The data should just be a string of the UID being deleted.
		payload = string(data)
	}

	message := models.PortalIndexerMessage{
		Action:  action,
		Headers: headers,
		Data:    payload,
		Tags:    tags,
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message into JSON", logging.ErrKey, err, "subject", subject)
		return err
	}

	slog.DebugContext(ctx, "constructed indexer message",
		"subject", subject,
		"action", action,
		"tags_count", len(tags),
	)

	return m.sendMessage(ctx, subject, messageBytes)
}

// SendIndexUser sends the message to the NATS server for the user indexing.
func (m *MessageBuilder) SendIndexUser(ctx context.Context, action models.MessageAction, data models.User) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err)
		return err
	}

	return m.sendIndexerMessage(ctx, models.IndexUserSubject, action, dataBytes, data.Tags())
}

// SendDeleteIndexUser sends the message to the NATS server for the user index removal.
func (m *MessageBuilder) SendDeleteIndexUser(ctx context.Context, data string) error {
	return m.sendIndexerMessage(ctx, models.IndexUserSubject, models.ActionDeleted, []byte(data), nil)
}

// SendIndexProposal sends the message to the NATS server for the proposal indexing.
func (m *MessageBuilder) SendIndexProposal(ctx context.Context, action models.MessageAction, data models.Proposal) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err)
		return err
	}

	return m.sendIndexerMessage(ctx, models.IndexProposalSubject, action, dataBytes, data.Tags())
}

// SendDeleteIndexProposal sends the message to the NATS server for the proposal index removal.
func (m *MessageBuilder) SendDeleteIndexProposal(ctx context.Context, data string) error {
	return m.sendIndexerMessage(ctx, models.IndexProposalSubject, models.ActionDeleted, []byte(data), nil)
}

// SendIndexMeeting sends the message to the NATS server for the meeting indexing.
func (m *MessageBuilder) SendIndexMeeting(ctx context.Context, action models.MessageAction, data models.Meeting) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err)
		return err
	}

	return m.sendIndexerMessage(ctx, models.IndexMeetingSubject, action, dataBytes, data.Tags())
}

// SendDeleteIndexMeeting sends the message to the NATS server for the meeting index removal.
func (m *MessageBuilder) SendDeleteIndexMeeting(ctx context.Context, data string) error {
	return m.sendIndexerMessage(ctx, models.IndexMeetingSubject, models.ActionDeleted, []byte(data), nil)
}

// SendIndexMeetingResult sends the message to the NATS server for the meeting result indexing.
func (m *MessageBuilder) SendIndexMeetingResult(ctx context.Context, action models.MessageAction, data models.MeetingResult) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err)
		return err
	}

	return m.sendIndexerMessage(ctx, models.IndexMeetingResultSubject, action, dataBytes, data.Tags())
}

// SendDeleteIndexMeetingResult sends the message to the NATS server for the meeting result index removal.
func (m *MessageBuilder) SendDeleteIndexMeetingResult(ctx context.Context, data string) error {
	return m.sendIndexerMessage(ctx, models.IndexMeetingResultSubject, models.ActionDeleted, []byte(data), nil)
}

// SendUserDeleted publishes a user deletion event so dependent records can
// be cleaned up (e.g. RSVPs on meetings that have not finished).
func (m *MessageBuilder) SendUserDeleted(ctx context.Context, data models.UserDeletedMessage) error {
	messageBytes, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err)
		return err
	}

	return m.sendMessage(ctx, models.UserDeletedSubject, messageBytes)
}
