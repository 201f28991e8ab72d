// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infracouncil/council-portal-service/internal/domain/models"
	"github.com/infracouncil/council-portal-service/pkg/constants"
)

// recordingConn captures published messages for inspection.
type recordingConn struct {
	connected    bool
	publishError error
	subjects     []string
	payloads     [][]byte
}

func (c *recordingConn) IsConnected() bool { return c.connected }

func (c *recordingConn) Publish(subj string, data []byte) error {
	if c.publishError != nil {
		return c.publishError
	}
	c.subjects = append(c.subjects, subj)
	c.payloads = append(c.payloads, data)
	return nil
}

func (c *recordingConn) lastMessage(t *testing.T) models.PortalIndexerMessage {
	t.Helper()
	require.NotEmpty(t, c.payloads)
	var message models.PortalIndexerMessage
	require.NoError(t, json.Unmarshal(c.payloads[len(c.payloads)-1], &message))
	return message
}

func TestMessageBuilder_SendIndexUser(t *testing.T) {
	conn := &recordingConn{connected: true}
	builder := NewMessageBuilder(conn)

	user := models.User{
		UID:      "user-1",
		Name:     "Taro Kasen",
		Email:    "taro@example.com",
		Division: models.DivisionTransport,
	}

	err := builder.SendIndexUser(context.Background(), models.ActionCreated, user)

	require.NoError(t, err)
	require.Equal(t, []string{models.IndexUserSubject}, conn.subjects)

	message := conn.lastMessage(t)
	assert.Equal(t, models.ActionCreated, message.Action)
	assert.Contains(t, message.Tags, "user_uid:user-1")

	data, ok := message.Data.(map[string]any)
	require.True(t, ok, "created payload should be an object")
	assert.Equal(t, "user-1", data["uid"])
	assert.Equal(t, "taro@example.com", data["email"])
}

func TestMessageBuilder_SendDeleteIndexUser(t *testing.T) {
	conn := &recordingConn{connected: true}
	builder := NewMessageBuilder(conn)

	err := builder.SendDeleteIndexUser(context.Background(), "user-1")

	require.NoError(t, err)
	message := conn.lastMessage(t)
	assert.Equal(t, models.ActionDeleted, message.Action)
	assert.Equal(t, "user-1", message.Data)
	assert.Empty(t, message.Tags)
}

func TestMessageBuilder_AuthorizationHeaders(t *testing.T) {
	t.Run("headers taken from context when present", func(t *testing.T) {
		conn := &recordingConn{connected: true}
		builder := NewMessageBuilder(conn)

		ctx := context.WithValue(context.Background(), constants.AuthorizationContextID, "Bearer token-abc")
		ctx = context.WithValue(ctx, constants.PrincipalContextID, "member@example.com")

		require.NoError(t, builder.SendIndexMeeting(ctx, models.ActionUpdated, models.Meeting{UID: "meeting-1"}))

		message := conn.lastMessage(t)
		assert.Equal(t, "Bearer token-abc", message.Headers[constants.AuthorizationHeader])
		assert.Equal(t, "member@example.com", message.Headers[constants.XOnBehalfOfHeader])
	})

	t.Run("fallback header for system events", func(t *testing.T) {
		conn := &recordingConn{connected: true}
		builder := NewMessageBuilder(conn)

		require.NoError(t, builder.SendIndexMeeting(context.Background(), models.ActionUpdated, models.Meeting{UID: "meeting-1"}))

		message := conn.lastMessage(t)
		assert.Equal(t, "Bearer portal-service", message.Headers[constants.AuthorizationHeader])
		assert.NotContains(t, message.Headers, constants.XOnBehalfOfHeader)
	})
}

func TestMessageBuilder_SendUserDeleted(t *testing.T) {
	conn := &recordingConn{connected: true}
	builder := NewMessageBuilder(conn)

	err := builder.SendUserDeleted(context.Background(), models.UserDeletedMessage{UserUID: "user-1"})

	require.NoError(t, err)
	require.Equal(t, []string{models.UserDeletedSubject}, conn.subjects)

	var event models.UserDeletedMessage
	require.NoError(t, json.Unmarshal(conn.payloads[0], &event))
	assert.Equal(t, "user-1", event.UserUID)
}

func TestMessageBuilder_PublishError(t *testing.T) {
	conn := &recordingConn{connected: true, publishError: errors.New("nats: connection closed")}
	builder := NewMessageBuilder(conn)

	err := builder.SendDeleteIndexProposal(context.Background(), "prop-1")

	assert.Error(t, err)
}
