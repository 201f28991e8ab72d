// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package messaging

import (
	"github.com/nats-io/nats.go"
)

// NatsMessage adapts a *nats.Msg to the domain.Message interface.
type NatsMessage struct {
	msg *nats.Msg
}

// NewNatsMessage wraps an incoming NATS message.
func NewNatsMessage(msg *nats.Msg) *NatsMessage {
	return &NatsMessage{msg: msg}
}

// Subject returns the subject the message arrived on.
func (m *NatsMessage) Subject() string {
	return m.msg.Subject
}

// Data returns the message payload.
func (m *NatsMessage) Data() []byte {
	return m.msg.Data
}

// Respond replies on the message's reply subject.
func (m *NatsMessage) Respond(data []byte) error {
	return m.msg.Respond(data)
}

// HasReply reports whether the sender expects a reply.
func (m *NatsMessage) HasReply() bool {
	return m.msg.Reply != ""
}
