// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/infracouncil/council-portal-service/internal/domain"
	"github.com/infracouncil/council-portal-service/internal/domain/models"
	"github.com/infracouncil/council-portal-service/internal/logging"
	"github.com/infracouncil/council-portal-service/internal/service"
)

// PortalHandlers handles portal-related messages and events.
type PortalHandlers struct {
	userService     *service.UserService
	meetingService  *service.MeetingService
	proposalService *service.ProposalService
	liveViewService *service.LiveViewService
}

// NewPortalHandlers creates a new portal handlers instance.
func NewPortalHandlers(
	userService *service.UserService,
	meetingService *service.MeetingService,
	proposalService *service.ProposalService,
	liveViewService *service.LiveViewService,
) *PortalHandlers {
	return &PortalHandlers{
		userService:     userService,
		meetingService:  meetingService,
		proposalService: proposalService,
		liveViewService: liveViewService,
	}
}

func (h *PortalHandlers) HandlerReady() bool {
	return h.userService.ServiceReady() &&
		h.meetingService.ServiceReady() &&
		h.proposalService.ServiceReady() &&
		h.liveViewService.ServiceReady()
}

// HandleMessage implements domain.MessageHandler interface
func (h *PortalHandlers) HandleMessage(ctx context.Context, msg domain.Message) {
	subject := msg.Subject()
	ctx = logging.AppendCtx(ctx, slog.String("subject", subject))
	slog.DebugContext(ctx, "handling NATS message")

	var response []byte
	var err error

	handlers := map[string]func(ctx context.Context, msg domain.Message) ([]byte, error){
		models.UserGetNameSubject:         h.HandleUserGetName,
		models.MeetingGetTitleSubject:     h.HandleMeetingGetTitle,
		models.UserDeletedSubject:         h.HandleUserDeleted,
		models.ProposalsByProposerSubject: h.HandleProposalsByProposer,
		models.UpcomingMeetingsSubject:    h.HandleUpcomingMeetings,
		models.EligibleMeetingsSubject:    h.HandleEligibleMeetings,
		models.MemberListSubject:          h.HandleMemberList,
		models.ReviewQueueSubject:         h.HandleReviewQueue,
		models.MeetingRosterSubject:       h.HandleMeetingRoster,
	}

	handler, ok := handlers[subject]
	if !ok {
		slog.WarnContext(ctx, "unknown subject")
		if msg.HasReply() {
			err = msg.Respond(nil)
			if err != nil {
				slog.ErrorContext(ctx, "error responding to NATS message", logging.ErrKey, err)
			}
		}
		return
	}

	response, err = handler(ctx, msg)
	if err != nil {
		slog.ErrorContext(ctx, "error handling message",
			logging.ErrKey, err,
		)
		if msg.HasReply() {
			err = msg.Respond(nil)
			if err != nil {
				slog.ErrorContext(ctx, "error responding to NATS message", logging.ErrKey, err)
			}
		}
		return
	}

	if msg.HasReply() {
		err = msg.Respond(response)
		if err != nil {
			slog.ErrorContext(ctx, "error responding to NATS message", logging.ErrKey, err)
			return
		}
		slog.DebugContext(ctx, "responded to NATS message", "response", response)
	} else {
		slog.DebugContext(ctx, "handled NATS message (no reply expected)")
	}
}

// HandleUserGetName is the message handler for the user name lookup subject.
// The message data is a user UID; the reply is the user's display name.
func (h *PortalHandlers) HandleUserGetName(ctx context.Context, msg domain.Message) ([]byte, error) {
	if !h.userService.ServiceReady() {
		slog.ErrorContext(ctx, "NATS KV store not initialized")
		return nil, fmt.Errorf("NATS KV store not initialized")
	}

	userUID := string(msg.Data())
	ctx = logging.AppendCtx(ctx, slog.String("user_uid", userUID))

	// Validate that the user ID is a valid UUID.
	_, err := uuid.Parse(userUID)
	if err != nil {
		slog.ErrorContext(ctx, "error parsing user ID", logging.ErrKey, err)
		return nil, err
	}

	name, err := h.userService.GetUserName(ctx, userUID)
	if err != nil {
		slog.ErrorContext(ctx, "error getting user from NATS KV", logging.ErrKey, err)
		return nil, err
	}

	return []byte(name), nil
}

// HandleMeetingGetTitle is the message handler for the meeting title lookup
// subject. The message data is a meeting UID; the reply is the title.
func (h *PortalHandlers) HandleMeetingGetTitle(ctx context.Context, msg domain.Message) ([]byte, error) {
	if !h.meetingService.ServiceReady() {
		slog.ErrorContext(ctx, "NATS KV store not initialized")
		return nil, fmt.Errorf("NATS KV store not initialized")
	}

	meetingUID := string(msg.Data())
	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	// Validate that the meeting ID is a valid UUID.
	_, err := uuid.Parse(meetingUID)
	if err != nil {
		slog.ErrorContext(ctx, "error parsing meeting ID", logging.ErrKey, err)
		return nil, err
	}

	title, err := h.meetingService.GetMeetingTitle(ctx, meetingUID)
	if err != nil {
		slog.ErrorContext(ctx, "error getting meeting from NATS KV", logging.ErrKey, err)
		return nil, err
	}

	return []byte(title), nil
}

// HandleUserDeleted is the message handler for the user-deleted subject.
// It strips the deleted user's RSVPs from every meeting that has not finished.
func (h *PortalHandlers) HandleUserDeleted(ctx context.Context, msg domain.Message) ([]byte, error) {
	if !h.meetingService.ServiceReady() {
		slog.ErrorContext(ctx, "service not ready")
		return nil, fmt.Errorf("service not ready")
	}

	var userDeletedMsg models.UserDeletedMessage
	err := json.Unmarshal(msg.Data(), &userDeletedMsg)
	if err != nil {
		slog.ErrorContext(ctx, "error unmarshaling user deleted message", logging.ErrKey, err)
		return nil, err
	}

	if userDeletedMsg.UserUID == "" {
		slog.WarnContext(ctx, "user UID is empty in deletion message")
		return nil, fmt.Errorf("user UID is required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("user_uid", userDeletedMsg.UserUID))
	slog.InfoContext(ctx, "processing user deletion, cleaning up meeting RSVPs")

	err = h.meetingService.RemoveAttendee(ctx, userDeletedMsg.UserUID)
	if err != nil {
		slog.ErrorContext(ctx, "error removing deleted user from meetings", logging.ErrKey, err)
		return nil, err
	}

	return []byte("success"), nil
}
