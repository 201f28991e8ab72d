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
	"github.com/infracouncil/council-portal-service/internal/livesync"
	"github.com/infracouncil/council-portal-service/internal/logging"
)

// Handlers for the live derived views. Each view subject replies with the
// latest materialized state; the store is never read on the request path.

// HandleProposalsByProposer is the message handler for one member's
// proposal feed. The message data is the proposer's user UID; the reply is
// a JSON list of their submissions, newest first.
func (h *PortalHandlers) HandleProposalsByProposer(ctx context.Context, msg domain.Message) ([]byte, error) {
	if !h.proposalService.ServiceReady() {
		slog.ErrorContext(ctx, "NATS KV store not initialized")
		return nil, fmt.Errorf("NATS KV store not initialized")
	}

	proposerUID := string(msg.Data())
	ctx = logging.AppendCtx(ctx, slog.String("proposer_uid", proposerUID))

	// Validate that the proposer ID is a valid UUID.
	_, err := uuid.Parse(proposerUID)
	if err != nil {
		slog.ErrorContext(ctx, "error parsing proposer ID", logging.ErrKey, err)
		return nil, err
	}

	proposals, err := h.proposalService.ListByProposer(ctx, proposerUID)
	if err != nil {
		slog.ErrorContext(ctx, "error listing proposals from NATS KV", logging.ErrKey, err)
		return nil, err
	}

	return json.Marshal(proposals)
}

// HandleUpcomingMeetings is the message handler for the upcoming meeting
// calendar view. The reply is a JSON list of meetings, soonest first.
func (h *PortalHandlers) HandleUpcomingMeetings(ctx context.Context, msg domain.Message) ([]byte, error) {
	meetings, err := h.liveViewService.UpcomingMeetings()
	if err != nil {
		slog.ErrorContext(ctx, "error reading upcoming meetings view", logging.ErrKey, err)
		return nil, err
	}
	return json.Marshal(meetings)
}

// HandleEligibleMeetings is the message handler for the publish-eligibility
// view. The reply is a JSON list of meetings a result may be published for.
func (h *PortalHandlers) HandleEligibleMeetings(ctx context.Context, msg domain.Message) ([]byte, error) {
	meetings, err := h.liveViewService.EligibleMeetings()
	if err != nil {
		slog.ErrorContext(ctx, "error reading eligible meetings view", logging.ErrKey, err)
		return nil, err
	}
	return json.Marshal(meetings)
}

// HandleMemberList is the message handler for the admin member list view.
// The message data is a division filter; empty means every member.
func (h *PortalHandlers) HandleMemberList(ctx context.Context, msg domain.Message) ([]byte, error) {
	filter := livesync.DivisionFilter(msg.Data())
	if filter == "" {
		filter = livesync.FilterAll
	}
	ctx = logging.AppendCtx(ctx, slog.String("division_filter", string(filter)))

	users, err := h.liveViewService.Members(filter)
	if err != nil {
		slog.ErrorContext(ctx, "error reading member list view", logging.ErrKey, err)
		return nil, err
	}
	return json.Marshal(users)
}

// HandleReviewQueue is the message handler for the proposal review queue
// view. The message data is a division filter; empty means every proposal.
func (h *PortalHandlers) HandleReviewQueue(ctx context.Context, msg domain.Message) ([]byte, error) {
	filter := livesync.DivisionFilter(msg.Data())
	if filter == "" {
		filter = livesync.FilterAll
	}
	ctx = logging.AppendCtx(ctx, slog.String("division_filter", string(filter)))

	proposals, err := h.liveViewService.ReviewQueue(filter)
	if err != nil {
		slog.ErrorContext(ctx, "error reading review queue view", logging.ErrKey, err)
		return nil, err
	}
	return json.Marshal(proposals)
}

// HandleMeetingRoster is the message handler for the roster summary view.
// The message data is a meeting UID; the reply is the one-line summary.
func (h *PortalHandlers) HandleMeetingRoster(ctx context.Context, msg domain.Message) ([]byte, error) {
	meetingUID := string(msg.Data())
	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	// Validate that the meeting ID is a valid UUID.
	_, err := uuid.Parse(meetingUID)
	if err != nil {
		slog.ErrorContext(ctx, "error parsing meeting ID", logging.ErrKey, err)
		return nil, err
	}

	summary, err := h.liveViewService.RosterSummary(meetingUID)
	if err != nil {
		slog.ErrorContext(ctx, "error reading roster view", logging.ErrKey, err)
		return nil, err
	}
	return []byte(summary), nil
}
