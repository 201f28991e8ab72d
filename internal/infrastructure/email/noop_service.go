// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package email

import (
	"context"
	"log/slog"

	"github.com/infracouncil/council-portal-service/internal/domain"
	"github.com/infracouncil/council-portal-service/internal/logging"
)

// NoOpService is a no-operation email service that logs but doesn't send emails
type NoOpService struct{}

// NewNoOpService creates a new no-op email service
func NewNoOpService() *NoOpService {
	return &NoOpService{}
}

// SendApprovalNotice logs the notice but doesn't send an email
func (s *NoOpService) SendApprovalNotice(ctx context.Context, notice domain.EmailApprovalNotice) error {
	ctx = logging.AppendCtx(ctx, slog.String("recipient_email", notice.RecipientEmail))

	slog.DebugContext(ctx, "email service disabled, skipping approval notice email")
	return nil
}

// SendMeetingCancellation logs the cancellation but doesn't send an email
func (s *NoOpService) SendMeetingCancellation(ctx context.Context, cancellation domain.EmailMeetingCancellation) error {
	ctx = logging.AppendCtx(ctx, slog.String("recipient_email", cancellation.RecipientEmail))
	ctx = logging.AppendCtx(ctx, slog.String("meeting_title", cancellation.MeetingTitle))

	slog.DebugContext(ctx, "email service disabled, skipping cancellation email")
	return nil
}
