// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/infracouncil/council-portal-service/internal/domain"
	"github.com/infracouncil/council-portal-service/internal/logging"
)

// SMTPService implements the EmailService interface using SMTP
type SMTPService struct {
	config    SMTPConfig
	templates PortalTemplateManager
}

// SMTPConfig holds the SMTP server configuration
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Username string // Optional for authenticated SMTP
	Password string // Optional for authenticated SMTP
}

// NewSMTPService creates a new SMTP email service
func NewSMTPService(config SMTPConfig) (*SMTPService, error) {
	templates, err := NewTemplateManager()
	if err != nil {
		return nil, err
	}

	return &SMTPService{
		config:    config,
		templates: templates,
	}, nil
}

// SendApprovalNotice sends a registration approval email to a member
func (s *SMTPService) SendApprovalNotice(ctx context.Context, notice domain.EmailApprovalNotice) error {
	ctx = logging.AppendCtx(ctx, slog.String("recipient_email", notice.RecipientEmail))

	rendered, err := s.templates.RenderApprovalNotice(notice)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render approval notice", logging.ErrKey, err)
		return err
	}

	subject := "Your registration has been approved"
	message := composeNotice(notice.RecipientEmail, subject, rendered.HTML, rendered.Text, s.config)
	err = deliverNotice(notice.RecipientEmail, message, s.config)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send approval notice email", logging.ErrKey, err)
		return err
	}

	slog.InfoContext(ctx, "approval notice email sent successfully")
	return nil
}

// SendMeetingCancellation sends a cancellation email to a meeting attendee
func (s *SMTPService) SendMeetingCancellation(ctx context.Context, cancellation domain.EmailMeetingCancellation) error {
	ctx = logging.AppendCtx(ctx, slog.String("recipient_email", cancellation.RecipientEmail))
	ctx = logging.AppendCtx(ctx, slog.String("meeting_title", cancellation.MeetingTitle))

	rendered, err := s.templates.RenderMeetingCancellation(cancellation)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render cancellation notice", logging.ErrKey, err)
		return err
	}

	subject := fmt.Sprintf("Meeting Cancellation: %s", cancellation.MeetingTitle)
	message := composeNotice(cancellation.RecipientEmail, subject, rendered.HTML, rendered.Text, s.config)
	err = deliverNotice(cancellation.RecipientEmail, message, s.config)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send cancellation email", logging.ErrKey, err)
		return err
	}

	slog.InfoContext(ctx, "cancellation email sent successfully")
	return nil
}
