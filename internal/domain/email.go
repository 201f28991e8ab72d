// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/infracouncil/council-portal-service/internal/domain/models"
)

// EmailService defines the interface for sending portal notification emails.
// Email failures never fail the mutation that triggered them; they are
// logged and dropped.
type EmailService interface {
	SendApprovalNotice(ctx context.Context, notice EmailApprovalNotice) error
	SendMeetingCancellation(ctx context.Context, cancellation EmailMeetingCancellation) error
}

// EmailApprovalNotice contains the data needed to notify a member that
// their registration was approved.
type EmailApprovalNotice struct {
	RecipientEmail string
	RecipientName  string
	Division       models.Division
}

// EmailMeetingCancellation contains the data needed to notify an attendee
// that a meeting was cancelled.
type EmailMeetingCancellation struct {
	RecipientEmail string
	RecipientName  string
	MeetingTitle   string
	StartDate      models.Date
	EndDate        models.Date
	Location       string
	Reason         string // optional
}
