// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/infracouncil/council-portal-service/internal/domain"
	"github.com/infracouncil/council-portal-service/internal/domain/models"
	"github.com/infracouncil/council-portal-service/internal/logging"
	"github.com/infracouncil/council-portal-service/pkg/concurrent"
	"github.com/infracouncil/council-portal-service/pkg/utils"
)

// CreateMeetingRequest carries a new meeting.
type CreateMeetingRequest struct {
	Title     string
	Location  string
	StartDate models.Date
	EndDate   models.Date
}

// UpdateMeetingRequest carries edits to a meeting's basic fields. A date
// change regenerates the schedule, discarding session content.
type UpdateMeetingRequest struct {
	Title     string
	Location  string
	StartDate models.Date
	EndDate   models.Date
}

// MeetingService implements meeting scheduling, lifecycle, and RSVP.
type MeetingService struct {
	MeetingRepository domain.MeetingRepository
	UserRepository    domain.UserRepository
	MessageBuilder    domain.MeetingIndexSender
	EmailService      domain.EmailService
	Config            ServiceConfig
}

// NewMeetingService creates a new MeetingService.
func NewMeetingService(
	meetingRepository domain.MeetingRepository,
	userRepository domain.UserRepository,
	messageBuilder domain.MeetingIndexSender,
	emailService domain.EmailService,
	config ServiceConfig,
) *MeetingService {
	return &MeetingService{
		MeetingRepository: meetingRepository,
		UserRepository:    userRepository,
		MessageBuilder:    messageBuilder,
		EmailService:      emailService,
		Config:            config,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *MeetingService) ServiceReady() bool {
	return s.MeetingRepository != nil &&
		s.UserRepository != nil &&
		s.MessageBuilder != nil &&
		s.EmailService != nil
}

// Create schedules a new meeting with a generated day-per-date schedule,
// each day seeded with one empty default session.
func (s *MeetingService) Create(ctx context.Context, req CreateMeetingRequest) (*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("meeting service is not available")
	}

	schedule := models.NewSchedule(req.StartDate, req.EndDate)
	if schedule == nil {
		return nil, domain.NewValidationError("invalid meeting date range")
	}

	now := time.Now().UTC()
	meeting := &models.Meeting{
		UID:       uuid.New().String(),
		Title:     req.Title,
		Location:  req.Location,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    models.MeetingStatusUpcoming,
		Schedule:  schedule,
		CreatedAt: utils.TimePtr(now),
		UpdatedAt: utils.TimePtr(now),
	}

	if err := meeting.Validate(); err != nil {
		return nil, domain.NewValidationError("invalid meeting", err)
	}

	if err := s.MeetingRepository.Create(ctx, meeting); err != nil {
		return nil, err
	}

	if err := s.MessageBuilder.SendIndexMeeting(ctx, models.ActionCreated, *meeting); err != nil {
		slog.ErrorContext(ctx, "failed to send meeting index message", logging.ErrKey, err, "meeting_uid", meeting.UID)
	}

	slog.InfoContext(ctx, "created meeting", "meeting_uid", meeting.UID, "start_date", meeting.StartDate)
	return meeting, nil
}

// GetMeeting fetches one meeting.
func (s *MeetingService) GetMeeting(ctx context.Context, meetingUID string) (*models.Meeting, error) {
	if !s.ServiceReady() {
		return nil, domain.NewUnavailableError("meeting service is not available")
	}
	return s.MeetingRepository.Get(ctx, meetingUID)
}

// GetMeetingTitle resolves a meeting UID to its title.
func (s *MeetingService) GetMeetingTitle(ctx context.Context, meetingUID string) (string, error) {
	meeting, err := s.GetMeeting(ctx, meetingUID)
	if err != nil {
		return "", err
	}
	return meeting.Title, nil
}

// Update edits a meeting's basic fields. Changing either date regenerates
// the schedule for the new range; existing session content is discarded,
// which is the documented behavior of a date edit.
func (s *MeetingService) Update(ctx context.Context, meetingUID string, req UpdateMeetingRequest) (*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("meeting service is not available")
	}

	meeting, revision, err := s.MeetingRepository.GetWithRevision(ctx, meetingUID)
	if err != nil {
		return nil, err
	}

	datesChanged := !meeting.StartDate.Equal(req.StartDate) || !meeting.EndDate.Equal(req.EndDate)
	if datesChanged {
		schedule := models.NewSchedule(req.StartDate, req.EndDate)
		if schedule == nil {
			return nil, domain.NewValidationError("invalid meeting date range")
		}
		meeting.Schedule = schedule
	}

	meeting.Title = req.Title
	meeting.Location = req.Location
	meeting.StartDate = req.StartDate
	meeting.EndDate = req.EndDate
	meeting.UpdatedAt = utils.TimePtr(time.Now().UTC())

	if err := meeting.Validate(); err != nil {
		return nil, domain.NewValidationError("invalid meeting", err)
	}

	if err := s.MeetingRepository.Update(ctx, meeting, revision); err != nil {
		return nil, err
	}

	if err := s.MessageBuilder.SendIndexMeeting(ctx, models.ActionUpdated, *meeting); err != nil {
		slog.ErrorContext(ctx, "failed to send meeting index message", logging.ErrKey, err, "meeting_uid", meetingUID)
	}

	slog.InfoContext(ctx, "updated meeting", "meeting_uid", meetingUID, "dates_changed", datesChanged)
	return meeting, nil
}

// updateSchedule applies a structural schedule edit under the revision guard.
func (s *MeetingService) updateSchedule(ctx context.Context, meetingUID string, edit func(models.Schedule) (models.Schedule, error)) (*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("meeting service is not available")
	}

	meeting, revision, err := s.MeetingRepository.GetWithRevision(ctx, meetingUID)
	if err != nil {
		return nil, err
	}

	schedule, err := edit(meeting.Schedule)
	if err != nil {
		return nil, domain.NewValidationError("invalid schedule edit", err)
	}

	meeting.Schedule = schedule
	meeting.UpdatedAt = utils.TimePtr(time.Now().UTC())

	if err := s.MeetingRepository.Update(ctx, meeting, revision); err != nil {
		return nil, err
	}

	if err := s.MessageBuilder.SendIndexMeeting(ctx, models.ActionUpdated, *meeting); err != nil {
		slog.ErrorContext(ctx, "failed to send meeting index message", logging.ErrKey, err, "meeting_uid", meetingUID)
	}

	return meeting, nil
}

// AddSession appends a numbered session to one schedule day.
func (s *MeetingService) AddSession(ctx context.Context, meetingUID string, dayIndex int) (*models.Meeting, error) {
	return s.updateSchedule(ctx, meetingUID, func(schedule models.Schedule) (models.Schedule, error) {
		return schedule.WithSession(dayIndex)
	})
}

// AddScheduleItem appends an item to one session of one schedule day.
func (s *MeetingService) AddScheduleItem(ctx context.Context, meetingUID string, dayIndex, sessionIndex int, item models.ScheduleItem) (*models.Meeting, error) {
	return s.updateSchedule(ctx, meetingUID, func(schedule models.Schedule) (models.Schedule, error) {
		return schedule.WithItem(dayIndex, sessionIndex, item)
	})
}

// RenameSession renames one session of one schedule day.
func (s *MeetingService) RenameSession(ctx context.Context, meetingUID string, dayIndex, sessionIndex int, name string) (*models.Meeting, error) {
	return s.updateSchedule(ctx, meetingUID, func(schedule models.Schedule) (models.Schedule, error) {
		return schedule.WithSessionName(dayIndex, sessionIndex, name)
	})
}

// UpdateStatus moves a meeting through its lifecycle. The transition table
// is validated before any store write; no write happens on an invalid
// transition. Cancelling a meeting notifies its attendees by email, and
// notification failures never fail the cancellation.
func (s *MeetingService) UpdateStatus(ctx context.Context, meetingUID string, newStatus models.MeetingStatus, reason string) (*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("meeting service is not available")
	}

	if !newStatus.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("unknown meeting status '%s'", newStatus))
	}

	meeting, revision, err := s.MeetingRepository.GetWithRevision(ctx, meetingUID)
	if err != nil {
		return nil, err
	}

	if !meeting.Status.CanTransitionTo(newStatus) {
		return nil, domain.NewValidationError(
			fmt.Sprintf("meeting cannot move from '%s' to '%s'", meeting.Status, newStatus))
	}

	meeting.Status = newStatus
	meeting.UpdatedAt = utils.TimePtr(time.Now().UTC())

	if err := s.MeetingRepository.Update(ctx, meeting, revision); err != nil {
		return nil, err
	}

	if err := s.MessageBuilder.SendIndexMeeting(ctx, models.ActionUpdated, *meeting); err != nil {
		slog.ErrorContext(ctx, "failed to send meeting index message", logging.ErrKey, err, "meeting_uid", meetingUID)
	}

	if newStatus == models.MeetingStatusCancelled {
		s.notifyCancellation(ctx, meeting, reason)
	}

	slog.InfoContext(ctx, "updated meeting status", "meeting_uid", meetingUID, "status", newStatus)
	return meeting, nil
}

// notifyCancellation emails every attendee of a cancelled meeting. Sends
// run through the worker pool; individual failures are logged and dropped.
func (s *MeetingService) notifyCancellation(ctx context.Context, meeting *models.Meeting, reason string) {
	if len(meeting.Attendees) == 0 {
		return
	}

	var functions []func() error
	for _, uid := range meeting.Attendees {
		userUID := uid
		functions = append(functions, func() error {
			user, err := s.UserRepository.Get(ctx, userUID)
			if err != nil {
				// The attendee may have been removed since they responded.
				slog.WarnContext(ctx, "skipping cancellation notice for unknown attendee",
					logging.ErrKey, err, "user_uid", userUID)
				return nil
			}
			return s.EmailService.SendMeetingCancellation(ctx, domain.EmailMeetingCancellation{
				RecipientEmail: user.Email,
				RecipientName:  user.Name,
				MeetingTitle:   meeting.Title,
				StartDate:      meeting.StartDate,
				EndDate:        meeting.EndDate,
				Location:       meeting.Location,
				Reason:         reason,
			})
		})
	}

	pool := concurrent.NewWorkerPool(len(functions))
	errors := pool.RunAll(ctx, functions...)
	for _, err := range errors {
		slog.ErrorContext(ctx, "failed to send cancellation email", logging.ErrKey, err,
			"meeting_uid", meeting.UID)
	}
}

// ToggleRSVP flips one member's attendance on a meeting. The attendee set
// stays duplicate-free by construction, and the revision guard turns a
// concurrent double toggle into a conflict instead of a silent double add.
// Only meetings still on the calendar accept RSVP changes.
func (s *MeetingService) ToggleRSVP(ctx context.Context, meetingUID, userUID string) (*models.Meeting, bool, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, false, domain.NewUnavailableError("meeting service is not available")
	}

	if exists, err := s.UserRepository.Exists(ctx, userUID); err != nil {
		return nil, false, err
	} else if !exists {
		return nil, false, domain.NewNotFoundError(fmt.Sprintf("user '%s' not found", userUID))
	}

	meeting, revision, err := s.MeetingRepository.GetWithRevision(ctx, meetingUID)
	if err != nil {
		return nil, false, err
	}

	if meeting.Status != models.MeetingStatusUpcoming && meeting.Status != models.MeetingStatusPostponed {
		return nil, false, domain.NewValidationError(
			fmt.Sprintf("meeting in status '%s' does not accept attendance changes", meeting.Status))
	}

	attending := !meeting.HasAttendee(userUID)
	if attending {
		meeting.Attendees = meeting.WithAttendee(userUID)
	} else {
		meeting.Attendees = meeting.WithoutAttendee(userUID)
	}
	meeting.UpdatedAt = utils.TimePtr(time.Now().UTC())

	if err := s.MeetingRepository.Update(ctx, meeting, revision); err != nil {
		return nil, false, err
	}

	if err := s.MessageBuilder.SendIndexMeeting(ctx, models.ActionUpdated, *meeting); err != nil {
		slog.ErrorContext(ctx, "failed to send meeting index message", logging.ErrKey, err, "meeting_uid", meetingUID)
	}

	slog.InfoContext(ctx, "toggled RSVP", "meeting_uid", meetingUID, "user_uid", userUID, "attending", attending)
	return meeting, attending, nil
}

// MarkFinished flips a meeting to finished if its current status allows it.
// Used by the result publication saga.
func (s *MeetingService) MarkFinished(ctx context.Context, meetingUID string) (*models.Meeting, error) {
	meeting, err := s.GetMeeting(ctx, meetingUID)
	if err != nil {
		return nil, err
	}
	if meeting.Status == models.MeetingStatusFinished {
		return meeting, nil
	}
	return s.UpdateStatus(ctx, meetingUID, models.MeetingStatusFinished, "")
}

// Delete removes a meeting outright.
func (s *MeetingService) Delete(ctx context.Context, meetingUID string) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return domain.NewUnavailableError("meeting service is not available")
	}

	_, revision, err := s.MeetingRepository.GetWithRevision(ctx, meetingUID)
	if err != nil {
		return err
	}

	if err := s.MeetingRepository.Delete(ctx, meetingUID, revision); err != nil {
		return err
	}

	if err := s.MessageBuilder.SendDeleteIndexMeeting(ctx, meetingUID); err != nil {
		slog.ErrorContext(ctx, "failed to send meeting delete index message", logging.ErrKey, err, "meeting_uid", meetingUID)
	}

	slog.InfoContext(ctx, "deleted meeting", "meeting_uid", meetingUID)
	return nil
}

// RemoveAttendee strips one user from every meeting that has not finished.
// Meetings are updated concurrently through the worker pool; a conflict on
// one meeting does not stop the others. Finished meetings keep their
// historical attendee record.
func (s *MeetingService) RemoveAttendee(ctx context.Context, userUID string) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return domain.NewUnavailableError("meeting service is not available")
	}

	meetings, err := s.MeetingRepository.ListAll(ctx)
	if err != nil {
		return err
	}

	var functions []func() error
	for _, meeting := range meetings {
		if meeting.Status == models.MeetingStatusFinished || !meeting.HasAttendee(userUID) {
			continue
		}
		meetingUID := meeting.UID
		functions = append(functions, func() error {
			current, revision, err := s.MeetingRepository.GetWithRevision(ctx, meetingUID)
			if err != nil {
				return err
			}
			current.Attendees = current.WithoutAttendee(userUID)
			current.UpdatedAt = utils.TimePtr(time.Now().UTC())
			return s.MeetingRepository.Update(ctx, current, revision)
		})
	}

	if len(functions) == 0 {
		return nil
	}

	pool := concurrent.NewWorkerPool(10)
	errors := pool.RunAll(ctx, functions...)
	for _, err := range errors {
		slog.ErrorContext(ctx, "failed to remove attendee from meeting", logging.ErrKey, err, "user_uid", userUID)
	}

	slog.InfoContext(ctx, "removed attendee from open meetings", "user_uid", userUID, "meetings", len(functions))
	return nil
}
