// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/infracouncil/council-portal-service/internal/domain"
	"github.com/infracouncil/council-portal-service/internal/domain/models"
	"github.com/infracouncil/council-portal-service/internal/logging"
	"github.com/infracouncil/council-portal-service/pkg/utils"
)

// PublishResultRequest carries a minutes publication for a meeting.
type PublishResultRequest struct {
	MeetingUID string
	Discussion string
	Attendees  []string // user UIDs present at the meeting
	Image      io.Reader
}

// EditResultRequest carries edits to published minutes.
type EditResultRequest struct {
	Discussion string
	Attendees  []string
	Image      io.Reader
}

// PublishOutcome reports the saga result. The result record always exists
// on success; MeetingErr is set when the follow-up status flip failed and
// was accepted as partial success.
type PublishOutcome struct {
	Result          *models.MeetingResult
	MeetingFinished bool
	MeetingErr      error
}

// MeetingResultService implements meeting minutes publication.
type MeetingResultService struct {
	ResultRepository  domain.MeetingResultRepository
	MeetingRepository domain.MeetingRepository
	UserRepository    domain.UserRepository
	MeetingService    *MeetingService
	ObjectStore       domain.ObjectStore
	MessageBuilder    domain.MeetingResultIndexSender
	Config            ServiceConfig
}

// NewMeetingResultService creates a new MeetingResultService.
func NewMeetingResultService(
	resultRepository domain.MeetingResultRepository,
	meetingRepository domain.MeetingRepository,
	userRepository domain.UserRepository,
	meetingService *MeetingService,
	objectStore domain.ObjectStore,
	messageBuilder domain.MeetingResultIndexSender,
	config ServiceConfig,
) *MeetingResultService {
	return &MeetingResultService{
		ResultRepository:  resultRepository,
		MeetingRepository: meetingRepository,
		UserRepository:    userRepository,
		MeetingService:    meetingService,
		ObjectStore:       objectStore,
		MessageBuilder:    messageBuilder,
		Config:            config,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *MeetingResultService) ServiceReady() bool {
	return s.ResultRepository != nil &&
		s.MeetingRepository != nil &&
		s.UserRepository != nil &&
		s.MeetingService != nil &&
		s.ObjectStore != nil &&
		s.MessageBuilder != nil
}

// snapshotAttendees freezes name, affiliation, and division for each
// attendee UID. Minutes must keep rendering the roster even after a member
// leaves, so the snapshot, not the live user record, is authoritative.
// Unknown UIDs are kept with no detail rather than dropped.
func (s *MeetingResultService) snapshotAttendees(ctx context.Context, uids []string) []models.AttendeeSnapshot {
	snapshots := make([]models.AttendeeSnapshot, 0, len(uids))
	for _, uid := range uids {
		user, err := s.UserRepository.Get(ctx, uid)
		if err != nil {
			slog.WarnContext(ctx, "attendee not found for snapshot", logging.ErrKey, err, "user_uid", uid)
			snapshots = append(snapshots, models.AttendeeSnapshot{UID: uid})
			continue
		}
		snapshots = append(snapshots, models.AttendeeSnapshot{
			UID:         user.UID,
			Name:        user.Name,
			Affiliation: user.Affiliation,
			Division:    user.Division,
		})
	}
	return snapshots
}

// storeImage uploads a result image and returns the public URL. The object
// name is the result UID, so an edit overwrites the previous image and a
// delete can find it without any bookkeeping.
func (s *MeetingResultService) storeImage(ctx context.Context, resultUID string, image io.Reader) (string, error) {
	ref, err := s.ObjectStore.Put(ctx, resultUID, image)
	if err != nil {
		return "", err
	}
	return s.ObjectStore.PublicURL(ref), nil
}

// Publish records meeting minutes and then flips the meeting to finished.
// The two writes are deliberately not atomic: once the result exists it is
// never rolled back, and a failed status flip is reported on the outcome
// instead of failing the publication.
func (s *MeetingResultService) Publish(ctx context.Context, req PublishResultRequest) (*PublishOutcome, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("meeting result service is not available")
	}

	if req.Discussion == "" {
		return nil, domain.NewValidationError("discussion summary is required")
	}

	meeting, err := s.MeetingRepository.Get(ctx, req.MeetingUID)
	if err != nil {
		return nil, err
	}
	if meeting.Status == models.MeetingStatusCancelled {
		return nil, domain.NewValidationError("cancelled meetings cannot have minutes published")
	}

	existing, err := s.ResultRepository.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range existing {
		if r.MeetingUID == req.MeetingUID {
			return nil, domain.NewConflictError(fmt.Sprintf("meeting '%s' already has published minutes", req.MeetingUID))
		}
	}

	resultUID := uuid.New().String()

	var imageURL string
	if req.Image != nil {
		imageURL, err = s.storeImage(ctx, resultUID, req.Image)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	result := &models.MeetingResult{
		UID:             resultUID,
		MeetingUID:      meeting.UID,
		MeetingTitle:    meeting.Title,
		MeetingDate:     meeting.StartDate,
		MeetingLocation: meeting.Location,
		Discussion:      req.Discussion,
		ImageURL:        imageURL,
		Attendees:       req.Attendees,
		AttendeesData:   s.snapshotAttendees(ctx, req.Attendees),
		CreatedAt:       utils.TimePtr(now),
		UpdatedAt:       utils.TimePtr(now),
	}

	if err := s.ResultRepository.Create(ctx, result); err != nil {
		return nil, err
	}

	if err := s.MessageBuilder.SendIndexMeetingResult(ctx, models.ActionCreated, *result); err != nil {
		slog.ErrorContext(ctx, "failed to send result index message", logging.ErrKey, err, "result_uid", resultUID)
	}

	outcome := &PublishOutcome{Result: result, MeetingFinished: true}
	if _, err := s.MeetingService.MarkFinished(ctx, meeting.UID); err != nil {
		slog.ErrorContext(ctx, "minutes recorded but meeting status update failed",
			logging.ErrKey, err, "meeting_uid", meeting.UID, "result_uid", resultUID)
		outcome.MeetingFinished = false
		outcome.MeetingErr = err
	}

	slog.InfoContext(ctx, "published meeting minutes",
		"result_uid", resultUID, "meeting_uid", meeting.UID, "meeting_finished", outcome.MeetingFinished)
	return outcome, nil
}

// GetResult fetches one result.
func (s *MeetingResultService) GetResult(ctx context.Context, resultUID string) (*models.MeetingResult, error) {
	if !s.ServiceReady() {
		return nil, domain.NewUnavailableError("meeting result service is not available")
	}
	return s.ResultRepository.Get(ctx, resultUID)
}

// Edit updates published minutes. The attendee snapshot is rebuilt from the
// current user records for the new attendee list.
func (s *MeetingResultService) Edit(ctx context.Context, resultUID string, req EditResultRequest) (*models.MeetingResult, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("meeting result service is not available")
	}

	if req.Discussion == "" {
		return nil, domain.NewValidationError("discussion summary is required")
	}

	result, revision, err := s.ResultRepository.GetWithRevision(ctx, resultUID)
	if err != nil {
		return nil, err
	}

	if req.Image != nil {
		imageURL, err := s.storeImage(ctx, resultUID, req.Image)
		if err != nil {
			return nil, err
		}
		result.ImageURL = imageURL
	}

	result.Discussion = req.Discussion
	result.Attendees = req.Attendees
	result.AttendeesData = s.snapshotAttendees(ctx, req.Attendees)
	result.UpdatedAt = utils.TimePtr(time.Now().UTC())

	if err := s.ResultRepository.Update(ctx, result, revision); err != nil {
		return nil, err
	}

	if err := s.MessageBuilder.SendIndexMeetingResult(ctx, models.ActionUpdated, *result); err != nil {
		slog.ErrorContext(ctx, "failed to send result index message", logging.ErrKey, err, "result_uid", resultUID)
	}

	slog.InfoContext(ctx, "edited meeting minutes", "result_uid", resultUID)
	return result, nil
}

// Delete removes published minutes. The source meeting becomes eligible
// for publication again through the view-level join; nothing is written to
// the meeting record.
func (s *MeetingResultService) Delete(ctx context.Context, resultUID string) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return domain.NewUnavailableError("meeting result service is not available")
	}

	result, revision, err := s.ResultRepository.GetWithRevision(ctx, resultUID)
	if err != nil {
		return err
	}

	if err := s.ResultRepository.Delete(ctx, resultUID, revision); err != nil {
		return err
	}

	if result.ImageURL != "" {
		// Best effort; an orphaned image never blocks the deletion.
		if err := s.ObjectStore.Delete(ctx, resultUID); err != nil {
			slog.WarnContext(ctx, "failed to delete result image", logging.ErrKey, err, "result_uid", resultUID)
		}
	}

	if err := s.MessageBuilder.SendDeleteIndexMeetingResult(ctx, resultUID); err != nil {
		slog.ErrorContext(ctx, "failed to send result delete index message", logging.ErrKey, err, "result_uid", resultUID)
	}

	slog.InfoContext(ctx, "deleted meeting minutes", "result_uid", resultUID)
	return nil
}
