// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/infracouncil/council-portal-service/internal/domain"
	"github.com/infracouncil/council-portal-service/internal/domain/models"
	"github.com/infracouncil/council-portal-service/internal/logging"
	"github.com/infracouncil/council-portal-service/pkg/constants"
	"github.com/infracouncil/council-portal-service/pkg/utils"
)

// SessionState classifies a signed-in principal for the client.
type SessionState string

const (
	// SessionStateActive means the user exists and is approved.
	SessionStateActive SessionState = "active"
	// SessionStatePendingApproval means the user exists but awaits approval.
	SessionStatePendingApproval SessionState = "pending_approval"
	// SessionStateUnknown means no user record exists for the principal.
	SessionStateUnknown SessionState = "unknown"
)

// RegisterUserRequest carries a registration submission. The password pair
// is validated here and handed to the identity provider; it is never stored
// on the user record.
type RegisterUserRequest struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
	Phone           string
	CompanyPhone    string
	Affiliation     string
	Division        models.Division
	Expertise       []string
	Consent         bool
}

// UserService implements member registration, approval, and removal.
type UserService struct {
	UserRepository  domain.UserRepository
	MessageBuilder  domain.UserIndexSender
	LifecycleSender domain.UserLifecycleSender
	EmailService    domain.EmailService
	Config          ServiceConfig
}

// NewUserService creates a new UserService.
func NewUserService(
	userRepository domain.UserRepository,
	messageBuilder domain.UserIndexSender,
	lifecycleSender domain.UserLifecycleSender,
	emailService domain.EmailService,
	config ServiceConfig,
) *UserService {
	return &UserService{
		UserRepository:  userRepository,
		MessageBuilder:  messageBuilder,
		LifecycleSender: lifecycleSender,
		EmailService:    emailService,
		Config:          config,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *UserService) ServiceReady() bool {
	return s.UserRepository != nil &&
		s.MessageBuilder != nil &&
		s.LifecycleSender != nil &&
		s.EmailService != nil
}

func (s *UserService) validateRegistration(req RegisterUserRequest) error {
	if req.Name == "" {
		return domain.NewValidationError("name is required")
	}
	if req.Email == "" {
		return domain.NewValidationError("email is required")
	}
	if req.Affiliation == "" {
		return domain.NewValidationError("affiliation is required")
	}
	if len(req.Password) < constants.MinPasswordLength {
		return domain.NewValidationError(fmt.Sprintf("password must be at least %d characters", constants.MinPasswordLength))
	}
	if req.Password != req.PasswordConfirm {
		return domain.NewValidationError("passwords do not match")
	}
	if !req.Division.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("unknown division '%s'", req.Division))
	}
	if len(req.Expertise) == 0 {
		return domain.NewValidationError("at least one expertise area is required")
	}
	catalog := models.ExpertiseCatalog(req.Division)
	for _, area := range req.Expertise {
		if !slices.Contains(catalog, area) {
			return domain.NewValidationError(fmt.Sprintf("expertise '%s' is not in the %s division catalog", area, req.Division))
		}
	}
	if !req.Consent {
		return domain.NewValidationError("consent to the data handling policy is required")
	}
	return nil
}

// Register validates a registration submission and creates an unapproved
// user record. The email address must not already be registered.
func (s *UserService) Register(ctx context.Context, req RegisterUserRequest) (*models.User, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("user service is not available")
	}

	if err := s.validateRegistration(req); err != nil {
		return nil, err
	}

	if existing, err := s.UserRepository.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, domain.NewConflictError(fmt.Sprintf("email '%s' is already registered", req.Email))
	} else if err != nil && domain.GetErrorType(err) != domain.ErrorTypeNotFound {
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		UID:          uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		CompanyPhone: req.CompanyPhone,
		Affiliation:  req.Affiliation,
		Division:     req.Division,
		Expertise:    req.Expertise,
		Approved:     false,
		CreatedAt:    utils.TimePtr(now),
	}

	if err := s.UserRepository.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.MessageBuilder.SendIndexUser(ctx, models.ActionCreated, *user); err != nil {
		slog.ErrorContext(ctx, "failed to send user index message", logging.ErrKey, err, "user_uid", user.UID)
	}

	slog.InfoContext(ctx, "registered user", "user_uid", user.UID, "division", user.Division)
	return user, nil
}

// GetUser fetches one user.
func (s *UserService) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	if !s.ServiceReady() {
		return nil, domain.NewUnavailableError("user service is not available")
	}
	return s.UserRepository.Get(ctx, userUID)
}

// GetUserName resolves a user UID to a display name.
func (s *UserService) GetUserName(ctx context.Context, userUID string) (string, error) {
	user, err := s.GetUser(ctx, userUID)
	if err != nil {
		return "", err
	}
	return user.Name, nil
}

// SessionState classifies the principal's record: approved users are
// active, existing unapproved users are pending, and a missing record is
// unknown. There is no timing heuristic; the store answer decides.
func (s *UserService) SessionState(ctx context.Context, userUID string) (SessionState, error) {
	if !s.ServiceReady() {
		return SessionStateUnknown, domain.NewUnavailableError("user service is not available")
	}

	user, err := s.UserRepository.Get(ctx, userUID)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			return SessionStateUnknown, nil
		}
		return SessionStateUnknown, err
	}

	if user.Approved {
		return SessionStateActive, nil
	}
	return SessionStatePendingApproval, nil
}

// Approve marks a user as approved. Approval is one-way: approving an
// already approved user is a no-op. The member is notified by email on the
// first approval; a notification failure never fails the approval.
func (s *UserService) Approve(ctx context.Context, userUID string) (*models.User, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("user service is not available")
	}

	user, revision, err := s.UserRepository.GetWithRevision(ctx, userUID)
	if err != nil {
		return nil, err
	}

	if user.Approved {
		slog.DebugContext(ctx, "user already approved", "user_uid", userUID)
		return user, nil
	}

	user.Approved = true
	if err := s.UserRepository.Update(ctx, user, revision); err != nil {
		return nil, err
	}

	if err := s.MessageBuilder.SendIndexUser(ctx, models.ActionUpdated, *user); err != nil {
		slog.ErrorContext(ctx, "failed to send user index message", logging.ErrKey, err, "user_uid", userUID)
	}

	if err := s.EmailService.SendApprovalNotice(ctx, domain.EmailApprovalNotice{
		RecipientEmail: user.Email,
		RecipientName:  user.Name,
		Division:       user.Division,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send approval notice email", logging.ErrKey, err, "user_uid", userUID)
	}

	slog.InfoContext(ctx, "approved user", "user_uid", userUID)
	return user, nil
}

// Remove hard-deletes a user record. Used both to reject a registration and
// to withdraw an approved member. The caller must confirm by passing the
// user's UID as the confirmation value; the deletion itself is irreversible.
// A user-deleted event is published so dependent records (meeting RSVPs)
// are cleaned up.
func (s *UserService) Remove(ctx context.Context, userUID, confirmation string) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return domain.NewUnavailableError("user service is not available")
	}

	if confirmation != userUID {
		return domain.NewValidationError("removal requires confirmation with the user's UID")
	}

	user, revision, err := s.UserRepository.GetWithRevision(ctx, userUID)
	if err != nil {
		return err
	}

	if err := s.UserRepository.Delete(ctx, userUID, revision); err != nil {
		return err
	}

	if err := s.MessageBuilder.SendDeleteIndexUser(ctx, userUID); err != nil {
		slog.ErrorContext(ctx, "failed to send user delete index message", logging.ErrKey, err, "user_uid", userUID)
	}

	if err := s.LifecycleSender.SendUserDeleted(ctx, models.UserDeletedMessage{UserUID: userUID}); err != nil {
		slog.ErrorContext(ctx, "failed to send user deleted event", logging.ErrKey, err, "user_uid", userUID)
	}

	slog.InfoContext(ctx, "removed user", "user_uid", userUID, "was_approved", user.Approved)
	return nil
}
