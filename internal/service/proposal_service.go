// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/infracouncil/council-portal-service/internal/domain"
	"github.com/infracouncil/council-portal-service/internal/domain/models"
	"github.com/infracouncil/council-portal-service/internal/livesync"
	"github.com/infracouncil/council-portal-service/internal/logging"
	"github.com/infracouncil/council-portal-service/pkg/utils"
)

// SubmitProposalRequest carries an agenda proposal submission.
type SubmitProposalRequest struct {
	Title       string
	Background  string
	Content     string
	Effects     string
	ProposerUID string
}

// ProposalService implements agenda proposal submission and evaluation.
type ProposalService struct {
	ProposalRepository domain.ProposalRepository
	UserRepository     domain.UserRepository
	MessageBuilder     domain.ProposalIndexSender
	Config             ServiceConfig
}

// NewProposalService creates a new ProposalService.
func NewProposalService(
	proposalRepository domain.ProposalRepository,
	userRepository domain.UserRepository,
	messageBuilder domain.ProposalIndexSender,
	config ServiceConfig,
) *ProposalService {
	return &ProposalService{
		ProposalRepository: proposalRepository,
		UserRepository:     userRepository,
		MessageBuilder:     messageBuilder,
		Config:             config,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *ProposalService) ServiceReady() bool {
	return s.ProposalRepository != nil &&
		s.UserRepository != nil &&
		s.MessageBuilder != nil
}

// Submit creates a pending proposal. The proposer must be an approved
// member; their name and division are denormalized onto the proposal at
// submission time and do not follow later profile edits.
func (s *ProposalService) Submit(ctx context.Context, req SubmitProposalRequest) (*models.Proposal, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("proposal service is not available")
	}

	if req.Title == "" {
		return nil, domain.NewValidationError("proposal title is required")
	}
	if req.Content == "" {
		return nil, domain.NewValidationError("proposal content is required")
	}
	if req.ProposerUID == "" {
		return nil, domain.NewValidationError("proposer is required")
	}

	proposer, err := s.UserRepository.Get(ctx, req.ProposerUID)
	if err != nil {
		return nil, err
	}
	if !proposer.Approved {
		return nil, domain.NewValidationError("only approved members can submit proposals")
	}

	now := time.Now().UTC()
	proposal := &models.Proposal{
		UID:          uuid.New().String(),
		Title:        req.Title,
		Background:   req.Background,
		Content:      req.Content,
		Effects:      req.Effects,
		ProposerUID:  proposer.UID,
		ProposerName: proposer.Name,
		Division:     proposer.Division,
		Status:       models.ProposalStatusPending,
		CreatedAt:    utils.TimePtr(now),
		UpdatedAt:    utils.TimePtr(now),
	}

	if err := s.ProposalRepository.Create(ctx, proposal); err != nil {
		return nil, err
	}

	if err := s.MessageBuilder.SendIndexProposal(ctx, models.ActionCreated, *proposal); err != nil {
		slog.ErrorContext(ctx, "failed to send proposal index message", logging.ErrKey, err, "proposal_uid", proposal.UID)
	}

	slog.InfoContext(ctx, "submitted proposal", "proposal_uid", proposal.UID, "proposer_uid", proposer.UID)
	return proposal, nil
}

// GetProposal fetches one proposal.
func (s *ProposalService) GetProposal(ctx context.Context, proposalUID string) (*models.Proposal, error) {
	if !s.ServiceReady() {
		return nil, domain.NewUnavailableError("proposal service is not available")
	}
	return s.ProposalRepository.Get(ctx, proposalUID)
}

// ListByProposer returns one member's submissions, newest first. This is
// the point-in-time read behind the member feed; the live review queue is
// served by the view service instead.
func (s *ProposalService) ListByProposer(ctx context.Context, proposerUID string) ([]*models.Proposal, error) {
	if !s.ServiceReady() {
		return nil, domain.NewUnavailableError("proposal service is not available")
	}

	proposals, err := s.ProposalRepository.ListByProposer(ctx, proposerUID)
	if err != nil {
		return nil, err
	}
	return livesync.SortProposalsByCreated(proposals), nil
}

// Evaluate records a rubric evaluation and recomputes the score and status
// from scratch. Re-evaluating an already scored proposal replaces the
// previous evaluation entirely; nothing from the old scores survives.
func (s *ProposalService) Evaluate(ctx context.Context, proposalUID string, evaluation models.Evaluation) (*models.Proposal, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("proposal service is not available")
	}

	if err := evaluation.Validate(); err != nil {
		return nil, domain.NewValidationError("invalid evaluation", err)
	}

	proposal, revision, err := s.ProposalRepository.GetWithRevision(ctx, proposalUID)
	if err != nil {
		return nil, err
	}

	score := evaluation.TotalScore()
	proposal.Evaluation = &evaluation
	proposal.Score = utils.IntPtr(score)
	proposal.Status = models.StatusForScore(score)
	proposal.UpdatedAt = utils.TimePtr(time.Now().UTC())

	if err := s.ProposalRepository.Update(ctx, proposal, revision); err != nil {
		return nil, err
	}

	if err := s.MessageBuilder.SendIndexProposal(ctx, models.ActionUpdated, *proposal); err != nil {
		slog.ErrorContext(ctx, "failed to send proposal index message", logging.ErrKey, err, "proposal_uid", proposalUID)
	}

	slog.InfoContext(ctx, "evaluated proposal",
		"proposal_uid", proposalUID, "score", score, "status", proposal.Status)
	return proposal, nil
}

// Delete removes a proposal.
func (s *ProposalService) Delete(ctx context.Context, proposalUID string) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return domain.NewUnavailableError("proposal service is not available")
	}

	_, revision, err := s.ProposalRepository.GetWithRevision(ctx, proposalUID)
	if err != nil {
		return err
	}

	if err := s.ProposalRepository.Delete(ctx, proposalUID, revision); err != nil {
		return err
	}

	if err := s.MessageBuilder.SendDeleteIndexProposal(ctx, proposalUID); err != nil {
		slog.ErrorContext(ctx, "failed to send proposal delete index message", logging.ErrKey, err, "proposal_uid", proposalUID)
	}

	slog.InfoContext(ctx, "deleted proposal", "proposal_uid", proposalUID)
	return nil
}
