// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/infracouncil/council-portal-service/internal/domain"
	"github.com/infracouncil/council-portal-service/internal/domain/models"
	"github.com/infracouncil/council-portal-service/pkg/utils"
)

func newProposalService() (*ProposalService, *domain.MockProposalRepository, *domain.MockUserRepository, *domain.MockMessageBuilder) {
	proposals := new(domain.MockProposalRepository)
	users := new(domain.MockUserRepository)
	builder := new(domain.MockMessageBuilder)
	svc := NewProposalService(proposals, users, builder, ServiceConfig{})
	return svc, proposals, users, builder
}

func TestProposalService_Submit(t *testing.T) {
	ctx := context.Background()

	req := SubmitProposalRequest{
		Title:       "Aging road bridge renewal program",
		Background:  "Many bridges exceed fifty years of service.",
		Content:     "Survey and prioritize bridge renewals across the region.",
		Effects:     "Reduced closure risk.",
		ProposerUID: "user-1",
	}

	t.Run("denormalizes proposer data", func(t *testing.T) {
		svc, proposals, users, builder := newProposalService()
		users.On("Get", mock.Anything, "user-1").Return(&models.User{
			UID:      "user-1",
			Name:     "Taro Kasen",
			Division: models.DivisionTransport,
			Approved: true,
		}, nil)
		proposals.On("Create", mock.Anything, mock.AnythingOfType("*models.Proposal")).Return(nil)
		builder.On("SendIndexProposal", mock.Anything, models.ActionCreated, mock.AnythingOfType("models.Proposal")).Return(nil)

		proposal, err := svc.Submit(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, models.ProposalStatusPending, proposal.Status)
		assert.Equal(t, "Taro Kasen", proposal.ProposerName)
		assert.Equal(t, models.DivisionTransport, proposal.Division)
		assert.Nil(t, proposal.Score)
		assert.Nil(t, proposal.Evaluation)
		proposals.AssertExpectations(t)
	})

	t.Run("unapproved proposer refused", func(t *testing.T) {
		svc, proposals, users, _ := newProposalService()
		users.On("Get", mock.Anything, "user-1").Return(&models.User{UID: "user-1", Approved: false}, nil)

		_, err := svc.Submit(ctx, req)

		assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
		proposals.AssertNotCalled(t, "Create")
	})

	t.Run("missing title refused", func(t *testing.T) {
		svc, _, _, _ := newProposalService()
		bad := req
		bad.Title = ""

		_, err := svc.Submit(ctx, bad)

		assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
	})
}

func TestProposalService_Evaluate(t *testing.T) {
	ctx := context.Background()

	t.Run("scores and sets status", func(t *testing.T) {
		svc, proposals, _, builder := newProposalService()
		pending := &models.Proposal{UID: "prop-1", Status: models.ProposalStatusPending}
		proposals.On("GetWithRevision", mock.Anything, "prop-1").Return(pending, uint64(1), nil)
		proposals.On("Update", mock.Anything, mock.AnythingOfType("*models.Proposal"), uint64(1)).Return(nil)
		builder.On("SendIndexProposal", mock.Anything, models.ActionUpdated, mock.AnythingOfType("models.Proposal")).Return(nil)

		evaluation := models.Evaluation{Alignment: 5, Feasibility: 4, Urgency: 3, Impact: 4}
		proposal, err := svc.Evaluate(ctx, "prop-1", evaluation)

		require.NoError(t, err)
		require.NotNil(t, proposal.Score)
		assert.Equal(t, 80, *proposal.Score)
		assert.Equal(t, models.ProposalStatusApproved, proposal.Status)
		proposals.AssertExpectations(t)
	})

	t.Run("re-evaluation replaces prior scores", func(t *testing.T) {
		svc, proposals, _, builder := newProposalService()
		scored := &models.Proposal{
			UID:        "prop-1",
			Status:     models.ProposalStatusApproved,
			Score:      utils.IntPtr(80),
			Evaluation: &models.Evaluation{Alignment: 5, Feasibility: 4, Urgency: 3, Impact: 4},
		}
		proposals.On("GetWithRevision", mock.Anything, "prop-1").Return(scored, uint64(2), nil)
		proposals.On("Update", mock.Anything, mock.AnythingOfType("*models.Proposal"), uint64(2)).Return(nil)
		builder.On("SendIndexProposal", mock.Anything, models.ActionUpdated, mock.AnythingOfType("models.Proposal")).Return(nil)

		evaluation := models.Evaluation{Alignment: 2, Feasibility: 2, Urgency: 2, Impact: 2}
		proposal, err := svc.Evaluate(ctx, "prop-1", evaluation)

		require.NoError(t, err)
		assert.Equal(t, 40, *proposal.Score)
		assert.Equal(t, models.ProposalStatusRejected, proposal.Status)
		assert.Equal(t, evaluation, *proposal.Evaluation)
	})

	t.Run("out-of-range criterion refused before store access", func(t *testing.T) {
		svc, proposals, _, _ := newProposalService()

		_, err := svc.Evaluate(ctx, "prop-1", models.Evaluation{Alignment: 6, Feasibility: 1, Urgency: 1, Impact: 1})

		assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
		proposals.AssertNotCalled(t, "GetWithRevision")
	})

	t.Run("review threshold", func(t *testing.T) {
		svc, proposals, _, builder := newProposalService()
		proposals.On("GetWithRevision", mock.Anything, "prop-1").
			Return(&models.Proposal{UID: "prop-1"}, uint64(1), nil)
		proposals.On("Update", mock.Anything, mock.Anything, uint64(1)).Return(nil)
		builder.On("SendIndexProposal", mock.Anything, models.ActionUpdated, mock.Anything).Return(nil)

		// 3+3+2+3 = 11 → round(100*11/20) = 55 → review
		proposal, err := svc.Evaluate(ctx, "prop-1", models.Evaluation{Alignment: 3, Feasibility: 3, Urgency: 2, Impact: 3})

		require.NoError(t, err)
		assert.Equal(t, 55, *proposal.Score)
		assert.Equal(t, models.ProposalStatusReview, proposal.Status)
	})
}

func TestProposalService_ListByProposer(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the member feed, newest first", func(t *testing.T) {
		svc, proposals, _, _ := newProposalService()

		older := time.Date(2026, time.July, 1, 9, 0, 0, 0, time.UTC)
		newer := time.Date(2026, time.August, 1, 9, 0, 0, 0, time.UTC)
		proposals.On("ListByProposer", mock.Anything, "user-1").Return([]*models.Proposal{
			{UID: "p-old", ProposerUID: "user-1", CreatedAt: &older},
			{UID: "p-new", ProposerUID: "user-1", CreatedAt: &newer},
		}, nil)

		feed, err := svc.ListByProposer(ctx, "user-1")

		require.NoError(t, err)
		require.Len(t, feed, 2)
		assert.Equal(t, "p-new", feed[0].UID)
		assert.Equal(t, "p-old", feed[1].UID)
	})

	t.Run("store errors pass through", func(t *testing.T) {
		svc, proposals, _, _ := newProposalService()
		proposals.On("ListByProposer", mock.Anything, "user-1").
			Return(nil, domain.NewUnavailableError("store down"))

		_, err := svc.ListByProposer(ctx, "user-1")

		require.Error(t, err)
		assert.Equal(t, domain.ErrorTypeUnavailable, domain.GetErrorType(err))
	})
}

func TestProposalService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, proposals, _, builder := newProposalService()
	proposals.On("GetWithRevision", mock.Anything, "prop-1").
		Return(&models.Proposal{UID: "prop-1"}, uint64(4), nil)
	proposals.On("Delete", mock.Anything, "prop-1", uint64(4)).Return(nil)
	builder.On("SendDeleteIndexProposal", mock.Anything, "prop-1").Return(nil)

	err := svc.Delete(ctx, "prop-1")

	assert.NoError(t, err)
	proposals.AssertExpectations(t)
	builder.AssertExpectations(t)
}
