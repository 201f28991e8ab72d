// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/infracouncil/council-portal-service/internal/domain"
	"github.com/infracouncil/council-portal-service/internal/domain/models"
	"github.com/infracouncil/council-portal-service/internal/service"
)

// setupHandlersForTesting creates PortalHandlers with mock dependencies.
// The live view service gets empty static feeds; view tests that need
// populated views build their own fixture instead.
func setupHandlersForTesting() (*PortalHandlers, *domain.MockUserRepository, *domain.MockMeetingRepository) {
	mockUserRepo := new(domain.MockUserRepository)
	mockMeetingRepo := new(domain.MockMeetingRepository)
	mockProposalRepo := new(domain.MockProposalRepository)
	mockMessageBuilder := new(domain.MockMessageBuilder)
	mockEmailService := new(domain.MockEmailService)

	userService := service.NewUserService(
		mockUserRepo,
		mockMessageBuilder,
		mockMessageBuilder,
		mockEmailService,
		service.ServiceConfig{},
	)
	meetingService := service.NewMeetingService(
		mockMeetingRepo,
		mockUserRepo,
		mockMessageBuilder,
		mockEmailService,
		service.ServiceConfig{},
	)
	proposalService := service.NewProposalService(
		mockProposalRepo,
		mockUserRepo,
		mockMessageBuilder,
		service.ServiceConfig{},
	)
	liveViewService := service.NewLiveViewService(
		staticSource[models.Meeting](nil),
		staticSource[models.MeetingResult](nil),
		staticSource[models.User](nil),
		staticSource[models.Proposal](nil),
	)

	handlers := NewPortalHandlers(userService, meetingService, proposalService, liveViewService)
	return handlers, mockUserRepo, mockMeetingRepo
}

func newReplyMessage(subject string, data []byte) *domain.MockMessage {
	msg := new(domain.MockMessage)
	msg.On("Subject").Return(subject)
	msg.On("Data").Return(data).Maybe()
	msg.On("HasReply").Return(true)
	return msg
}

func TestPortalHandlers_HandleUserGetName(t *testing.T) {
	ctx := context.Background()
	userUID := "7b09baaa-0146-4388-a4d4-333a44dd46e3"

	t.Run("replies with the user name", func(t *testing.T) {
		handlers, userRepo, _ := setupHandlersForTesting()
		userRepo.On("Get", mock.Anything, userUID).
			Return(&models.User{UID: userUID, Name: "Taro Kasen"}, nil)

		msg := newReplyMessage(models.UserGetNameSubject, []byte(userUID))
		msg.On("Respond", []byte("Taro Kasen")).Return(nil)

		handlers.HandleMessage(ctx, msg)

		msg.AssertExpectations(t)
	})

	t.Run("invalid uuid replies empty", func(t *testing.T) {
		handlers, userRepo, _ := setupHandlersForTesting()

		msg := newReplyMessage(models.UserGetNameSubject, []byte("not-a-uuid"))
		msg.On("Respond", []byte(nil)).Return(nil)

		handlers.HandleMessage(ctx, msg)

		msg.AssertExpectations(t)
		userRepo.AssertNotCalled(t, "Get")
	})

	t.Run("unknown user replies empty", func(t *testing.T) {
		handlers, userRepo, _ := setupHandlersForTesting()
		userRepo.On("Get", mock.Anything, userUID).
			Return(nil, domain.NewNotFoundError("user not found"))

		msg := newReplyMessage(models.UserGetNameSubject, []byte(userUID))
		msg.On("Respond", []byte(nil)).Return(nil)

		handlers.HandleMessage(ctx, msg)

		msg.AssertExpectations(t)
	})
}

func TestPortalHandlers_HandleMeetingGetTitle(t *testing.T) {
	ctx := context.Background()
	meetingUID := "2f24b9ad-54e9-4a34-90f0-2eb09a9a6a44"

	t.Run("replies with the meeting title", func(t *testing.T) {
		handlers, _, meetingRepo := setupHandlersForTesting()
		meetingRepo.On("Get", mock.Anything, meetingUID).
			Return(&models.Meeting{UID: meetingUID, Title: "Spring plenary"}, nil)

		msg := newReplyMessage(models.MeetingGetTitleSubject, []byte(meetingUID))
		msg.On("Respond", []byte("Spring plenary")).Return(nil)

		handlers.HandleMessage(ctx, msg)

		msg.AssertExpectations(t)
	})

	t.Run("unknown meeting replies empty", func(t *testing.T) {
		handlers, _, meetingRepo := setupHandlersForTesting()
		meetingRepo.On("Get", mock.Anything, meetingUID).
			Return(nil, domain.NewNotFoundError("meeting not found"))

		msg := newReplyMessage(models.MeetingGetTitleSubject, []byte(meetingUID))
		msg.On("Respond", []byte(nil)).Return(nil)

		handlers.HandleMessage(ctx, msg)

		msg.AssertExpectations(t)
	})
}

func TestPortalHandlers_HandleUserDeleted(t *testing.T) {
	ctx := context.Background()

	t.Run("removes RSVPs from open meetings", func(t *testing.T) {
		handlers, _, meetingRepo := setupHandlersForTesting()
		meetingRepo.On("ListAll", mock.Anything).Return([]*models.Meeting{
			{UID: "open-1", Status: models.MeetingStatusUpcoming, Attendees: []string{"user-1"}},
		}, nil)
		meetingRepo.On("GetWithRevision", mock.Anything, "open-1").
			Return(&models.Meeting{UID: "open-1", Status: models.MeetingStatusUpcoming, Attendees: []string{"user-1"}}, uint64(1), nil)
		meetingRepo.On("Update", mock.Anything, mock.MatchedBy(func(m *models.Meeting) bool {
			return !m.HasAttendee("user-1")
		}), uint64(1)).Return(nil)

		payload, err := json.Marshal(models.UserDeletedMessage{UserUID: "user-1"})
		require.NoError(t, err)

		msg := new(domain.MockMessage)
		msg.On("Subject").Return(models.UserDeletedSubject)
		msg.On("Data").Return(payload)
		msg.On("HasReply").Return(false)

		handlers.HandleMessage(ctx, msg)

		meetingRepo.AssertExpectations(t)
		msg.AssertNotCalled(t, "Respond")
	})

	t.Run("empty user UID is rejected", func(t *testing.T) {
		handlers, _, meetingRepo := setupHandlersForTesting()

		msg := new(domain.MockMessage)
		msg.On("Subject").Return(models.UserDeletedSubject)
		msg.On("Data").Return([]byte(`{"user_uid":""}`))
		msg.On("HasReply").Return(false)

		handlers.HandleMessage(ctx, msg)

		meetingRepo.AssertNotCalled(t, "ListAll")
	})
}

func TestPortalHandlers_UnknownSubject(t *testing.T) {
	ctx := context.Background()
	handlers, _, _ := setupHandlersForTesting()

	msg := newReplyMessage("portal.unknown.subject", nil)
	msg.On("Respond", []byte(nil)).Return(nil)

	handlers.HandleMessage(ctx, msg)

	msg.AssertExpectations(t)
}

func TestPortalHandlers_HandlerReady(t *testing.T) {
	handlers, _, _ := setupHandlersForTesting()
	assert.True(t, handlers.HandlerReady())

	empty := NewPortalHandlers(
		service.NewUserService(nil, nil, nil, nil, service.ServiceConfig{}),
		service.NewMeetingService(nil, nil, nil, nil, service.ServiceConfig{}),
		service.NewProposalService(nil, nil, nil, service.ServiceConfig{}),
		service.NewLiveViewService(nil, nil, nil, nil),
	)
	assert.False(t, empty.HandlerReady())
}
