// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/infracouncil/council-portal-service/internal/domain/models"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Get(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetWithRevision(ctx context.Context, userUID string) (*models.User, uint64, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uint64), args.Error(2)
	}
	return args.Get(0).(*models.User), args.Get(1).(uint64), args.Error(2)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User, revision uint64) error {
	args := m.Called(ctx, user, revision)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, userUID string, revision uint64) error {
	args := m.Called(ctx, userUID, revision)
	return args.Error(0)
}

func (m *MockUserRepository) Exists(ctx context.Context, userUID string) (bool, error) {
	args := m.Called(ctx, userUID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ListAll(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) Watch(ctx context.Context) (<-chan []*models.User, <-chan error, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(<-chan []*models.User), args.Get(1).(<-chan error), args.Error(2)
}

// MockProposalRepository implements ProposalRepository for testing
type MockProposalRepository struct {
	mock.Mock
}

func (m *MockProposalRepository) Create(ctx context.Context, proposal *models.Proposal) error {
	args := m.Called(ctx, proposal)
	return args.Error(0)
}

func (m *MockProposalRepository) Get(ctx context.Context, proposalUID string) (*models.Proposal, error) {
	args := m.Called(ctx, proposalUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Proposal), args.Error(1)
}

func (m *MockProposalRepository) GetWithRevision(ctx context.Context, proposalUID string) (*models.Proposal, uint64, error) {
	args := m.Called(ctx, proposalUID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uint64), args.Error(2)
	}
	return args.Get(0).(*models.Proposal), args.Get(1).(uint64), args.Error(2)
}

func (m *MockProposalRepository) Update(ctx context.Context, proposal *models.Proposal, revision uint64) error {
	args := m.Called(ctx, proposal, revision)
	return args.Error(0)
}

func (m *MockProposalRepository) Delete(ctx context.Context, proposalUID string, revision uint64) error {
	args := m.Called(ctx, proposalUID, revision)
	return args.Error(0)
}

func (m *MockProposalRepository) ListAll(ctx context.Context) ([]*models.Proposal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Proposal), args.Error(1)
}

func (m *MockProposalRepository) ListByProposer(ctx context.Context, proposerUID string) ([]*models.Proposal, error) {
	args := m.Called(ctx, proposerUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Proposal), args.Error(1)
}

func (m *MockProposalRepository) Watch(ctx context.Context) (<-chan []*models.Proposal, <-chan error, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(<-chan []*models.Proposal), args.Get(1).(<-chan error), args.Error(2)
}

// MockMeetingRepository implements MeetingRepository for testing
type MockMeetingRepository struct {
	mock.Mock
}

func (m *MockMeetingRepository) Create(ctx context.Context, meeting *models.Meeting) error {
	args := m.Called(ctx, meeting)
	return args.Error(0)
}

func (m *MockMeetingRepository) Get(ctx context.Context, meetingUID string) (*models.Meeting, error) {
	args := m.Called(ctx, meetingUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) GetWithRevision(ctx context.Context, meetingUID string) (*models.Meeting, uint64, error) {
	args := m.Called(ctx, meetingUID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uint64), args.Error(2)
	}
	return args.Get(0).(*models.Meeting), args.Get(1).(uint64), args.Error(2)
}

func (m *MockMeetingRepository) Update(ctx context.Context, meeting *models.Meeting, revision uint64) error {
	args := m.Called(ctx, meeting, revision)
	return args.Error(0)
}

func (m *MockMeetingRepository) Delete(ctx context.Context, meetingUID string, revision uint64) error {
	args := m.Called(ctx, meetingUID, revision)
	return args.Error(0)
}

func (m *MockMeetingRepository) Exists(ctx context.Context, meetingUID string) (bool, error) {
	args := m.Called(ctx, meetingUID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMeetingRepository) ListAll(ctx context.Context) ([]*models.Meeting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) Watch(ctx context.Context) (<-chan []*models.Meeting, <-chan error, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(<-chan []*models.Meeting), args.Get(1).(<-chan error), args.Error(2)
}

// MockMeetingResultRepository implements MeetingResultRepository for testing
type MockMeetingResultRepository struct {
	mock.Mock
}

func (m *MockMeetingResultRepository) Create(ctx context.Context, result *models.MeetingResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockMeetingResultRepository) Get(ctx context.Context, resultUID string) (*models.MeetingResult, error) {
	args := m.Called(ctx, resultUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MeetingResult), args.Error(1)
}

func (m *MockMeetingResultRepository) GetWithRevision(ctx context.Context, resultUID string) (*models.MeetingResult, uint64, error) {
	args := m.Called(ctx, resultUID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uint64), args.Error(2)
	}
	return args.Get(0).(*models.MeetingResult), args.Get(1).(uint64), args.Error(2)
}

func (m *MockMeetingResultRepository) Update(ctx context.Context, result *models.MeetingResult, revision uint64) error {
	args := m.Called(ctx, result, revision)
	return args.Error(0)
}

func (m *MockMeetingResultRepository) Delete(ctx context.Context, resultUID string, revision uint64) error {
	args := m.Called(ctx, resultUID, revision)
	return args.Error(0)
}

func (m *MockMeetingResultRepository) ListAll(ctx context.Context) ([]*models.MeetingResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MeetingResult), args.Error(1)
}

func (m *MockMeetingResultRepository) Watch(ctx context.Context) (<-chan []*models.MeetingResult, <-chan error, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(<-chan []*models.MeetingResult), args.Get(1).(<-chan error), args.Error(2)
}

// MockMessageBuilder implements the index sender interfaces for testing
type MockMessageBuilder struct {
	mock.Mock
}

func (m *MockMessageBuilder) SendIndexUser(ctx context.Context, action models.MessageAction, data models.User) error {
	args := m.Called(ctx, action, data)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendDeleteIndexUser(ctx context.Context, data string) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendIndexProposal(ctx context.Context, action models.MessageAction, data models.Proposal) error {
	args := m.Called(ctx, action, data)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendDeleteIndexProposal(ctx context.Context, data string) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendIndexMeeting(ctx context.Context, action models.MessageAction, data models.Meeting) error {
	args := m.Called(ctx, action, data)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendDeleteIndexMeeting(ctx context.Context, data string) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendIndexMeetingResult(ctx context.Context, action models.MessageAction, data models.MeetingResult) error {
	args := m.Called(ctx, action, data)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendDeleteIndexMeetingResult(ctx context.Context, data string) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendUserDeleted(ctx context.Context, data models.UserDeletedMessage) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

// MockEmailService implements EmailService for testing
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendApprovalNotice(ctx context.Context, notice EmailApprovalNotice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

func (m *MockEmailService) SendMeetingCancellation(ctx context.Context, cancellation EmailMeetingCancellation) error {
	args := m.Called(ctx, cancellation)
	return args.Error(0)
}

// MockObjectStore implements ObjectStore for testing
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Put(ctx context.Context, name string, reader io.Reader) (string, error) {
	args := m.Called(ctx, name, reader)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStore) PublicURL(ref string) string {
	args := m.Called(ref)
	return args.String(0)
}

func (m *MockObjectStore) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// MockMessage implements Message for testing
type MockMessage struct {
	mock.Mock
}

func (m *MockMessage) Subject() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockMessage) Data() []byte {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]byte)
}

func (m *MockMessage) Respond(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockMessage) HasReply() bool {
	args := m.Called()
	return args.Bool(0)
}
