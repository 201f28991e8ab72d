// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"time"

	"github.com/infracouncil/council-portal-service/internal/domain"
	"github.com/infracouncil/council-portal-service/internal/domain/models"
	"github.com/infracouncil/council-portal-service/internal/livesync"
)

// Feed keys, one per watched bucket.
const (
	feedMeetings = "meetings"
	feedResults  = "meeting-results"
	feedUsers    = "users"
	feedProposal = "proposals"
)

// LiveViewService materializes the document store's watch streams into
// derived views: the upcoming meeting calendar, the member admin list, the
// proposal review queue, the publish-eligible meeting join and per-meeting
// roster summaries. Views refresh on every store change; readers always get
// the latest derived state without touching the store.
type LiveViewService struct {
	MeetingSource  livesync.Source[models.Meeting]
	ResultSource   livesync.Source[models.MeetingResult]
	UserSource     livesync.Source[models.User]
	ProposalSource livesync.Source[models.Proposal]

	manager *livesync.Manager
	today   func() models.Date

	upcoming    *livesync.View[models.Meeting, []*models.Meeting]
	members     *livesync.View[models.User, []*models.User]
	reviewQueue *livesync.View[models.Proposal, []*models.Proposal]
	eligible    *livesync.JoinedView[models.Meeting, models.MeetingResult, []*models.Meeting]
	rosters     *livesync.JoinedView[models.Meeting, models.User, map[string]string]
}

// LiveViewOption configures a LiveViewService.
type LiveViewOption func(*LiveViewService)

// WithToday overrides the clock used for the publish-eligibility join.
func WithToday(today func() models.Date) LiveViewOption {
	return func(s *LiveViewService) {
		if today != nil {
			s.today = today
		}
	}
}

// NewLiveViewService creates the live view service over the given watch
// sources. Repository Watch methods satisfy the source signatures directly.
func NewLiveViewService(
	meetingSource livesync.Source[models.Meeting],
	resultSource livesync.Source[models.MeetingResult],
	userSource livesync.Source[models.User],
	proposalSource livesync.Source[models.Proposal],
	opts ...LiveViewOption,
) *LiveViewService {
	s := &LiveViewService{
		MeetingSource:  meetingSource,
		ResultSource:   resultSource,
		UserSource:     userSource,
		ProposalSource: proposalSource,
		manager:        livesync.NewManager(),
		today:          func() models.Date { return models.DateOf(time.Now()) },
	}
	for _, opt := range opts {
		opt(s)
	}

	s.upcoming = livesync.NewView(livesync.UpcomingMeetings)
	s.members = livesync.NewView(livesync.SortUsersByApproval)
	s.reviewQueue = livesync.NewView(livesync.SortProposalsByStatus)
	s.eligible = livesync.NewJoinedView(func(meetings []*models.Meeting, results []*models.MeetingResult) []*models.Meeting {
		return livesync.EligibleMeetings(meetings, results, s.today())
	})
	s.rosters = livesync.NewJoinedView(func(meetings []*models.Meeting, users []*models.User) map[string]string {
		summaries := make(map[string]string, len(meetings))
		for _, m := range meetings {
			summaries[m.UID] = livesync.AttendeeSummary(livesync.JoinAttendees(m, users))
		}
		return summaries
	})

	return s
}

// ServiceReady checks if the service is ready for use.
func (s *LiveViewService) ServiceReady() bool {
	return s.MeetingSource != nil &&
		s.ResultSource != nil &&
		s.UserSource != nil &&
		s.ProposalSource != nil
}

// Start opens the live feeds. A meeting snapshot fans out to every view
// that depends on the meeting collection, so the derived states can never
// disagree about which meetings exist.
func (s *LiveViewService) Start() error {
	_, err := livesync.Open(s.manager, feedMeetings, s.MeetingSource,
		func(meetings []*models.Meeting) {
			s.upcoming.ApplySnapshot(meetings)
			s.eligible.ApplyA(meetings)
			s.rosters.ApplyA(meetings)
		},
		func(err error) {
			s.upcoming.Fail(err)
			s.eligible.Fail(err)
			s.rosters.Fail(err)
		})
	if err != nil {
		return err
	}

	_, err = livesync.Open(s.manager, feedResults, s.ResultSource,
		s.eligible.ApplyB, s.eligible.Fail)
	if err != nil {
		s.manager.CloseAll()
		return err
	}

	_, err = livesync.Open(s.manager, feedUsers, s.UserSource,
		func(users []*models.User) {
			s.members.ApplySnapshot(users)
			s.rosters.ApplyB(users)
		},
		func(err error) {
			s.members.Fail(err)
			s.rosters.Fail(err)
		})
	if err != nil {
		s.manager.CloseAll()
		return err
	}

	_, err = livesync.Open(s.manager, feedProposal, s.ProposalSource,
		s.reviewQueue.ApplySnapshot, s.reviewQueue.Fail)
	if err != nil {
		s.manager.CloseAll()
		return err
	}

	return nil
}

// Close tears down every open feed.
func (s *LiveViewService) Close() {
	s.manager.CloseAll()
}

// viewState normalizes a view read: a failed feed surfaces its error, a
// feed that has not delivered yet reads as unavailable.
func viewState[R any](state R, loading bool, err error, name string) (R, error) {
	var zero R
	if err != nil {
		return zero, err
	}
	if loading {
		return zero, domain.NewUnavailableError(fmt.Sprintf("%s view is still loading", name))
	}
	return state, nil
}

// UpcomingMeetings returns meetings still on the calendar, soonest first.
func (s *LiveViewService) UpcomingMeetings() ([]*models.Meeting, error) {
	state, loading, err := s.upcoming.State()
	return viewState(state, loading, err, "upcoming meetings")
}

// Members returns the admin member list narrowed by a division filter,
// unapproved registrations first.
func (s *LiveViewService) Members(filter livesync.DivisionFilter) ([]*models.User, error) {
	state, loading, err := s.members.State()
	users, err := viewState(state, loading, err, "members")
	if err != nil {
		return nil, err
	}
	return livesync.FilterUsers(users, filter), nil
}

// ReviewQueue returns the proposal review queue narrowed by a division
// filter, pending proposals first.
func (s *LiveViewService) ReviewQueue(filter livesync.DivisionFilter) ([]*models.Proposal, error) {
	state, loading, err := s.reviewQueue.State()
	proposals, err := viewState(state, loading, err, "review queue")
	if err != nil {
		return nil, err
	}
	return livesync.FilterProposals(proposals, filter), nil
}

// EligibleMeetings returns the meetings a result may be published for.
func (s *LiveViewService) EligibleMeetings() ([]*models.Meeting, error) {
	state, loading, err := s.eligible.State()
	return viewState(state, loading, err, "eligible meetings")
}

// RosterSummary returns the one-line attendee summary for a meeting.
func (s *LiveViewService) RosterSummary(meetingUID string) (string, error) {
	state, loading, err := s.rosters.State()
	summaries, err := viewState(state, loading, err, "rosters")
	if err != nil {
		return "", err
	}
	summary, ok := summaries[meetingUID]
	if !ok {
		return "", domain.NewNotFoundError(fmt.Sprintf("meeting with UID '%s' not found", meetingUID))
	}
	return summary, nil
}
