// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package models

// NATS subjects that the portal service sends messages about.
const (
	// IndexUserSubject is the subject for user indexing.
	// The subject is of the form: portal.index.user
	IndexUserSubject = "portal.index.user"

	// IndexProposalSubject is the subject for proposal indexing.
	// The subject is of the form: portal.index.proposal
	IndexProposalSubject = "portal.index.proposal"

	// IndexMeetingSubject is the subject for meeting indexing.
	// The subject is of the form: portal.index.meeting
	IndexMeetingSubject = "portal.index.meeting"

	// IndexMeetingResultSubject is the subject for meeting result indexing.
	// The subject is of the form: portal.index.meeting_result
	IndexMeetingResultSubject = "portal.index.meeting_result"
)

// NATS subjects that the portal service handles messages about.
const (
	// UserGetNameSubject is the subject for the user name lookup.
	// The subject is of the form: portal.users-api.get_name
	UserGetNameSubject = "portal.users-api.get_name"

	// MeetingGetTitleSubject is the subject for the meeting title lookup.
	// The subject is of the form: portal.meetings-api.get_title
	MeetingGetTitleSubject = "portal.meetings-api.get_title"

	// UserDeletedSubject is the subject for user deletion events. Handlers
	// remove the deleted user's RSVPs from non-finished meetings.
	// The subject is of the form: portal.users-api.user_deleted
	UserDeletedSubject = "portal.users-api.user_deleted"

	// ProposalsByProposerSubject is the subject for one member's proposal
	// feed. The message data is the proposer's user UID.
	// The subject is of the form: portal.proposals-api.list_by_proposer
	ProposalsByProposerSubject = "portal.proposals-api.list_by_proposer"
)

// NATS subjects for the live derived views. Replies carry the latest view
// state; a view that has not finished its initial load replies nil.
const (
	// UpcomingMeetingsSubject serves the upcoming meeting calendar.
	// The subject is of the form: portal.views-api.upcoming_meetings
	UpcomingMeetingsSubject = "portal.views-api.upcoming_meetings"

	// EligibleMeetingsSubject serves the meetings a result may be
	// published for.
	// The subject is of the form: portal.views-api.eligible_meetings
	EligibleMeetingsSubject = "portal.views-api.eligible_meetings"

	// MemberListSubject serves the admin member list. The message data is
	// a division filter; empty means all members.
	// The subject is of the form: portal.views-api.members
	MemberListSubject = "portal.views-api.members"

	// ReviewQueueSubject serves the proposal review queue. The message
	// data is a division filter; empty means all proposals.
	// The subject is of the form: portal.views-api.review_queue
	ReviewQueueSubject = "portal.views-api.review_queue"

	// MeetingRosterSubject serves a one-line attendee summary. The message
	// data is the meeting UID.
	// The subject is of the form: portal.views-api.meeting_roster
	MeetingRosterSubject = "portal.views-api.meeting_roster"
)

// MessageAction is the type of action of a message.
type MessageAction string

const (
	// ActionCreated is the action of a message about a created resource.
	ActionCreated MessageAction = "created"
	// ActionUpdated is the action of a message about an updated resource.
	ActionUpdated MessageAction = "updated"
	// ActionDeleted is the action of a message about a deleted resource.
	ActionDeleted MessageAction = "deleted"
)

// PortalIndexerMessage is the payload published to the indexer service.
type PortalIndexerMessage struct {
	Action  MessageAction     `json:"action"`
	Headers map[string]string `json:"headers"`
	Data    any               `json:"data"`
	Tags    []string          `json:"tags"`
}

// UserDeletedMessage is the payload published when a user is removed, so
// that dependent records can be cleaned up.
type UserDeletedMessage struct {
	UserUID string `json:"user_uid"`
}
