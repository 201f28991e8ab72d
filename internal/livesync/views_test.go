// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package livesync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infracouncil/council-portal-service/internal/domain/models"
)

func timeAt(day int) *time.Time {
	t := time.Date(2026, 3, day, 12, 0, 0, 0, time.UTC)
	return &t
}

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestSortProposalsByStatus(t *testing.T) {
	proposals := []*models.Proposal{
		{UID: "rejected", Status: models.ProposalStatusRejected, CreatedAt: timeAt(5)},
		{UID: "approved", Status: models.ProposalStatusApproved, CreatedAt: timeAt(5)},
		{UID: "pending-old", Status: models.ProposalStatusPending, CreatedAt: timeAt(1)},
		{UID: "unknown", Status: models.ProposalStatus("bogus"), CreatedAt: timeAt(9)},
		{UID: "review", Status: models.ProposalStatusReview, CreatedAt: timeAt(5)},
		{UID: "pending-new", Status: models.ProposalStatusPending, CreatedAt: timeAt(8)},
	}

	sorted := SortProposalsByStatus(proposals)

	var order []string
	for _, p := range sorted {
		order = append(order, p.UID)
	}
	assert.Equal(t, []string{"pending-new", "pending-old", "review", "approved", "rejected", "unknown"}, order)

	// Input order untouched.
	assert.Equal(t, "rejected", proposals[0].UID)
}

func TestProposalsByProposer(t *testing.T) {
	proposals := []*models.Proposal{
		{UID: "p1", ProposerUID: "user-1", CreatedAt: timeAt(1)},
		{UID: "p2", ProposerUID: "user-2", CreatedAt: timeAt(2)},
		{UID: "p3", ProposerUID: "user-1", CreatedAt: timeAt(3)},
	}

	owned := ProposalsByProposer(proposals, "user-1")

	require.Len(t, owned, 2)
	assert.Equal(t, "p3", owned[0].UID)
	assert.Equal(t, "p1", owned[1].UID)

	assert.Empty(t, ProposalsByProposer(proposals, "user-9"))
}

func TestSortUsersByApproval(t *testing.T) {
	users := []*models.User{
		{UID: "approved-new", Approved: true, CreatedAt: timeAt(9)},
		{UID: "pending-old", Approved: false, CreatedAt: timeAt(1)},
		{UID: "approved-old", Approved: true, CreatedAt: timeAt(2)},
		{UID: "pending-new", Approved: false, CreatedAt: timeAt(7)},
	}

	sorted := SortUsersByApproval(users)

	var order []string
	for _, u := range sorted {
		order = append(order, u.UID)
	}
	assert.Equal(t, []string{"pending-new", "pending-old", "approved-new", "approved-old"}, order)
}

func TestFilterUsers(t *testing.T) {
	users := []*models.User{
		{UID: "t1", Division: models.DivisionTransport, Approved: true},
		{UID: "t2", Division: models.DivisionTransport, Approved: false},
		{UID: "s1", Division: models.DivisionSupply, Approved: true},
	}

	t.Run("all", func(t *testing.T) {
		assert.Len(t, FilterUsers(users, FilterAll), 3)
	})

	t.Run("unapproved", func(t *testing.T) {
		pending := FilterUsers(users, FilterUnapproved)
		require.Len(t, pending, 1)
		assert.Equal(t, "t2", pending[0].UID)
	})

	t.Run("division passes only approved members", func(t *testing.T) {
		transport := FilterUsers(users, DivisionFilter(models.DivisionTransport))
		require.Len(t, transport, 1)
		assert.Equal(t, "t1", transport[0].UID)
	})

	t.Run("unknown division matches nothing", func(t *testing.T) {
		assert.Empty(t, FilterUsers(users, DivisionFilter("bogus")))
	})
}

func TestGroupUsersByDivision(t *testing.T) {
	users := []*models.User{
		{UID: "t1", Division: models.DivisionTransport},
		{UID: "x1", Division: models.Division("")},
		{UID: "t2", Division: models.DivisionTransport},
		{UID: "x2", Division: models.Division("legacy")},
	}

	groups := GroupUsersByDivision(users)

	assert.Len(t, groups[models.DivisionTransport], 2)
	assert.Len(t, groups[models.DivisionOther], 2)
	assert.NotContains(t, groups, models.DivisionSupply)
}

func TestUpcomingMeetings(t *testing.T) {
	meetings := []*models.Meeting{
		{UID: "late", Status: models.MeetingStatusUpcoming, StartDate: mustDate(t, "2026-06-01")},
		{UID: "cancelled", Status: models.MeetingStatusCancelled, StartDate: mustDate(t, "2026-01-01")},
		{UID: "soon", Status: models.MeetingStatusPostponed, StartDate: mustDate(t, "2026-04-01")},
		{UID: "done", Status: models.MeetingStatusFinished, StartDate: mustDate(t, "2026-02-01")},
	}

	upcoming := UpcomingMeetings(meetings)

	require.Len(t, upcoming, 2)
	assert.Equal(t, "soon", upcoming[0].UID)
	assert.Equal(t, "late", upcoming[1].UID)
}

func TestEligibleMeetings(t *testing.T) {
	today := mustDate(t, "2026-05-01")

	meetings := []*models.Meeting{
		{UID: "finished", Status: models.MeetingStatusFinished, StartDate: mustDate(t, "2026-01-10"), EndDate: mustDate(t, "2026-01-11")},
		{UID: "past-upcoming", Status: models.MeetingStatusUpcoming, StartDate: mustDate(t, "2026-04-01"), EndDate: mustDate(t, "2026-04-02")},
		{UID: "past-postponed", Status: models.MeetingStatusPostponed, StartDate: mustDate(t, "2026-03-01"), EndDate: mustDate(t, "2026-03-02")},
		{UID: "future", Status: models.MeetingStatusUpcoming, StartDate: mustDate(t, "2026-06-01"), EndDate: mustDate(t, "2026-06-02")},
		{UID: "cancelled-past", Status: models.MeetingStatusCancelled, StartDate: mustDate(t, "2026-02-01"), EndDate: mustDate(t, "2026-02-02")},
		{UID: "recorded", Status: models.MeetingStatusFinished, StartDate: mustDate(t, "2026-01-01"), EndDate: mustDate(t, "2026-01-02")},
	}
	results := []*models.MeetingResult{
		{UID: "r1", MeetingUID: "recorded"},
	}

	eligible := EligibleMeetings(meetings, results, today)

	var uids []string
	for _, m := range eligible {
		uids = append(uids, m.UID)
	}
	// Most recent start date first.
	assert.Equal(t, []string{"past-upcoming", "past-postponed", "finished"}, uids)

	t.Run("finished meeting with a result is excluded even if re-listed", func(t *testing.T) {
		assert.NotContains(t, uids, "recorded")
	})

	t.Run("ends today is not yet eligible", func(t *testing.T) {
		m := []*models.Meeting{
			{UID: "today", Status: models.MeetingStatusUpcoming, EndDate: today},
		}
		assert.Empty(t, EligibleMeetings(m, nil, today))
	})

	t.Run("deleting a result restores eligibility", func(t *testing.T) {
		restored := EligibleMeetings(meetings, nil, today)
		var restoredUIDs []string
		for _, m := range restored {
			restoredUIDs = append(restoredUIDs, m.UID)
		}
		assert.Contains(t, restoredUIDs, "recorded")
	})
}

func TestJoinAttendees(t *testing.T) {
	meeting := &models.Meeting{
		UID:       "m1",
		Attendees: []string{"u2", "missing", "u1"},
	}
	users := []*models.User{
		{UID: "u1", Name: "First"},
		{UID: "u2", Name: "Second"},
		{UID: "u3", Name: "Third"},
	}

	attendees := JoinAttendees(meeting, users)

	require.Len(t, attendees, 2)
	assert.Equal(t, "Second", attendees[0].Name)
	assert.Equal(t, "First", attendees[1].Name)

	assert.Nil(t, JoinAttendees(nil, users))
}

func TestAttendeeSummary(t *testing.T) {
	t.Run("mixed divisions", func(t *testing.T) {
		attendees := []*models.User{
			{UID: "1", Division: models.DivisionTransport},
			{UID: "2", Division: models.DivisionTransport},
			{UID: "3", Division: models.DivisionDisasterPrevention},
			{UID: "4", Division: models.Division("")},
		}

		summary := AttendeeSummary(attendees)

		assert.Equal(t, "total 4 (transport 2, disaster-prevention 1, other 1)", summary)
	})

	t.Run("empty roster", func(t *testing.T) {
		assert.Equal(t, "total 0", AttendeeSummary(nil))
	})
}

func TestSortResultsByMeetingDate(t *testing.T) {
	results := []*models.MeetingResult{
		{UID: "old", MeetingDate: mustDate(t, "2026-01-10"), CreatedAt: timeAt(1)},
		{UID: "new", MeetingDate: mustDate(t, "2026-03-10"), CreatedAt: timeAt(1)},
		{UID: "tie-late", MeetingDate: mustDate(t, "2026-02-10"), CreatedAt: timeAt(9)},
		{UID: "tie-early", MeetingDate: mustDate(t, "2026-02-10"), CreatedAt: timeAt(2)},
	}

	sorted := SortResultsByMeetingDate(results)

	var order []string
	for _, r := range sorted {
		order = append(order, r.UID)
	}
	assert.Equal(t, []string{"new", "tie-late", "tie-early", "old"}, order)
}

func TestFilterProposals(t *testing.T) {
	proposals := []*models.Proposal{
		{UID: "p1", Division: models.DivisionTransport},
		{UID: "p2", Division: models.DivisionSupply},
	}

	assert.Len(t, FilterProposals(proposals, FilterAll), 2)
	assert.Empty(t, FilterProposals(proposals, FilterUnapproved))

	supply := FilterProposals(proposals, DivisionFilter(models.DivisionSupply))
	require.Len(t, supply, 1)
	assert.Equal(t, "p2", supply[0].UID)
}
