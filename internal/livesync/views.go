// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package livesync

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/infracouncil/council-portal-service/internal/domain/models"
)

// The transforms in this file are pure: they copy their input slice before
// ordering and never mutate the documents themselves.

// DivisionFilter selects a slice of users or proposals by division. Beyond
// the real division values there are two synthetic filters.
type DivisionFilter string

const (
	// FilterAll matches every record.
	FilterAll DivisionFilter = "all"
	// FilterUnapproved matches users still waiting for approval.
	FilterUnapproved DivisionFilter = "unapproved"
)

func createdAt(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// SortProposalsByStatus orders proposals for the admin review queue:
// pending first, then review, approved, rejected, unknown statuses last.
// Within a status, newest first.
func SortProposalsByStatus(proposals []*models.Proposal) []*models.Proposal {
	sorted := make([]*models.Proposal, len(proposals))
	copy(sorted, proposals)

	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := sorted[i].Status.Rank(), sorted[j].Status.Rank()
		if ri != rj {
			return ri < rj
		}
		return createdAt(sorted[i].CreatedAt).After(createdAt(sorted[j].CreatedAt))
	})

	return sorted
}

// SortProposalsByCreated orders proposals newest first. Used for the
// per-member proposal feed.
func SortProposalsByCreated(proposals []*models.Proposal) []*models.Proposal {
	sorted := make([]*models.Proposal, len(proposals))
	copy(sorted, proposals)

	sort.SliceStable(sorted, func(i, j int) bool {
		return createdAt(sorted[i].CreatedAt).After(createdAt(sorted[j].CreatedAt))
	})

	return sorted
}

// ProposalsByProposer narrows proposals to one member's submissions,
// newest first.
func ProposalsByProposer(proposals []*models.Proposal, proposerUID string) []*models.Proposal {
	var owned []*models.Proposal
	for _, p := range proposals {
		if p.ProposerUID == proposerUID {
			owned = append(owned, p)
		}
	}
	return SortProposalsByCreated(owned)
}

// SortUsersByApproval orders users for the member admin list: unapproved
// registrations first so they are seen, newest first within each group.
func SortUsersByApproval(users []*models.User) []*models.User {
	sorted := make([]*models.User, len(users))
	copy(sorted, users)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Approved != sorted[j].Approved {
			return !sorted[i].Approved
		}
		return createdAt(sorted[i].CreatedAt).After(createdAt(sorted[j].CreatedAt))
	})

	return sorted
}

// FilterUsers narrows users by a division filter. FilterAll passes
// everything, FilterUnapproved passes users awaiting approval, and a real
// division value passes the approved members of that division.
func FilterUsers(users []*models.User, filter DivisionFilter) []*models.User {
	switch filter {
	case FilterAll:
		return users
	case FilterUnapproved:
		var pending []*models.User
		for _, u := range users {
			if !u.Approved {
				pending = append(pending, u)
			}
		}
		return pending
	default:
		var matched []*models.User
		for _, u := range users {
			if u.Approved && u.Division == models.Division(filter) {
				matched = append(matched, u)
			}
		}
		return matched
	}
}

// FilterProposals narrows proposals by division. FilterAll passes
// everything; FilterUnapproved is meaningless for proposals and matches
// nothing.
func FilterProposals(proposals []*models.Proposal, filter DivisionFilter) []*models.Proposal {
	switch filter {
	case FilterAll:
		return proposals
	case FilterUnapproved:
		return nil
	default:
		var matched []*models.Proposal
		for _, p := range proposals {
			if p.Division == models.Division(filter) {
				matched = append(matched, p)
			}
		}
		return matched
	}
}

// GroupUsersByDivision buckets users by division, with users carrying an
// unknown or empty division collected under the "other" sentinel.
func GroupUsersByDivision(users []*models.User) map[models.Division][]*models.User {
	groups := make(map[models.Division][]*models.User)
	for _, u := range users {
		division := u.DivisionOrOther()
		groups[division] = append(groups[division], u)
	}
	return groups
}

// UpcomingMeetings returns meetings still on the calendar (upcoming or
// postponed) ordered by start date, soonest first.
func UpcomingMeetings(meetings []*models.Meeting) []*models.Meeting {
	var upcoming []*models.Meeting
	for _, m := range meetings {
		if m.Status == models.MeetingStatusUpcoming || m.Status == models.MeetingStatusPostponed {
			upcoming = append(upcoming, m)
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].StartDate.Before(upcoming[j].StartDate)
	})

	return upcoming
}

// SortMeetingsByStart orders meetings by start date, most recent first.
func SortMeetingsByStart(meetings []*models.Meeting) []*models.Meeting {
	sorted := make([]*models.Meeting, len(meetings))
	copy(sorted, meetings)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDate.After(sorted[j].StartDate)
	})

	return sorted
}

// SortResultsByMeetingDate orders meeting results by meeting date, most
// recent first, falling back to creation time on equal dates.
func SortResultsByMeetingDate(results []*models.MeetingResult) []*models.MeetingResult {
	sorted := make([]*models.MeetingResult, len(results))
	copy(sorted, results)

	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].MeetingDate.Equal(sorted[j].MeetingDate) {
			return sorted[i].MeetingDate.After(sorted[j].MeetingDate)
		}
		return createdAt(sorted[i].CreatedAt).After(createdAt(sorted[j].CreatedAt))
	})

	return sorted
}

// EligibleMeetings returns the meetings a result may be published for: no
// result recorded yet, and either already finished or past their end date
// while still on the calendar. Cancelled meetings are never eligible.
// Deleting a result makes its meeting eligible again; that falls out of the
// join rather than being tracked separately.
func EligibleMeetings(meetings []*models.Meeting, results []*models.MeetingResult, today models.Date) []*models.Meeting {
	recorded := make(map[string]bool, len(results))
	for _, r := range results {
		if r.MeetingUID != "" {
			recorded[r.MeetingUID] = true
		}
	}

	var eligible []*models.Meeting
	for _, m := range meetings {
		if recorded[m.UID] {
			continue
		}
		switch m.Status {
		case models.MeetingStatusFinished:
			eligible = append(eligible, m)
		case models.MeetingStatusUpcoming, models.MeetingStatusPostponed:
			if m.EndDate.Before(today) {
				eligible = append(eligible, m)
			}
		}
	}

	return SortMeetingsByStart(eligible)
}

// JoinAttendees resolves a meeting's attendee UIDs to user records in RSVP
// order. UIDs with no matching user are dropped silently; the roster must
// render even when a member has since been removed.
func JoinAttendees(meeting *models.Meeting, users []*models.User) []*models.User {
	if meeting == nil {
		return nil
	}

	byUID := make(map[string]*models.User, len(users))
	for _, u := range users {
		byUID[u.UID] = u
	}

	var attendees []*models.User
	for _, uid := range meeting.Attendees {
		if u, ok := byUID[uid]; ok {
			attendees = append(attendees, u)
		}
	}

	return attendees
}

// AttendeeSummary renders a one-line roster summary: the total count
// followed by per-division counts in catalog order, with an "other" bucket
// for attendees outside the fixed divisions. Zero-count divisions are
// omitted.
func AttendeeSummary(attendees []*models.User) string {
	counts := make(map[models.Division]int)
	for _, u := range attendees {
		counts[u.DivisionOrOther()]++
	}

	var parts []string
	for _, division := range models.Divisions() {
		if n := counts[division]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", division, n))
		}
	}
	if n := counts[models.DivisionOther]; n > 0 {
		parts = append(parts, fmt.Sprintf("%s %d", models.DivisionOther, n))
	}

	summary := fmt.Sprintf("total %d", len(attendees))
	if len(parts) > 0 {
		summary += fmt.Sprintf(" (%s)", strings.Join(parts, ", "))
	}
	return summary
}
