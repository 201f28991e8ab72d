// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package models

import (
	"fmt"
	"slices"
	"time"
)

// MeetingStatus is the lifecycle state of a meeting.
type MeetingStatus string

const (
	// MeetingStatusUpcoming is the initial state of a scheduled meeting.
	MeetingStatusUpcoming MeetingStatus = "upcoming"
	// MeetingStatusPostponed marks a meeting that has been pushed back.
	MeetingStatusPostponed MeetingStatus = "postponed"
	// MeetingStatusCancelled is a sink state; cancelled meetings are never
	// eligible for a result.
	MeetingStatusCancelled MeetingStatus = "cancelled"
	// MeetingStatusFinished is a sink state, reached manually or as a side
	// effect of publishing a meeting result.
	MeetingStatusFinished MeetingStatus = "finished"
)

// IsValid reports whether the status is a known lifecycle state.
func (s MeetingStatus) IsValid() bool {
	switch s {
	case MeetingStatusUpcoming, MeetingStatusPostponed, MeetingStatusCancelled, MeetingStatusFinished:
		return true
	}
	return false
}

// meetingTransitions is the explicit transition table for the meeting
// lifecycle. The store accepts any status value, so transitions are
// validated here before any write.
var meetingTransitions = map[MeetingStatus][]MeetingStatus{
	MeetingStatusUpcoming:  {MeetingStatusPostponed, MeetingStatusCancelled, MeetingStatusFinished},
	MeetingStatusPostponed: {MeetingStatusUpcoming, MeetingStatusCancelled, MeetingStatusFinished},
	MeetingStatusCancelled: {},
	MeetingStatusFinished:  {},
}

// CanTransitionTo reports whether the lifecycle permits moving from s to next.
func (s MeetingStatus) CanTransitionTo(next MeetingStatus) bool {
	return slices.Contains(meetingTransitions[s], next)
}

// ScheduleItem is a single timed entry inside a session.
type ScheduleItem struct {
	Time    string `json:"time"`
	Content string `json:"content"`
}

// Session is a named, ordered sequence of schedule items.
type Session struct {
	Name  string         `json:"name"`
	Items []ScheduleItem `json:"items"`
}

// Day is one calendar day of a meeting schedule.
type Day struct {
	Date     Date      `json:"date"`
	Sessions []Session `json:"sessions"`
}

// Schedule is the ordered sequence of days of a meeting, one per calendar
// date in [startDate, endDate]. Mutations return a new schedule that shares
// the untouched days, so a held snapshot never observes an edit.
type Schedule []Day

// NewSchedule builds a schedule with one day per date in [start, end], each
// seeded with a single empty default session. Returns nil when start is
// after end. Regenerating the schedule on a date edit discards prior session
// content; that is the documented semantics, not an accident.
func NewSchedule(start, end Date) Schedule {
	if start.IsZero() || end.IsZero() || start.After(end) {
		return nil
	}

	days := start.DaysUntil(end) + 1
	schedule := make(Schedule, 0, days)
	for i := 0; i < days; i++ {
		schedule = append(schedule, Day{
			Date:     start.AddDays(i),
			Sessions: []Session{{Name: "Session 1", Items: []ScheduleItem{}}},
		})
	}
	return schedule
}

// withDay returns a copy of the schedule with the day at dayIdx replaced.
// Only the outer slice is copied; sibling days are shared.
func (s Schedule) withDay(dayIdx int, day Day) Schedule {
	next := make(Schedule, len(s))
	copy(next, s)
	next[dayIdx] = day
	return next
}

// WithSession returns a new schedule with an additional session appended to
// the day at dayIdx. The default session name continues the "Session N"
// numbering.
func (s Schedule) WithSession(dayIdx int) (Schedule, error) {
	if dayIdx < 0 || dayIdx >= len(s) {
		return nil, fmt.Errorf("day index %d out of range [0, %d)", dayIdx, len(s))
	}

	day := s[dayIdx]
	sessions := make([]Session, len(day.Sessions), len(day.Sessions)+1)
	copy(sessions, day.Sessions)
	sessions = append(sessions, Session{
		Name:  fmt.Sprintf("Session %d", len(day.Sessions)+1),
		Items: []ScheduleItem{},
	})
	day.Sessions = sessions

	return s.withDay(dayIdx, day), nil
}

// WithItem returns a new schedule with item appended to the session at
// (dayIdx, sessionIdx), preserving insertion order.
func (s Schedule) WithItem(dayIdx, sessionIdx int, item ScheduleItem) (Schedule, error) {
	if dayIdx < 0 || dayIdx >= len(s) {
		return nil, fmt.Errorf("day index %d out of range [0, %d)", dayIdx, len(s))
	}
	day := s[dayIdx]
	if sessionIdx < 0 || sessionIdx >= len(day.Sessions) {
		return nil, fmt.Errorf("session index %d out of range [0, %d)", sessionIdx, len(day.Sessions))
	}

	sessions := make([]Session, len(day.Sessions))
	copy(sessions, day.Sessions)
	session := sessions[sessionIdx]

	items := make([]ScheduleItem, len(session.Items), len(session.Items)+1)
	copy(items, session.Items)
	session.Items = append(items, item)
	sessions[sessionIdx] = session
	day.Sessions = sessions

	return s.withDay(dayIdx, day), nil
}

// WithSessionName returns a new schedule with the session at
// (dayIdx, sessionIdx) renamed.
func (s Schedule) WithSessionName(dayIdx, sessionIdx int, name string) (Schedule, error) {
	if dayIdx < 0 || dayIdx >= len(s) {
		return nil, fmt.Errorf("day index %d out of range [0, %d)", dayIdx, len(s))
	}
	day := s[dayIdx]
	if sessionIdx < 0 || sessionIdx >= len(day.Sessions) {
		return nil, fmt.Errorf("session index %d out of range [0, %d)", sessionIdx, len(day.Sessions))
	}

	sessions := make([]Session, len(day.Sessions))
	copy(sessions, day.Sessions)
	sessions[sessionIdx].Name = name
	day.Sessions = sessions

	return s.withDay(dayIdx, day), nil
}

// Meeting is the key-value store representation of a council meeting.
type Meeting struct {
	UID       string        `json:"uid"`
	Title     string        `json:"title"`
	Location  string        `json:"location"`
	StartDate Date          `json:"start_date"`
	EndDate   Date          `json:"end_date"`
	Status    MeetingStatus `json:"status"`
	Schedule  Schedule      `json:"schedule"`
	Attendees []string      `json:"attendees"`
	CreatedAt *time.Time    `json:"created_at,omitempty"`
	UpdatedAt *time.Time    `json:"updated_at,omitempty"`
}

// Validate checks the meeting's date and schedule invariants.
func (m *Meeting) Validate() error {
	if m.Title == "" {
		return fmt.Errorf("meeting title is required")
	}
	if m.StartDate.IsZero() || m.EndDate.IsZero() {
		return fmt.Errorf("meeting start and end dates are required")
	}
	if m.StartDate.After(m.EndDate) {
		return fmt.Errorf("meeting start date %s is after end date %s", m.StartDate, m.EndDate)
	}
	if wantDays := m.StartDate.DaysUntil(m.EndDate) + 1; len(m.Schedule) != wantDays {
		return fmt.Errorf("schedule has %d days, date range spans %d", len(m.Schedule), wantDays)
	}
	return nil
}

// HasAttendee reports whether the user has an RSVP on the meeting.
func (m *Meeting) HasAttendee(userUID string) bool {
	return slices.Contains(m.Attendees, userUID)
}

// WithAttendee returns the attendee set with userUID present exactly once.
func (m *Meeting) WithAttendee(userUID string) []string {
	if m.HasAttendee(userUID) {
		return m.Attendees
	}
	attendees := make([]string, len(m.Attendees), len(m.Attendees)+1)
	copy(attendees, m.Attendees)
	return append(attendees, userUID)
}

// WithoutAttendee returns the attendee set with userUID removed.
func (m *Meeting) WithoutAttendee(userUID string) []string {
	if !m.HasAttendee(userUID) {
		return m.Attendees
	}
	attendees := make([]string, 0, len(m.Attendees)-1)
	for _, uid := range m.Attendees {
		if uid != userUID {
			attendees = append(attendees, uid)
		}
	}
	return attendees
}

// Tags generates a consistent set of tags for the meeting for searching/indexing.
func (m *Meeting) Tags() []string {
	if m == nil {
		return nil
	}

	tags := []string{}

	if m.UID != "" {
		tags = append(tags, m.UID)
		tags = append(tags, fmt.Sprintf("meeting_uid:%s", m.UID))
	}

	if m.Title != "" {
		tags = append(tags, fmt.Sprintf("title:%s", m.Title))
	}

	if m.Location != "" {
		tags = append(tags, fmt.Sprintf("location:%s", m.Location))
	}

	if m.Status != "" {
		tags = append(tags, fmt.Sprintf("status:%s", m.Status))
	}

	return tags
}
