// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package models

import (
	"fmt"
	"time"
)

// AttendeeSnapshot is the denormalized record of one attendee, frozen at
// the time the meeting result was saved. It does not track later edits to
// the member's profile.
type AttendeeSnapshot struct {
	UID         string   `json:"uid"`
	Name        string   `json:"name"`
	Affiliation string   `json:"affiliation"`
	Division    Division `json:"division"`
}

// MeetingResult is the published minutes of a meeting. MeetingUID is a weak
// reference: the meeting may have been deleted or edited since the result
// was authored, which is why the title, date and location are captured here.
// At most one result should exist per meeting; the view layer enforces this
// by removing meetings with a result from the authoring candidates.
type MeetingResult struct {
	UID             string             `json:"uid"`
	MeetingUID      string             `json:"meeting_uid"`
	MeetingTitle    string             `json:"meeting_title"`
	MeetingDate     Date               `json:"meeting_date"`
	MeetingLocation string             `json:"meeting_location"`
	Discussion      string             `json:"discussion"`
	ImageURL        string             `json:"image_url,omitempty"`
	Attendees       []string           `json:"attendees"`
	AttendeesData   []AttendeeSnapshot `json:"attendees_data"`
	CreatedAt       *time.Time         `json:"created_at,omitempty"`
	UpdatedAt       *time.Time         `json:"updated_at,omitempty"`
}

// Tags generates a consistent set of tags for the result for searching/indexing.
func (r *MeetingResult) Tags() []string {
	if r == nil {
		return nil
	}

	tags := []string{}

	if r.UID != "" {
		tags = append(tags, r.UID)
		tags = append(tags, fmt.Sprintf("meeting_result_uid:%s", r.UID))
	}

	if r.MeetingUID != "" {
		tags = append(tags, fmt.Sprintf("meeting_uid:%s", r.MeetingUID))
	}

	if r.MeetingTitle != "" {
		tags = append(tags, fmt.Sprintf("meeting_title:%s", r.MeetingTitle))
	}

	return tags
}
