// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package models

import (
	"fmt"
	"time"
)

// Division is a fixed top-level category used to partition members and
// proposals for filtered views.
type Division string

const (
	// DivisionTransport covers road, rail, port, fishing-port and airport infrastructure.
	DivisionTransport Division = "transport"
	// DivisionSupply covers distribution and supply infrastructure such as water, power and gas.
	DivisionSupply Division = "supply"
	// DivisionDisasterPrevention covers rivers, reservoirs and dams.
	DivisionDisasterPrevention Division = "disaster-prevention"
	// DivisionEnvironment covers basic environmental infrastructure such as sewerage.
	DivisionEnvironment Division = "environment"
	// DivisionOther is the sentinel bucket for records with a missing or
	// unrecognized division.
	DivisionOther Division = "other"
)

// Divisions returns the fixed divisions in display order. DivisionOther is
// not included; it only appears as a grouping sentinel.
func Divisions() []Division {
	return []Division{
		DivisionTransport,
		DivisionSupply,
		DivisionDisasterPrevention,
		DivisionEnvironment,
	}
}

// IsValid reports whether the division is one of the fixed categories.
func (d Division) IsValid() bool {
	switch d {
	case DivisionTransport, DivisionSupply, DivisionDisasterPrevention, DivisionEnvironment:
		return true
	}
	return false
}

// ExpertiseCatalog returns the expertise areas a member of the given
// division may claim.
func ExpertiseCatalog(d Division) []string {
	switch d {
	case DivisionTransport:
		return []string{"road", "rail", "port", "fishing-port", "airport"}
	case DivisionSupply:
		return []string{"waterworks", "electricity", "gas", "heat", "telecom", "utility-tunnel", "oil-pipeline"}
	case DivisionDisasterPrevention:
		return []string{"river", "reservoir", "dam"}
	case DivisionEnvironment:
		return []string{"sewerage"}
	}
	return nil
}

// User is the key-value store representation of a portal member.
// A user with Approved false is invisible to all division-filtered views
// except the explicit unapproved filter.
type User struct {
	UID          string     `json:"uid"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	CompanyPhone string     `json:"company_phone,omitempty"`
	Affiliation  string     `json:"affiliation"`
	Division     Division   `json:"division"`
	Expertise    []string   `json:"expertise"`
	Approved     bool       `json:"approved"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

// DivisionOrOther returns the user's division, substituting the sentinel
// bucket when the division is missing or unrecognized.
func (u *User) DivisionOrOther() Division {
	if u.Division.IsValid() {
		return u.Division
	}
	return DivisionOther
}

// Tags generates a consistent set of tags for the user for searching/indexing.
func (u *User) Tags() []string {
	if u == nil {
		return nil
	}

	tags := []string{}

	if u.UID != "" {
		tags = append(tags, u.UID)
		tags = append(tags, fmt.Sprintf("user_uid:%s", u.UID))
	}

	if u.Name != "" {
		tags = append(tags, fmt.Sprintf("name:%s", u.Name))
	}

	if u.Email != "" {
		tags = append(tags, fmt.Sprintf("email:%s", u.Email))
	}

	if u.Affiliation != "" {
		tags = append(tags, fmt.Sprintf("affiliation:%s", u.Affiliation))
	}

	if u.Division != "" {
		tags = append(tags, fmt.Sprintf("division:%s", u.Division))
	}

	return tags
}
