// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package constants

// Portal-wide input constraints.
const (
	// MinPasswordLength is the minimum length for a registration password.
	MinPasswordLength = 6

	// MaxMeetingDays is the maximum number of calendar days a meeting may span.
	MaxMeetingDays = 31

	// RubricCriteriaCount is the number of evaluation criteria scored per proposal.
	RubricCriteriaCount = 4

	// RubricMinScore is the lowest score a single rubric criterion can receive.
	RubricMinScore = 1

	// RubricMaxScore is the highest score a single rubric criterion can receive.
	RubricMaxScore = 5
)
