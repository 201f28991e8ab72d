// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package livesync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infracouncil/council-portal-service/internal/domain"
	"github.com/infracouncil/council-portal-service/internal/domain/models"
)

func TestView_Lifecycle(t *testing.T) {
	view := NewView(SortProposalsByStatus)

	_, loading, err := view.State()
	assert.True(t, loading)
	assert.NoError(t, err)

	view.ApplySnapshot([]*models.Proposal{
		{UID: "a", Status: models.ProposalStatusApproved},
		{UID: "p", Status: models.ProposalStatusPending},
	})

	state, loading, err := view.State()
	assert.False(t, loading)
	assert.NoError(t, err)
	require.Len(t, state, 2)
	assert.Equal(t, "p", state[0].UID)
}

func TestView_FailEndsLoading(t *testing.T) {
	view := NewView(SortProposalsByStatus)

	view.Fail(domain.NewUnavailableError("store down"))

	_, loading, err := view.State()
	assert.False(t, loading, "a failed view must not stay loading")
	assert.Error(t, err)
	assert.Error(t, view.Err())
}

func TestView_SnapshotClearsPriorError(t *testing.T) {
	view := NewView(SortProposalsByStatus)

	view.Fail(domain.NewUnavailableError("store down"))
	view.ApplySnapshot(nil)

	_, loading, err := view.State()
	assert.False(t, loading)
	assert.NoError(t, err)
}

func TestJoinedView_WaitsForBothInputs(t *testing.T) {
	today, parseErr := models.ParseDate("2026-05-01")
	require.NoError(t, parseErr)

	view := NewJoinedView(func(meetings []*models.Meeting, results []*models.MeetingResult) []*models.Meeting {
		return EligibleMeetings(meetings, results, today)
	})

	_, loading, _ := view.State()
	assert.True(t, loading)

	view.ApplyA([]*models.Meeting{
		{UID: "m1", Status: models.MeetingStatusFinished},
	})

	_, loading, _ = view.State()
	assert.True(t, loading, "one input is not enough to publish a join")

	view.ApplyB(nil)

	state, loading, err := view.State()
	assert.False(t, loading)
	assert.NoError(t, err)
	require.Len(t, state, 1)
	assert.Equal(t, "m1", state[0].UID)
}

func TestJoinedView_RecomputesOnEitherInput(t *testing.T) {
	today, parseErr := models.ParseDate("2026-05-01")
	require.NoError(t, parseErr)

	view := NewJoinedView(func(meetings []*models.Meeting, results []*models.MeetingResult) []*models.Meeting {
		return EligibleMeetings(meetings, results, today)
	})

	view.ApplyA([]*models.Meeting{{UID: "m1", Status: models.MeetingStatusFinished}})
	view.ApplyB(nil)

	state, _, _ := view.State()
	require.Len(t, state, 1)

	// A result arriving for the meeting removes it from the join output.
	view.ApplyB([]*models.MeetingResult{{UID: "r1", MeetingUID: "m1"}})

	state, _, _ = view.State()
	assert.Empty(t, state)
}

func TestJoinedView_Fail(t *testing.T) {
	view := NewJoinedView(func(a []*models.Meeting, b []*models.MeetingResult) int {
		return len(a) + len(b)
	})

	view.Fail(domain.NewUnavailableError("feed died"))

	_, loading, err := view.State()
	assert.False(t, loading)
	assert.Error(t, err)
}
