// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infracouncil/council-portal-service/internal/domain"
	"github.com/infracouncil/council-portal-service/internal/domain/models"
)

func TestTemplateManager_RenderApprovalNotice(t *testing.T) {
	tm, err := NewTemplateManager()
	require.NoError(t, err)

	rendered, err := tm.RenderApprovalNotice(domain.EmailApprovalNotice{
		RecipientEmail: "taro@example.com",
		RecipientName:  "Taro Kasen",
		Division:       models.DivisionDisasterPrevention,
	})

	require.NoError(t, err)
	assert.Contains(t, rendered.HTML, "Taro Kasen")
	assert.Contains(t, rendered.HTML, "Disaster prevention")
	assert.Contains(t, rendered.Text, "Taro Kasen")
	assert.Contains(t, rendered.Text, "Disaster prevention")
	assert.NotContains(t, rendered.Text, "<html>")
}

func TestTemplateManager_RenderMeetingCancellation(t *testing.T) {
	tm, err := NewTemplateManager()
	require.NoError(t, err)

	start, err := models.ParseDate("2026-04-10")
	require.NoError(t, err)
	end, err := models.ParseDate("2026-04-12")
	require.NoError(t, err)

	t.Run("full data", func(t *testing.T) {
		rendered, err := tm.RenderMeetingCancellation(domain.EmailMeetingCancellation{
			RecipientEmail: "taro@example.com",
			RecipientName:  "Taro Kasen",
			MeetingTitle:   "Spring General Meeting",
			StartDate:      start,
			EndDate:        end,
			Location:       "Conference Hall A",
			Reason:         "Venue unavailable",
		})

		require.NoError(t, err)
		assert.Contains(t, rendered.HTML, "Spring General Meeting")
		assert.Contains(t, rendered.HTML, "2026-04-10 to 2026-04-12")
		assert.Contains(t, rendered.HTML, "Conference Hall A")
		assert.Contains(t, rendered.HTML, "Venue unavailable")
		assert.Contains(t, rendered.Text, "Spring General Meeting")
	})

	t.Run("single day without optional fields", func(t *testing.T) {
		rendered, err := tm.RenderMeetingCancellation(domain.EmailMeetingCancellation{
			RecipientEmail: "taro@example.com",
			RecipientName:  "Taro Kasen",
			MeetingTitle:   "Working Session",
			StartDate:      start,
			EndDate:        start,
		})

		require.NoError(t, err)
		assert.Contains(t, rendered.Text, "2026-04-10")
		assert.NotContains(t, rendered.Text, "2026-04-10 to")
		assert.NotContains(t, rendered.Text, "Reason:")
		assert.NotContains(t, rendered.Text, "Location:")
	})
}

func TestDivisionLabel(t *testing.T) {
	assert.Equal(t, "Transport", divisionLabel(models.DivisionTransport))
	assert.Equal(t, "Disaster prevention", divisionLabel(models.DivisionDisasterPrevention))
	assert.Equal(t, "", divisionLabel(models.Division("")))
}
