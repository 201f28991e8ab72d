// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDivision_IsValid(t *testing.T) {
	for _, d := range Divisions() {
		assert.True(t, d.IsValid(), "%s", d)
	}
	assert.False(t, Division("").IsValid())
	assert.False(t, DivisionOther.IsValid())
	assert.False(t, Division("maritime").IsValid())
}

func TestExpertiseCatalog(t *testing.T) {
	for _, d := range Divisions() {
		assert.NotEmpty(t, ExpertiseCatalog(d), "%s", d)
	}
	assert.Nil(t, ExpertiseCatalog(DivisionOther))
	assert.Contains(t, ExpertiseCatalog(DivisionTransport), "rail")
	assert.Contains(t, ExpertiseCatalog(DivisionEnvironment), "sewerage")
}

func TestUser_DivisionOrOther(t *testing.T) {
	u := &User{Division: DivisionSupply}
	assert.Equal(t, DivisionSupply, u.DivisionOrOther())

	u.Division = ""
	assert.Equal(t, DivisionOther, u.DivisionOrOther())

	u.Division = Division("maritime")
	assert.Equal(t, DivisionOther, u.DivisionOrOther())
}

func TestUser_Tags(t *testing.T) {
	tests := []struct {
		name     string
		user     *User
		expected []string
	}{
		{
			name:     "nil user returns nil",
			user:     nil,
			expected: nil,
		},
		{
			name: "complete user",
			user: &User{
				UID:         "user-1",
				Name:        "Kim Minjun",
				Email:       "minjun@example.com",
				Affiliation: "Road Safety Institute",
				Division:    DivisionTransport,
			},
			expected: []string{
				"user-1",
				"user_uid:user-1",
				"name:Kim Minjun",
				"email:minjun@example.com",
				"affiliation:Road Safety Institute",
				"division:transport",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.user.Tags())
		})
	}
}
