// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package livesync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infracouncil/council-portal-service/internal/domain"
)

func TestCoordinator_Do(t *testing.T) {
	coord := NewCoordinator(time.Second)

	called := false
	err := coord.Do(context.Background(), "submit", func(ctx context.Context) error {
		called = true
		return nil
	})

	assert.NoError(t, err)
	assert.True(t, called)
	assert.False(t, coord.Busy())
}

func TestCoordinator_RefusesOverlappingOperations(t *testing.T) {
	coord := NewCoordinator(time.Second)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- coord.Do(context.Background(), "slow", func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started
	assert.True(t, coord.Busy())

	err := coord.Do(context.Background(), "overlap", func(ctx context.Context) error {
		t.Error("overlapping operation must not run")
		return nil
	})
	assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))

	close(release)
	require.NoError(t, <-done)
	assert.False(t, coord.Busy())
}

func TestCoordinator_BusyClearsAfterFailure(t *testing.T) {
	coord := NewCoordinator(time.Second)

	opErr := errors.New("write failed")
	err := coord.Do(context.Background(), "failing", func(ctx context.Context) error {
		return opErr
	})

	assert.ErrorIs(t, err, opErr)
	assert.False(t, coord.Busy())

	// The next operation proceeds normally.
	assert.NoError(t, coord.Do(context.Background(), "next", func(ctx context.Context) error {
		return nil
	}))
}

func TestCoordinator_TimeoutTerminatesOperation(t *testing.T) {
	coord := NewCoordinator(20 * time.Millisecond)

	err := coord.Do(context.Background(), "hanging", func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
			return nil
		}
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, coord.Busy())
}
