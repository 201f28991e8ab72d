// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package livesync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/infracouncil/council-portal-service/internal/domain"
	"github.com/infracouncil/council-portal-service/internal/logging"
)

// DefaultMutationTimeout caps how long a single mutation may run.
const DefaultMutationTimeout = 30 * time.Second

// Coordinator serializes a consumer's mutations. While one operation is in
// flight every other attempt is refused with a conflict, and the in-flight
// operation runs under a timeout-capped context so the busy state always
// terminates.
type Coordinator struct {
	mu      sync.Mutex
	busy    bool
	timeout time.Duration
}

// NewCoordinator creates a mutation coordinator. A non-positive timeout
// falls back to the default.
func NewCoordinator(timeout time.Duration) *Coordinator {
	if timeout <= 0 {
		timeout = DefaultMutationTimeout
	}
	return &Coordinator{timeout: timeout}
}

// Busy reports whether an operation is currently in flight.
func (c *Coordinator) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Do runs fn as the consumer's single in-flight mutation. It returns a
// conflict error immediately if another operation is running. fn receives
// a context that is cancelled when the timeout elapses; implementations
// must pass it through to their store calls.
func (c *Coordinator) Do(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return domain.NewConflictError(fmt.Sprintf("operation '%s' refused: another operation is in progress", operation))
	}
	c.busy = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "operation failed", logging.ErrKey, err,
			"operation", operation, "duration_ms", time.Since(start).Milliseconds())
		return err
	}

	slog.DebugContext(ctx, "operation completed",
		"operation", operation, "duration_ms", time.Since(start).Milliseconds())
	return nil
}
