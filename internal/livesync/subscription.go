// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

// Package livesync keeps consumers synchronized with the document store.
// It manages live feeds over repository watch streams, derives ordered and
// filtered views from full-collection snapshots, and brackets mutations so
// a consumer never issues overlapping writes.
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

// DefaultLoadTimeout bounds how long a feed may stay in its loading state
// before the subscriber is told the store never responded.
const DefaultLoadTimeout = 15 * time.Second

// Source produces a watch stream: full-collection snapshots until ctx is
// cancelled, with a terminal error channel. Repository Watch methods have
// exactly this shape.
type Source[T any] func(ctx context.Context) (<-chan []*T, <-chan error, error)

// Manager tracks the live feeds a consumer holds, one per key. Opening a
// key that is already open closes the previous feed first, so a consumer
// switching context (a different filter, a different collection) never
// accumulates stale subscriptions.
type Manager struct {
	mu          sync.Mutex
	feeds       map[string]*Handle
	loadTimeout time.Duration
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLoadTimeout overrides the initial-load timeout.
func WithLoadTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.loadTimeout = d
		}
	}
}

// NewManager creates a feed manager.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		feeds:       make(map[string]*Handle),
		loadTimeout: DefaultLoadTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CloseAll closes every open feed. Used on consumer teardown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	handles := make([]*Handle, 0, len(m.feeds))
	for _, h := range m.feeds {
		handles = append(handles, h)
	}
	m.mu.Unlock()

	for _, h := range handles {
		h.Close()
	}
}

// OpenCount reports the number of open feeds.
func (m *Manager) OpenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.feeds)
}

func (m *Manager) replace(key string, h *Handle) *Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.feeds[key]
	m.feeds[key] = h
	return prev
}

func (m *Manager) remove(key string, h *Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.feeds[key] == h {
		delete(m.feeds, key)
	}
}

// Handle is one open feed. Close is idempotent and takes effect exactly
// once; any snapshot or error that arrives afterwards is dropped.
type Handle struct {
	key     string
	manager *Manager
	cancel  context.CancelFunc

	mu     sync.Mutex
	closed bool
	once   sync.Once
}

// Close tears the feed down. Safe to call multiple times and from any
// goroutine. Once Close returns no further callback can start; do not call
// it from inside a delivery callback.
func (h *Handle) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		h.mu.Unlock()
		h.cancel()
		h.manager.remove(h.key, h)
	})
}

// Closed reports whether the feed has been closed.
func (h *Handle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// deliver runs fn unless the handle is already closed. Holding the mutex
// across the callback is what makes a late snapshot racing Close a no-op.
func (h *Handle) deliver(fn func()) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	fn()
	return true
}

// Open starts a live feed for key and delivers snapshots to onSnapshot
// until the handle is closed. Errors are terminal: after onError fires the
// feed is closed and no further snapshots arrive. If the source produces
// no snapshot within the load timeout, the feed fails rather than leaving
// the subscriber loading forever.
//
// Callbacks are invoked sequentially from a single goroutine.
func Open[T any](m *Manager, key string, src Source[T], onSnapshot func([]*T), onError func(error)) (*Handle, error) {
	ctx, cancel := context.WithCancel(context.Background())

	snapshots, errs, err := src(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	h := &Handle{key: key, manager: m, cancel: cancel}
	if prev := m.replace(key, h); prev != nil {
		prev.Close()
	}

	go pump(ctx, m, h, snapshots, errs, onSnapshot, onError)

	return h, nil
}

func pump[T any](ctx context.Context, m *Manager, h *Handle, snapshots <-chan []*T, errs <-chan error, onSnapshot func([]*T), onError func(error)) {
	loadTimer := time.NewTimer(m.loadTimeout)
	defer loadTimer.Stop()

	loaded := false
	for {
		select {
		case snapshot, ok := <-snapshots:
			if !ok {
				// The source ended without a cancel from our side; report
				// the terminal error if one is pending, otherwise invent one
				// so the subscriber is never left waiting.
				select {
				case err := <-errs:
					h.deliver(func() { onError(err) })
				default:
					if !h.Closed() {
						h.deliver(func() {
							onError(domain.NewUnavailableError(fmt.Sprintf("feed '%s' ended unexpectedly", h.key)))
						})
					}
				}
				h.Close()
				return
			}
			if !loaded {
				loaded = true
				loadTimer.Stop()
			}
			h.deliver(func() { onSnapshot(snapshot) })

		case err := <-errs:
			slog.ErrorContext(ctx, "live feed failed", logging.ErrKey, err, "feed_key", h.key)
			h.deliver(func() { onError(err) })
			h.Close()
			return

		case <-loadTimer.C:
			if !loaded {
				slog.WarnContext(ctx, "live feed initial load timed out", "feed_key", h.key)
				h.deliver(func() {
					onError(domain.NewUnavailableError(fmt.Sprintf("initial load for feed '%s' timed out", h.key)))
				})
				h.Close()
				return
			}

		case <-ctx.Done():
			return
		}
	}
}
