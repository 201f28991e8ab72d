// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package livesync

import "sync"

// View holds the derived state for one subscribed collection. It starts in
// the loading state and leaves it on the first snapshot or on failure, so a
// subscriber never waits forever. Transforms are pure; the raw snapshot is
// not retained.
type View[T, R any] struct {
	mu        sync.RWMutex
	transform func([]*T) R
	state     R
	loading   bool
	err       error
}

// NewView creates a view that derives its state with transform.
func NewView[T, R any](transform func([]*T) R) *View[T, R] {
	return &View[T, R]{
		transform: transform,
		loading:   true,
	}
}

// ApplySnapshot replaces the view state from a full snapshot.
func (v *View[T, R]) ApplySnapshot(docs []*T) {
	state := v.transform(docs)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.state = state
	v.loading = false
	v.err = nil
}

// Fail records a terminal feed error. Loading ends so the failure is visible.
func (v *View[T, R]) Fail(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.err = err
	v.loading = false
}

// State returns the derived state, whether the view is still loading, and
// the terminal error if the feed failed.
func (v *View[T, R]) State() (R, bool, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state, v.loading, v.err
}

// Err returns the terminal error, if any.
func (v *View[T, R]) Err() error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.err
}

// JoinedView derives state from two subscribed collections. It stays in the
// loading state until both feeds have delivered at least once, so a join
// never runs against a half-loaded input.
type JoinedView[A, B, R any] struct {
	mu      sync.RWMutex
	join    func([]*A, []*B) R
	as      []*A
	bs      []*B
	seenA   bool
	seenB   bool
	state   R
	err     error
}

// NewJoinedView creates a joined view over two feeds.
func NewJoinedView[A, B, R any](join func([]*A, []*B) R) *JoinedView[A, B, R] {
	return &JoinedView[A, B, R]{join: join}
}

// ApplyA replaces the first input collection.
func (j *JoinedView[A, B, R]) ApplyA(docs []*A) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.as = docs
	j.seenA = true
	j.recompute()
}

// ApplyB replaces the second input collection.
func (j *JoinedView[A, B, R]) ApplyB(docs []*B) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.bs = docs
	j.seenB = true
	j.recompute()
}

func (j *JoinedView[A, B, R]) recompute() {
	if j.seenA && j.seenB {
		j.state = j.join(j.as, j.bs)
		j.err = nil
	}
}

// Fail records a terminal error from either feed.
func (j *JoinedView[A, B, R]) Fail(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.err = err
}

// State returns the joined state, whether either input is still pending,
// and the terminal error if a feed failed.
func (j *JoinedView[A, B, R]) State() (R, bool, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	loading := !(j.seenA && j.seenB) && j.err == nil
	return j.state, loading, j.err
}
