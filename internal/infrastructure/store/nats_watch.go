// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/infracouncil/council-portal-service/internal/domain"
	"github.com/infracouncil/council-portal-service/internal/logging"
)

// Watch starts a KV watcher over the whole bucket and materializes it into
// full-collection snapshots. The first snapshot is emitted once the initial
// replay completes (the watcher signals this with a nil entry), then a fresh
// snapshot follows every put, delete, or purge. Snapshots are coalesced: if
// the consumer is slow, intermediate states are dropped and only the latest
// collection is delivered. The snapshot channel closes when ctx is cancelled;
// a delivery on the error channel means the watcher died and is terminal.
func (r *NatsBaseRepository[T]) Watch(ctx context.Context) (<-chan []*T, <-chan error, error) {
	if !r.IsReady() {
		return nil, nil, domain.NewUnavailableError(fmt.Sprintf("%s repository is not available", r.entityName))
	}

	watcher, err := r.kvStore.WatchAll(ctx)
	if err != nil {
		slog.ErrorContext(ctx, fmt.Sprintf("error starting %s watcher", r.entityName),
			logging.ErrKey, err)
		return nil, nil, domain.NewInternalError(
			fmt.Sprintf("failed to watch %s store", r.entityName), err)
	}

	snapshots := make(chan []*T, 1)
	errs := make(chan error, 1)

	go r.pump(ctx, watcher, snapshots, errs)

	return snapshots, errs, nil
}

// pump consumes watcher updates and maintains the collection state. It owns
// the snapshot channel and closes it on exit.
func (r *NatsBaseRepository[T]) pump(ctx context.Context, watcher jetstream.KeyWatcher, snapshots chan []*T, errs chan<- error) {
	defer close(snapshots)
	defer func() {
		if err := watcher.Stop(); err != nil {
			slog.DebugContext(ctx, fmt.Sprintf("error stopping %s watcher", r.entityName),
				logging.ErrKey, err)
		}
	}()

	state := make(map[string]*T)
	replaying := true

	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-watcher.Updates():
			if !ok {
				// The watcher only closes its channel on connection loss
				// or an unexpected stop; surface that to the subscriber.
				select {
				case errs <- domain.NewUnavailableError(
					fmt.Sprintf("%s watcher stopped unexpectedly", r.entityName)):
				default:
				}
				return
			}

			if entry == nil {
				// End of initial replay; deliver the first snapshot even
				// when the bucket is empty so subscribers leave loading.
				replaying = false
				r.emit(state, snapshots)
				continue
			}

			switch entry.Operation() {
			case jetstream.KeyValueDelete, jetstream.KeyValuePurge:
				delete(state, entry.Key())
			default:
				entity, err := r.Unmarshal(ctx, entry)
				if err != nil {
					// A malformed entry must not kill the stream; skip it
					// and keep the previous value for that key, if any.
					slog.ErrorContext(ctx, fmt.Sprintf("skipping malformed %s entry in watch stream", r.entityName),
						logging.ErrKey, err, "key", entry.Key())
					continue
				}
				state[entry.Key()] = entity
			}

			if !replaying {
				r.emit(state, snapshots)
			}
		}
	}
}

// emit places the current collection on the snapshot channel, replacing any
// undelivered snapshot so the consumer always sees the latest state.
func (r *NatsBaseRepository[T]) emit(state map[string]*T, snapshots chan []*T) {
	collection := make([]*T, 0, len(state))
	for _, entity := range state {
		collection = append(collection, entity)
	}

	select {
	case snapshots <- collection:
	default:
		select {
		case <-snapshots:
		default:
		}
		snapshots <- collection
	}
}
