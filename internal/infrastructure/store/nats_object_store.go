// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go/jetstream"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/infracouncil/council-portal-service/internal/domain"
	"github.com/infracouncil/council-portal-service/internal/logging"
)

// INatsObjectStore is the NATS object store interface the blob store needs.
// It matches jetstream.ObjectStore and allows for mocking in tests.
type INatsObjectStore interface {
	Put(ctx context.Context, meta jetstream.ObjectMeta, reader io.Reader) (*jetstream.ObjectInfo, error)
	Delete(ctx context.Context, name string) error
}

// NatsObjectStore stores meeting result images in a NATS object store
// bucket and serves them through the portal's public asset base URL.
type NatsObjectStore struct {
	objStore INatsObjectStore
	bucket   string
	baseURL  string
}

// NewNatsObjectStore creates a new object store. baseURL is the externally
// reachable prefix under which stored objects are served.
func NewNatsObjectStore(objStore INatsObjectStore, bucket, baseURL string) *NatsObjectStore {
	return &NatsObjectStore{
		objStore: objStore,
		bucket:   bucket,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}
}

// Put stores the object under the given name and returns its reference.
func (s *NatsObjectStore) Put(ctx context.Context, name string, reader io.Reader) (string, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "nats.obj.put",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "nats"),
			attribute.String("db.nats.bucket", s.bucket),
			attribute.String("db.nats.object", name),
		),
	)
	defer span.End()

	if s.objStore == nil {
		err := domain.NewUnavailableError("object store is not available")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	info, err := s.objStore.Put(ctx, jetstream.ObjectMeta{Name: name}, reader)
	if err != nil {
		slog.ErrorContext(ctx, "error storing object in NATS object store",
			logging.ErrKey, err, "object_name", name)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", domain.NewInternalError("failed to store object", err)
	}

	span.SetStatus(codes.Ok, "")
	return fmt.Sprintf("%s/%s", s.bucket, info.Name), nil
}

// PublicURL converts a reference returned by Put into a servable URL.
func (s *NatsObjectStore) PublicURL(ref string) string {
	return fmt.Sprintf("%s/%s", s.baseURL, ref)
}

// Delete removes the named object. Deleting a missing object is not an error.
func (s *NatsObjectStore) Delete(ctx context.Context, name string) error {
	if s.objStore == nil {
		return domain.NewUnavailableError("object store is not available")
	}

	err := s.objStore.Delete(ctx, name)
	if err != nil {
		if errors.Is(err, jetstream.ErrObjectNotFound) {
			return nil
		}
		slog.ErrorContext(ctx, "error deleting object from NATS object store",
			logging.ErrKey, err, "object_name", name)
		return domain.NewInternalError("failed to delete object", err)
	}

	return nil
}
