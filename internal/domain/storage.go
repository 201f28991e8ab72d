// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"
	"io"
)

// ObjectStore defines the interface for blob storage of meeting result
// images. Put returns a storage reference; PublicURL converts a reference
// into a URL that can be persisted on the owning record.
type ObjectStore interface {
	Put(ctx context.Context, name string, reader io.Reader) (string, error)
	PublicURL(ref string) string
	Delete(ctx context.Context, name string) error
}
