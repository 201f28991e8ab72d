// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendCtx(t *testing.T) {
	ctx := AppendCtx(context.Background(), slog.String("user_uid", "u-1"))
	ctx = AppendCtx(ctx, slog.String("meeting_uid", "m-1"))

	attrs, ok := ctx.Value(slogFields).([]slog.Attr)
	require.True(t, ok)
	assert.Len(t, attrs, 2)
	assert.Equal(t, "user_uid", attrs[0].Key)
	assert.Equal(t, "meeting_uid", attrs[1].Key)
}

func TestAppendCtx_NilParent(t *testing.T) {
	//nolint:staticcheck // exercising the nil-parent guard
	ctx := AppendCtx(nil, slog.String("k", "v"))

	attrs, ok := ctx.Value(slogFields).([]slog.Attr)
	require.True(t, ok)
	assert.Len(t, attrs, 1)
}

func TestContextHandler_IncludesContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	handler := contextHandler{slog.NewJSONHandler(&buf, nil)}
	logger := slog.New(handler)

	ctx := AppendCtx(context.Background(), slog.String("proposal_uid", "p-1"))
	logger.InfoContext(ctx, "evaluating proposal")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "p-1", record["proposal_uid"])
	assert.Equal(t, "evaluating proposal", record["msg"])
}

func TestPriority(t *testing.T) {
	attr := PriorityCritical()
	assert.Equal(t, "priority", attr.Key)
	assert.Equal(t, "critical", attr.Value.String())
}
