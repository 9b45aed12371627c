package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	wrap "github.com/Temutjin2k/fastlane/pkg/logger/wrapper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	return rec
}

func TestLogger_InjectsContextFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "nav-service", LevelDebug)

	ctx := wrap.WithAction(context.Background(), "start_drive")
	ctx = wrap.WithTripID(ctx, "trip-1")
	ctx = wrap.WithRequestID(ctx, "req-1")

	l.Info(ctx, "drive started", "target_mph", 54.0)

	rec := decodeLine(t, &buf)
	assert.Equal(t, "drive started", rec["message"])
	assert.Equal(t, "start_drive", rec["action"])
	assert.Equal(t, "trip-1", rec["trip_id"])
	assert.Equal(t, "req-1", rec["request_id"])
	assert.Equal(t, "nav-service", rec["service"])
	assert.Contains(t, rec, "timestamp")
}

func TestLogger_ErrorKeepsOriginContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "nav-service", LevelDebug)

	inner := func(ctx context.Context) error {
		ctx = wrap.WithAction(ctx, "persist_snapshot")
		return wrap.Error(ctx, errors.New("connection refused"))
	}

	ctx := wrap.WithRequestID(context.Background(), "req-9")
	err := inner(ctx)
	err = fmt.Errorf("DriveService.onTick: %w", err)

	l.Error(wrap.ErrorCtx(ctx, err), "tick failed", err)

	rec := decodeLine(t, &buf)
	assert.Equal(t, "persist_snapshot", rec["action"])
	assert.Equal(t, "req-9", rec["request_id"])
	errGroup, ok := rec["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "DriveService.onTick: connection refused", errGroup["msg"])
	assert.NotContains(t, errGroup, "message")
	assert.Equal(t, "tick failed", rec["message"])
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "svc", LevelWarn)

	l.Info(context.Background(), "hidden")
	assert.Zero(t, buf.Len())

	l.Warn(context.Background(), "shown")
	assert.NotZero(t, buf.Len())
}

func TestValidateLogLevel(t *testing.T) {
	for _, lvl := range []string{LevelDebug, LevelInfo, LevelWarn, LevelError} {
		if !ValidateLogLevel(lvl) {
			t.Fatalf("level %q must be valid", lvl)
		}
	}
	if ValidateLogLevel("TRACE") {
		t.Fatalf("TRACE must be rejected")
	}
}
