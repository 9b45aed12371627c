package wrap

import (
	"context"
)

type (
	// LogCtx holds contextual information for logging
	LogCtx struct {
		Action    string
		RequestID string
		DriverID  string
		TripID    string
	}

	logCtxKeyStruct struct{}
)

// LogCtxKey is the key for log context values
var LogCtxKey = &logCtxKeyStruct{}

// FromContext returns the LogCtx stored in ctx, or an empty one.
func FromContext(ctx context.Context) LogCtx {
	if lc, ok := ctx.Value(LogCtxKey).(LogCtx); ok {
		return lc
	}
	return LogCtx{}
}

// WithLogCtx merges newLc into the LogCtx already stored in ctx.
// Empty fields of newLc keep the existing values.
func WithLogCtx(ctx context.Context, newLc LogCtx) context.Context {
	lc := FromContext(ctx)
	if newLc.Action != "" {
		lc.Action = newLc.Action
	}
	if newLc.RequestID != "" {
		lc.RequestID = newLc.RequestID
	}
	if newLc.DriverID != "" {
		lc.DriverID = newLc.DriverID
	}
	if newLc.TripID != "" {
		lc.TripID = newLc.TripID
	}
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithAction adds or updates the Action in the LogCtx within the context
func WithAction(ctx context.Context, action string) context.Context {
	lc := FromContext(ctx)
	lc.Action = action
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithRequestID adds or updates the RequestID in the LogCtx within the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	lc := FromContext(ctx)
	lc.RequestID = requestID
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithDriverID adds or updates the DriverID in the LogCtx within the context
func WithDriverID(ctx context.Context, driverID string) context.Context {
	lc := FromContext(ctx)
	lc.DriverID = driverID
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithTripID adds or updates the TripID in the LogCtx within the context
func WithTripID(ctx context.Context, tripID string) context.Context {
	lc := FromContext(ctx)
	lc.TripID = tripID
	return context.WithValue(ctx, LogCtxKey, lc)
}
