package wrap

import (
	"context"
	"errors"
)

// Error attaches the LogCtx of ctx to err.
// When err already carries a LogCtx the inner one is refreshed with non-empty values from ctx.
func Error(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var e *errorWithLogCtx
	if errors.As(err, &e) {
		lc := e.logCtx
		cur := FromContext(ctx)
		if cur.Action != "" {
			lc.Action = cur.Action
		}
		if cur.RequestID != "" {
			lc.RequestID = cur.RequestID
		}
		if cur.DriverID != "" {
			lc.DriverID = cur.DriverID
		}
		if cur.TripID != "" {
			lc.TripID = cur.TripID
		}
		return &errorWithLogCtx{err: err, logCtx: lc}
	}

	return &errorWithLogCtx{
		err:    err,
		logCtx: FromContext(ctx),
	}
}
