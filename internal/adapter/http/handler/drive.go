package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/Temutjin2k/fastlane/internal/domain/models"
	"github.com/Temutjin2k/fastlane/internal/domain/types"
	"github.com/Temutjin2k/fastlane/pkg/logger"
	wrap "github.com/Temutjin2k/fastlane/pkg/logger/wrapper"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type (
	DriveService interface {
		Start(ctx context.Context, driverID, tripID uuid.UUID) (*models.DriveStart, error)
		Stop(ctx context.Context, driverID, tripID uuid.UUID) (models.DriveSnapshot, error)
		Snapshot(ctx context.Context, driverID, tripID uuid.UUID) (models.DriveSnapshot, error)
	}

	// TripOwner checks that a trip exists and belongs to the driver.
	TripOwner interface {
		Get(ctx context.Context, driverID, tripID uuid.UUID) (*models.Trip, models.TripSummary, error)
	}

	SnapshotStream interface {
		Watch(ctx context.Context, tripID uuid.UUID, conn *websocket.Conn, current *models.DriveSnapshot) error
	}
)

type Drive struct {
	service  DriveService
	trips    TripOwner
	stream   SnapshotStream
	upgrader websocket.Upgrader
	l        logger.Logger
}

func NewDrive(service DriveService, trips TripOwner, stream SnapshotStream, l logger.Logger) *Drive {
	return &Drive{
		service: service,
		trips:   trips,
		stream:  stream,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// origin is enforced by the CORS layer
			CheckOrigin: func(*http.Request) bool { return true },
		},
		l: l,
	}
}

// Start godoc
// @Summary      Start navigation
// @Description  Starts the drive simulation of a planned trip at its boosted speed
// @Tags         Drive
// @Produce      json
// @Security     BearerAuth
// @Param        trip_id  path      string  true  "Trip ID"
// @Success      201      {object}  models.DriveStart
// @Failure      404      {object}  map[string]any
// @Failure      409      {object}  map[string]any
// @Router       /trips/{trip_id}/drive [post]
func (h *Drive) Start(w http.ResponseWriter, r *http.Request) {
	driver, tripID, ok := h.params(w, r)
	if !ok {
		return
	}
	ctx := wrap.WithTripID(r.Context(), tripID.String())

	start, err := h.service.Start(ctx, driver.ID, tripID)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to start drive", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusCreated, envelope{"drive": start}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Stop godoc
// @Summary      Stop navigation
// @Tags         Drive
// @Produce      json
// @Security     BearerAuth
// @Param        trip_id  path      string  true  "Trip ID"
// @Success      200      {object}  models.DriveSnapshot
// @Failure      409      {object}  map[string]any
// @Router       /trips/{trip_id}/drive [delete]
func (h *Drive) Stop(w http.ResponseWriter, r *http.Request) {
	driver, tripID, ok := h.params(w, r)
	if !ok {
		return
	}
	ctx := wrap.WithTripID(r.Context(), tripID.String())

	snap, err := h.service.Stop(ctx, driver.ID, tripID)
	if err != nil {
		h.l.Warn(ctx, "failed to stop drive", "error", err.Error())
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"snapshot": snap}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Snapshot godoc
// @Summary      Current drive state
// @Tags         Drive
// @Produce      json
// @Security     BearerAuth
// @Param        trip_id  path      string  true  "Trip ID"
// @Success      200      {object}  models.DriveSnapshot
// @Failure      409      {object}  map[string]any
// @Router       /trips/{trip_id}/drive [get]
func (h *Drive) Snapshot(w http.ResponseWriter, r *http.Request) {
	driver, tripID, ok := h.params(w, r)
	if !ok {
		return
	}
	ctx := wrap.WithTripID(r.Context(), tripID.String())

	snap, err := h.service.Snapshot(ctx, driver.ID, tripID)
	if err != nil {
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"snapshot": snap}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Stream godoc
// @Summary      Stream drive snapshots
// @Description  WebSocket. Sends the current snapshot, then one per tick. Browsers may pass the token as ?access_token=.
// @Tags         Drive
// @Security     BearerAuth
// @Param        trip_id  path  string  true  "Trip ID"
// @Success      101
// @Router       /ws/trips/{trip_id} [get]
func (h *Drive) Stream(w http.ResponseWriter, r *http.Request) {
	driver, tripID, ok := h.params(w, r)
	if !ok {
		return
	}
	ctx := wrap.WithAction(wrap.WithTripID(r.Context(), tripID.String()), types.ActionStreamSnapshot)

	if _, _, err := h.trips.Get(ctx, driver.ID, tripID); err != nil {
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	var current *models.DriveSnapshot
	snap, err := h.service.Snapshot(ctx, driver.ID, tripID)
	switch {
	case err == nil:
		current = &snap
	case !errors.Is(err, types.ErrDriveNotRunning):
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to read drive snapshot", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already replied
		h.l.Warn(ctx, "websocket upgrade failed", "error", err.Error())
		return
	}

	h.l.Info(ctx, "watcher connected")
	if err := h.stream.Watch(ctx, tripID, conn, current); err != nil {
		h.l.Warn(ctx, "watcher disconnected with error", "error", err.Error())
		return
	}
	h.l.Info(ctx, "watcher disconnected")
}

func (h *Drive) params(w http.ResponseWriter, r *http.Request) (*models.User, uuid.UUID, bool) {
	driver, ok := driverFrom(r)
	if !ok {
		unauthorizedResponse(w)
		return nil, uuid.Nil, false
	}

	tripID, err := tripIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return nil, uuid.Nil, false
	}
	return driver, tripID, true
}
