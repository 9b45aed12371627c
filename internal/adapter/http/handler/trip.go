package handler

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/fastlane/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/fastlane/internal/domain/models"
	"github.com/Temutjin2k/fastlane/pkg/logger"
	wrap "github.com/Temutjin2k/fastlane/pkg/logger/wrapper"
	"github.com/Temutjin2k/fastlane/pkg/validator"
	"github.com/google/uuid"
)

type TripService interface {
	Plan(ctx context.Context, driverID uuid.UUID, destinationName string, speedPercentage int) (*models.Trip, models.TripSummary, error)
	Get(ctx context.Context, driverID, tripID uuid.UUID) (*models.Trip, models.TripSummary, error)
	UpdateSpeed(ctx context.Context, driverID, tripID uuid.UUID, speedPercentage int) (*models.Trip, models.TripSummary, error)
}

type Trip struct {
	service TripService
	l       logger.Logger
}

func NewTrip(service TripService, l logger.Logger) *Trip {
	return &Trip{
		service: service,
		l:       l,
	}
}

// Plan godoc
// @Summary      Plan a trip
// @Description  Selects a catalog destination and stores a trip with its speed boost
// @Tags         Trips
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      dto.PlanTripRequest  true  "Trip"
// @Success      201      {object}  dto.TripResponse
// @Failure      404      {object}  map[string]any
// @Failure      422      {object}  map[string]any
// @Router       /trips [post]
func (h *Trip) Plan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	driver, ok := driverFrom(r)
	if !ok {
		unauthorizedResponse(w)
		return
	}

	req := &dto.PlanTripRequest{}
	if err := readJSON(w, r, req); err != nil {
		h.l.Warn(ctx, "failed to read request JSON data", "error", err.Error())
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	trip, summary, err := h.service.Plan(ctx, driver.ID, req.Destination, *req.SpeedPercentage)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to plan trip", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	h.respond(ctx, w, http.StatusCreated, trip, summary)
}

// Get godoc
// @Summary      Get a trip
// @Tags         Trips
// @Produce      json
// @Security     BearerAuth
// @Param        trip_id  path      string  true  "Trip ID"
// @Success      200      {object}  dto.TripResponse
// @Failure      403      {object}  map[string]any
// @Failure      404      {object}  map[string]any
// @Router       /trips/{trip_id} [get]
func (h *Trip) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	driver, ok := driverFrom(r)
	if !ok {
		unauthorizedResponse(w)
		return
	}

	tripID, err := tripIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}
	ctx = wrap.WithTripID(ctx, tripID.String())

	trip, summary, err := h.service.Get(ctx, driver.ID, tripID)
	if err != nil {
		h.l.Warn(ctx, "failed to get trip", "error", err.Error())
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	h.respond(ctx, w, http.StatusOK, trip, summary)
}

// UpdateSpeed godoc
// @Summary      Change the speed boost
// @Description  A running drive keeps the target speed it started with
// @Tags         Trips
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        trip_id  path      string                  true  "Trip ID"
// @Param        request  body      dto.UpdateSpeedRequest  true  "Speed"
// @Success      200      {object}  dto.TripResponse
// @Failure      404      {object}  map[string]any
// @Failure      422      {object}  map[string]any
// @Router       /trips/{trip_id}/speed [patch]
func (h *Trip) UpdateSpeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	driver, ok := driverFrom(r)
	if !ok {
		unauthorizedResponse(w)
		return
	}

	tripID, err := tripIDParam(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}
	ctx = wrap.WithTripID(ctx, tripID.String())

	req := &dto.UpdateSpeedRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	trip, summary, err := h.service.UpdateSpeed(ctx, driver.ID, tripID, *req.SpeedPercentage)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to update speed", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	h.respond(ctx, w, http.StatusOK, trip, summary)
}

func (h *Trip) respond(ctx context.Context, w http.ResponseWriter, status int, trip *models.Trip, summary models.TripSummary) {
	response := envelope{"trip": trip, "summary": summary}
	if err := writeJSON(w, status, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}
