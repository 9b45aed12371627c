package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Temutjin2k/fastlane/internal/domain/models"
	"github.com/Temutjin2k/fastlane/pkg/logger"
	wrap "github.com/Temutjin2k/fastlane/pkg/logger/wrapper"
)

type CatalogService interface {
	Destinations(ctx context.Context, query string) ([]models.Destination, error)
	SpeedInfo(speedPercentage int) (models.SpeedDisplay, error)
}

// Catalog serves the public, read-only endpoints: destination search and the speed slider.
type Catalog struct {
	service CatalogService
	l       logger.Logger
}

func NewCatalog(service CatalogService, l logger.Logger) *Catalog {
	return &Catalog{
		service: service,
		l:       l,
	}
}

// Destinations godoc
// @Summary      Search destinations
// @Description  Case-insensitive match on name or address. An empty query lists the whole catalog.
// @Tags         Catalog
// @Produce      json
// @Param        q    query     string  false  "Search text"
// @Success      200  {object}  map[string]any
// @Router       /destinations [get]
func (h *Catalog) Destinations(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "search_destinations")

	list, err := h.service.Destinations(ctx, r.URL.Query().Get("q"))
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to search destinations", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"destinations": list}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Speed godoc
// @Summary      Speed slider info
// @Description  Label, tier, gauge rotation and warning flag for a speed percentage
// @Tags         Catalog
// @Produce      json
// @Param        pct  path      int  true  "Speed percentage (0-50)"
// @Success      200  {object}  models.SpeedDisplay
// @Failure      400  {object}  map[string]any
// @Failure      422  {object}  map[string]any
// @Router       /speed/{pct} [get]
func (h *Catalog) Speed(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "speed_info")

	pct, err := strconv.Atoi(r.PathValue("pct"))
	if err != nil {
		badRequestResponse(w, "speed percentage must be an integer")
		return
	}

	display, err := h.service.SpeedInfo(pct)
	if err != nil {
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"speed": display}, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}
