package models

import (
	"time"

	"github.com/Temutjin2k/fastlane/internal/domain/types"
	"github.com/google/uuid"
)

// TripParams is the user controlled input of the trip model.
// DistanceMiles is nil until a catalog destination has been selected.
type TripParams struct {
	Destination     string   `json:"destination"`
	DistanceMiles   *float64 `json:"distance_miles"`
	SpeedPercentage int      `json:"speed_percentage"`
}

// TripMetrics is derived from (distance, speed percentage) only.
type TripMetrics struct {
	BaseSpeedLimitMph float64 `json:"base_speed_limit_mph"`
	EffectiveSpeedMph float64 `json:"effective_speed_mph"`
	BaseEtaMinutes    float64 `json:"base_eta_minutes"`
	BoostedEtaMinutes float64 `json:"boosted_eta_minutes"`
	TimeSavedMinutes  float64 `json:"time_saved_minutes"`
}

// SpeedDisplay is the presentation of a speed percentage: slider label, gauge and warnings.
type SpeedDisplay struct {
	SpeedPercentage  int        `json:"speed_percentage"`
	Label            string     `json:"label"`
	Tier             types.Tier `json:"tier"`
	GaugeRotationDeg float64    `json:"gauge_rotation_deg"`
	Warning          bool       `json:"warning"`
}

// TripSummary is what a route card shows.
type TripSummary struct {
	Metrics    TripMetrics  `json:"metrics"`
	Display    SpeedDisplay `json:"display"`
	BaseEta    string       `json:"base_eta"`
	BoostedEta string       `json:"boosted_eta"`
	TimeSaved  string       `json:"time_saved"`
}

// Trip is a persisted planned trip.
type Trip struct {
	ID              uuid.UUID `json:"id"`
	DriverID        uuid.UUID `json:"driver_id"`
	DestinationName string    `json:"destination_name"`
	Address         string    `json:"address"`
	DistanceMiles   float64   `json:"distance_miles"`
	SpeedPercentage int       `json:"speed_percentage"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at,omitzero"`
}

// Params returns the trip model input of a persisted trip.
func (t *Trip) Params() TripParams {
	d := t.DistanceMiles
	return TripParams{
		Destination:     t.Address,
		DistanceMiles:   &d,
		SpeedPercentage: t.SpeedPercentage,
	}
}
