package dto

import (
	"github.com/Temutjin2k/fastlane/internal/domain/models"
	"github.com/Temutjin2k/fastlane/pkg/validator"
)

type PlanTripRequest struct {
	Destination     string `json:"destination"`
	SpeedPercentage *int   `json:"speed_percentage"`
}

func (r *PlanTripRequest) Validate(v *validator.Validator) {
	v.Check(validator.NotBlank(r.Destination), "destination", "must be provided")
	validateSpeed(v, r.SpeedPercentage)
}

type UpdateSpeedRequest struct {
	SpeedPercentage *int `json:"speed_percentage"`
}

func (r *UpdateSpeedRequest) Validate(v *validator.Validator) {
	validateSpeed(v, r.SpeedPercentage)
}

func validateSpeed(v *validator.Validator, pct *int) {
	v.Check(pct != nil, "speed_percentage", "must be provided")
	if pct != nil {
		v.Check(validator.Between(*pct, 0, 50), "speed_percentage", "must be between 0 and 50")
	}
}

// TripResponse is a trip with its route card.
type TripResponse struct {
	Trip    *models.Trip       `json:"trip"`
	Summary models.TripSummary `json:"summary"`
}
