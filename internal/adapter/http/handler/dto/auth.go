package dto

import (
	"github.com/Temutjin2k/fastlane/pkg/validator"
)

type IssueTokenRequest struct {
	DriverName string `json:"driver_name"`
}

func (r *IssueTokenRequest) Validate(v *validator.Validator) {
	v.Check(validator.NotBlank(r.DriverName), "driver_name", "must be provided")
	v.Check(len(r.DriverName) <= 64, "driver_name", "must not be more than 64 characters long")
}
