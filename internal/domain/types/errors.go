package types

import "errors"

var (
	ErrInvalidDistance        = errors.New("distance must be a finite non-negative number of miles")
	ErrInvalidSpeedPercentage = errors.New("speed percentage must be between 0 and 50")
	ErrInvalidTargetSpeed     = errors.New("target speed must be a finite non-negative number")

	ErrDestinationNotFound = errors.New("destination not found")
	ErrTripNotPlanned      = errors.New("trip is not planned: select a destination first")
	ErrTripNotFound        = errors.New("trip not found")

	ErrDriveAlreadyRunning = errors.New("drive already running for this trip")
	ErrDriveNotRunning     = errors.New("no drive running for this trip")
	ErrShuttingDown        = errors.New("drive service is shutting down")

	ErrNoWatchers = errors.New("no watchers for trip")

	ErrInvalidToken = errors.New("invalid token")
	ErrForbidden    = errors.New("trip belongs to another driver")
)
