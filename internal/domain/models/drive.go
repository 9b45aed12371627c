package models

import (
	"time"

	"github.com/Temutjin2k/fastlane/internal/domain/types"
	"github.com/google/uuid"
)

// Instruction is one turn-by-turn step.
type Instruction struct {
	Text     string  `json:"text"`
	LegMiles float64 `json:"leg_miles"`
}

// DriveSnapshot is the read-only view of a drive, refreshed once per tick.
type DriveSnapshot struct {
	State                   types.DriveState `json:"state"`
	TargetSpeedMph          float64          `json:"target_speed_mph"`
	CurrentSpeedMph         float64          `json:"current_speed_mph"`
	DistanceMiles           float64          `json:"distance_miles"`
	RemainingDistanceMiles  float64          `json:"remaining_distance_miles"`
	RemainingTimeMinutes    float64          `json:"remaining_time_minutes"`
	RemainingTime           string           `json:"remaining_time"`
	ElapsedSeconds          int              `json:"elapsed_seconds"`
	Progress                float64          `json:"progress"`
	CurrentInstructionIndex int              `json:"current_instruction_index"`
	Instruction             Instruction      `json:"instruction"`
	Position                Location         `json:"position"`
	HeadingDeg              float64          `json:"heading_deg"`
}

// Drive is a persisted drive session of a trip.
type Drive struct {
	ID              uuid.UUID        `json:"id"`
	TripID          uuid.UUID        `json:"trip_id"`
	TargetSpeedMph  float64          `json:"target_speed_mph"`
	DistanceMiles   float64          `json:"distance_miles"`
	SpeedPercentage int              `json:"speed_percentage"`
	Status          types.DriveState `json:"status"`
	StartedAt       time.Time        `json:"started_at"`
	FinishedAt      *time.Time       `json:"finished_at,omitempty"`
}

// DriveStart is returned when navigation starts.
type DriveStart struct {
	Drive    *Drive        `json:"drive"`
	Title    string        `json:"title"`
	Message  string        `json:"message"`
	Snapshot DriveSnapshot `json:"snapshot"`
}

// DriveEventMessage is published to the drive topic exchange.
type DriveEventMessage struct {
	Event     types.DriveEvent `json:"event"`
	TripID    uuid.UUID        `json:"trip_id"`
	DriveID   uuid.UUID        `json:"drive_id"`
	DriverID  uuid.UUID        `json:"driver_id"`
	Snapshot  DriveSnapshot    `json:"snapshot"`
	Timestamp time.Time        `json:"timestamp"`
}
