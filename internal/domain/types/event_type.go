package types

import "strings"

type DriveEvent string

func (e DriveEvent) String() string {
	return string(e)
}

// RoutingSegment is the lower-case form used in broker routing keys.
func (e DriveEvent) RoutingSegment() string {
	return strings.ToLower(strings.TrimPrefix(string(e), "DRIVE_"))
}

const (
	EventDriveStarted  DriveEvent = "DRIVE_STARTED"
	EventDriveProgress DriveEvent = "DRIVE_PROGRESS"
	EventDriveArrived  DriveEvent = "DRIVE_ARRIVED"
	EventDriveStopped  DriveEvent = "DRIVE_STOPPED"
)
