package dto

import (
	"time"

	"github.com/Temutjin2k/fastlane/internal/domain/models"
	"github.com/Temutjin2k/fastlane/pkg/validator"
	"github.com/google/uuid"
)

const (
	TypeSnapshot = "drive_snapshot"
	TypePing     = "ping"
	TypePong     = "pong"
)

// SnapshotMessage is pushed to a watcher on every tick.
type SnapshotMessage struct {
	MsgType  string               `json:"type"`
	TripID   uuid.UUID            `json:"trip_id"`
	Snapshot models.DriveSnapshot `json:"data"`
	SentAt   time.Time            `json:"sent_at"`
}

func NewSnapshotMessage(tripID uuid.UUID, snap models.DriveSnapshot) SnapshotMessage {
	return SnapshotMessage{
		MsgType:  TypeSnapshot,
		TripID:   tripID,
		Snapshot: snap,
		SentAt:   time.Now().UTC(),
	}
}

// ClientMessage is the only frame a watcher may send.
type ClientMessage struct {
	MsgType string `json:"type"`
}

func (m *ClientMessage) Validate(v *validator.Validator) {
	v.Check(validator.PermittedValue(m.MsgType, TypePing), "type", "must be: ping")
}

type PongMessage struct {
	MsgType string    `json:"type"`
	At      time.Time `json:"at"`
}
