package wshandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Temutjin2k/fastlane/internal/adapter/http/ws/dto"
	"github.com/Temutjin2k/fastlane/internal/domain/models"
	"github.com/Temutjin2k/fastlane/internal/domain/types"
	"github.com/Temutjin2k/fastlane/pkg/validator"
	ws "github.com/Temutjin2k/fastlane/pkg/wsHub"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const defaultPingInterval = 30 * time.Second

// TripHub streams drive snapshots to the client watching each trip.
type TripHub struct {
	connections  *ws.ConnectionHub
	pingInterval time.Duration
}

func NewTripHub(connHub *ws.ConnectionHub) *TripHub {
	return &TripHub{
		connections:  connHub,
		pingInterval: defaultPingInterval,
	}
}

// SendSnapshot returns types.ErrNoWatchers when nobody watches the trip.
func (h *TripHub) SendSnapshot(_ context.Context, tripID uuid.UUID, snap models.DriveSnapshot) error {
	const op = "TripHub.SendSnapshot"

	if err := h.connections.SendTo(tripID, dto.NewSnapshotMessage(tripID, snap)); err != nil {
		if errors.Is(err, ws.ErrConnIsNotFound) {
			return types.ErrNoWatchers
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Watch registers an upgraded connection for a trip and serves it until the client leaves
// or ctx is done. The current snapshot, when there is one, is sent right away.
func (h *TripHub) Watch(ctx context.Context, tripID uuid.UUID, c *websocket.Conn, current *models.DriveSnapshot) error {
	const op = "TripHub.Watch"

	conn := ws.NewConn(ctx, tripID, c)
	if err := h.connections.Add(conn); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer h.connections.Remove(conn)

	if current != nil {
		if err := conn.Send(dto.NewSnapshotMessage(tripID, *current)); err != nil {
			return fmt.Errorf("%s: initial snapshot: %w", op, err)
		}
	}

	go h.keepAlive(ctx, conn)

	err := conn.Listen(func(raw []byte) error {
		var msg dto.ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return errorResponse(conn, "invalid json")
		}

		v := validator.New()
		msg.Validate(v)
		if !v.Valid() {
			return failedValidationResponse(conn, v.Errors)
		}

		return conn.Send(dto.PongMessage{MsgType: dto.TypePong, At: time.Now().UTC()})
	})
	return listenErr(op, conn, err)
}

// keepAlive pings the client until the connection or ctx is done.
// A failed ping closes the connection, which ends Listen.
func (h *TripHub) keepAlive(ctx context.Context, conn *ws.Conn) {
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close()
			return
		case <-conn.Done():
			return
		case <-ticker.C:
			if err := conn.Health(); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}

// listenErr drops errors caused by a normal close on either side.
func listenErr(op string, conn *ws.Conn, err error) error {
	if err == nil || errors.Is(err, ws.ErrConnClosed) {
		return nil
	}
	select {
	case <-conn.Done():
		return nil
	default:
	}

	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) &&
		(closeErr.Code == websocket.CloseNormalClosure || closeErr.Code == websocket.CloseGoingAway || closeErr.Code == websocket.CloseNoStatusReceived) {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
