package drive

import (
	"context"
	"time"

	"github.com/Temutjin2k/fastlane/internal/domain/models"
	"github.com/Temutjin2k/fastlane/internal/domain/types"
	"github.com/google/uuid"
)

type (
	// TripSource resolves a trip owned by a driver with its current summary.
	TripSource interface {
		Get(ctx context.Context, driverID, tripID uuid.UUID) (*models.Trip, models.TripSummary, error)
	}

	DriveRepo interface {
		Create(ctx context.Context, drive *models.Drive) error
		// CloseOpen marks drives of the trip that are still RUNNING with status.
		CloseOpen(ctx context.Context, tripID uuid.UUID, status types.DriveState, at time.Time) error
		Finish(ctx context.Context, driveID uuid.UUID, status types.DriveState, at time.Time) error
		SaveSnapshot(ctx context.Context, driveID uuid.UUID, snap models.DriveSnapshot) error
	}

	EventPublisher interface {
		PublishDriveEvent(ctx context.Context, msg models.DriveEventMessage) error
	}

	// Notifier pushes snapshots to clients watching a trip.
	Notifier interface {
		SendSnapshot(ctx context.Context, tripID uuid.UUID, snap models.DriveSnapshot) error
	}
)
