package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/fastlane/internal/domain/models"
	"github.com/Temutjin2k/fastlane/internal/domain/types"
	"github.com/Temutjin2k/fastlane/pkg/metrics"
	"github.com/Temutjin2k/fastlane/pkg/postgres"
	"github.com/google/uuid"
)

type DriveRepo struct {
	db *pgxpool.Pool
}

func NewDriveRepo(db *pgxpool.Pool) *DriveRepo {
	return &DriveRepo{db: db}
}

func (r *DriveRepo) Create(ctx context.Context, drive *models.Drive) (err error) {
	defer metrics.ObserveQuery("drive_create", time.Now(), &err)
	q := TxorDB(ctx, r.db)

	query := `
		INSERT INTO drives (id, trip_id, target_speed_mph, distance_miles, speed_percentage, status, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);`

	_, err = q.Exec(ctx, query,
		drive.ID, drive.TripID, drive.TargetSpeedMph, drive.DistanceMiles,
		drive.SpeedPercentage, drive.Status.String(), drive.StartedAt,
	)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return types.ErrTripNotFound
		}
		return fmt.Errorf("drive repo: Create: %w", err)
	}
	return nil
}

// CloseOpen finishes drives of the trip left RUNNING, e.g. by a crash before shutdown.
func (r *DriveRepo) CloseOpen(ctx context.Context, tripID uuid.UUID, status types.DriveState, at time.Time) (err error) {
	defer metrics.ObserveQuery("drive_close_open", time.Now(), &err)
	q := TxorDB(ctx, r.db)

	query := `
		UPDATE drives
		SET status = $2, finished_at = $3
		WHERE trip_id = $1 AND status = 'RUNNING';`

	if _, err = q.Exec(ctx, query, tripID, status.String(), at); err != nil {
		return fmt.Errorf("drive repo: CloseOpen: %w", err)
	}
	return nil
}

func (r *DriveRepo) Finish(ctx context.Context, driveID uuid.UUID, status types.DriveState, at time.Time) (err error) {
	defer metrics.ObserveQuery("drive_finish", time.Now(), &err)
	q := TxorDB(ctx, r.db)

	query := `
		UPDATE drives
		SET status = $2, finished_at = $3
		WHERE id = $1;`

	tag, err := q.Exec(ctx, query, driveID, status.String(), at)
	if err != nil {
		return fmt.Errorf("drive repo: Finish: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("drive repo: Finish: %w", types.ErrDriveNotRunning)
	}
	return nil
}

func (r *DriveRepo) SaveSnapshot(ctx context.Context, driveID uuid.UUID, snap models.DriveSnapshot) (err error) {
	defer metrics.ObserveQuery("drive_save_snapshot", time.Now(), &err)
	q := TxorDB(ctx, r.db)

	query := `
		INSERT INTO drive_snapshots (
			drive_id, elapsed_seconds, state, current_speed_mph,
			remaining_distance_miles, progress, latitude, longitude, payload
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`

	_, err = q.Exec(ctx, query,
		driveID, snap.ElapsedSeconds, snap.State.String(), snap.CurrentSpeedMph,
		snap.RemainingDistanceMiles, snap.Progress, snap.Position.Latitude, snap.Position.Longitude, snap,
	)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return fmt.Errorf("drive repo: SaveSnapshot: %w", types.ErrDriveNotRunning)
		}
		return fmt.Errorf("drive repo: SaveSnapshot: %w", err)
	}
	return nil
}
