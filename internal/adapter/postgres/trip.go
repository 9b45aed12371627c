package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/fastlane/internal/domain/models"
	"github.com/Temutjin2k/fastlane/internal/domain/types"
	"github.com/Temutjin2k/fastlane/pkg/metrics"
	"github.com/google/uuid"
)

type TripRepo struct {
	db *pgxpool.Pool
}

func NewTripRepo(db *pgxpool.Pool) *TripRepo {
	return &TripRepo{db: db}
}

func (r *TripRepo) Create(ctx context.Context, trip *models.Trip) (err error) {
	defer metrics.ObserveQuery("trip_create", time.Now(), &err)
	q := TxorDB(ctx, r.db)

	if trip.ID == uuid.Nil {
		trip.ID = uuid.New()
	}

	query := `
		INSERT INTO trips (id, driver_id, destination_name, address, distance_miles, speed_percentage)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at;`

	err = q.QueryRow(ctx, query,
		trip.ID, trip.DriverID, trip.DestinationName, trip.Address, trip.DistanceMiles, trip.SpeedPercentage,
	).Scan(&trip.CreatedAt)
	if err != nil {
		return fmt.Errorf("trip repo: Create: %w", err)
	}
	return nil
}

func (r *TripRepo) Get(ctx context.Context, tripID uuid.UUID) (_ *models.Trip, err error) {
	defer metrics.ObserveQuery("trip_get", time.Now(), &err)
	q := TxorDB(ctx, r.db)

	query := `
		SELECT id, driver_id, destination_name, address, distance_miles, speed_percentage, created_at, updated_at
		FROM trips
		WHERE id = $1;`

	trip, err := scanTrip(q.QueryRow(ctx, query, tripID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrTripNotFound
		}
		return nil, fmt.Errorf("trip repo: Get: %w", err)
	}
	return trip, nil
}

// UpdateSpeed stores a new speed percentage and returns the updated trip.
func (r *TripRepo) UpdateSpeed(ctx context.Context, tripID uuid.UUID, speedPercentage int) (_ *models.Trip, err error) {
	defer metrics.ObserveQuery("trip_update_speed", time.Now(), &err)
	q := TxorDB(ctx, r.db)

	query := `
		UPDATE trips
		SET speed_percentage = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, driver_id, destination_name, address, distance_miles, speed_percentage, created_at, updated_at;`

	trip, err := scanTrip(q.QueryRow(ctx, query, tripID, speedPercentage))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrTripNotFound
		}
		return nil, fmt.Errorf("trip repo: UpdateSpeed: %w", err)
	}
	return trip, nil
}

func scanTrip(row pgx.Row) (*models.Trip, error) {
	var (
		trip      models.Trip
		updatedAt *time.Time
	)
	err := row.Scan(
		&trip.ID, &trip.DriverID, &trip.DestinationName, &trip.Address,
		&trip.DistanceMiles, &trip.SpeedPercentage, &trip.CreatedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if updatedAt != nil {
		trip.UpdatedAt = *updatedAt
	}
	return &trip, nil
}
