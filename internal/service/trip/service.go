package trip

import (
	"context"
	"fmt"
	"time"

	"github.com/Temutjin2k/fastlane/internal/domain/models"
	"github.com/Temutjin2k/fastlane/internal/domain/types"
	"github.com/Temutjin2k/fastlane/pkg/logger"
	wrap "github.com/Temutjin2k/fastlane/pkg/logger/wrapper"
	"github.com/Temutjin2k/fastlane/pkg/metrics"
	"github.com/Temutjin2k/fastlane/pkg/trm"
	"github.com/google/uuid"
)

type Service struct {
	repo    TripRepo
	catalog CatalogStore
	trm     trm.TxManager
	log     logger.Logger
}

func NewService(repo TripRepo, catalog CatalogStore, trm trm.TxManager, log logger.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		trm:     trm,
		log:     log,
	}
}

// Destinations searches the destination catalog.
func (s *Service) Destinations(ctx context.Context, query string) ([]models.Destination, error) {
	const op = "TripService.Destinations"

	list, err := s.catalog.Search(ctx, query)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return list, nil
}

// Plan selects a catalog destination and stores a new trip for the driver.
func (s *Service) Plan(ctx context.Context, driverID uuid.UUID, destinationName string, speedPercentage int) (*models.Trip, models.TripSummary, error) {
	const op = "TripService.Plan"
	ctx = wrap.WithAction(ctx, types.ActionPlanTrip)

	sess := NewSession()
	sess.SetDestinationText(destinationName)
	if err := sess.SetSpeedPercentage(speedPercentage); err != nil {
		return nil, models.TripSummary{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	dest, err := s.catalog.Get(ctx, destinationName)
	if err != nil {
		return nil, models.TripSummary{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	sess.SelectDestination(dest)

	summary, err := sess.Summary()
	if err != nil {
		return nil, models.TripSummary{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	params := sess.Params()
	trip := &models.Trip{
		ID:              uuid.New(),
		DriverID:        driverID,
		DestinationName: dest.Name,
		Address:         params.Destination,
		DistanceMiles:   *params.DistanceMiles,
		SpeedPercentage: params.SpeedPercentage,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, trip); err != nil {
		return nil, models.TripSummary{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	metrics.RecordTripPlanned(summary.Display.Tier)

	ctx = wrap.WithTripID(ctx, trip.ID.String())
	s.log.Info(ctx, "trip planned",
		"destination", trip.DestinationName,
		"distance_miles", trip.DistanceMiles,
		"speed_percentage", speedPercentage,
		"time_saved", summary.TimeSaved,
	)

	return trip, summary, nil
}

// Get returns a trip owned by driverID together with its summary.
func (s *Service) Get(ctx context.Context, driverID, tripID uuid.UUID) (*models.Trip, models.TripSummary, error) {
	const op = "TripService.Get"
	ctx = wrap.WithTripID(ctx, tripID.String())

	trip, err := s.owned(ctx, driverID, tripID)
	if err != nil {
		return nil, models.TripSummary{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	summary, err := Summarize(trip.DistanceMiles, trip.SpeedPercentage)
	if err != nil {
		return nil, models.TripSummary{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	return trip, summary, nil
}

// UpdateSpeed changes the speed percentage of a trip.
// A drive that is already running keeps the target speed it started with.
func (s *Service) UpdateSpeed(ctx context.Context, driverID, tripID uuid.UUID, speedPercentage int) (*models.Trip, models.TripSummary, error) {
	const op = "TripService.UpdateSpeed"
	ctx = wrap.WithAction(wrap.WithTripID(ctx, tripID.String()), types.ActionUpdateSpeed)

	if speedPercentage < MinSpeedPercentage || speedPercentage > MaxSpeedPercentage {
		return nil, models.TripSummary{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, types.ErrInvalidSpeedPercentage))
	}

	var updated *models.Trip
	err := s.trm.Do(ctx, func(ctx context.Context) error {
		if _, err := s.owned(ctx, driverID, tripID); err != nil {
			return err
		}

		var err error
		updated, err = s.repo.UpdateSpeed(ctx, tripID, speedPercentage)
		return err
	})
	if err != nil {
		return nil, models.TripSummary{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	summary, err := Summarize(updated.DistanceMiles, updated.SpeedPercentage)
	if err != nil {
		return nil, models.TripSummary{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	s.log.Info(ctx, "trip speed updated", "speed_percentage", speedPercentage, "tier", summary.Display.Tier)

	return updated, summary, nil
}

func (s *Service) owned(ctx context.Context, driverID, tripID uuid.UUID) (*models.Trip, error) {
	trip, err := s.repo.Get(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.DriverID != driverID {
		return nil, types.ErrForbidden
	}
	return trip, nil
}

// SpeedInfo returns the slider presentation of a speed percentage.
func (s *Service) SpeedInfo(speedPercentage int) (models.SpeedDisplay, error) {
	if speedPercentage < MinSpeedPercentage || speedPercentage > MaxSpeedPercentage {
		return models.SpeedDisplay{}, types.ErrInvalidSpeedPercentage
	}
	return Display(speedPercentage), nil
}
