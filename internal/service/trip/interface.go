package trip

import (
	"context"

	"github.com/Temutjin2k/fastlane/internal/domain/models"
	"github.com/google/uuid"
)

type (
	TripRepo interface {
		Create(ctx context.Context, trip *models.Trip) error
		Get(ctx context.Context, tripID uuid.UUID) (*models.Trip, error)
		UpdateSpeed(ctx context.Context, tripID uuid.UUID, speedPercentage int) (*models.Trip, error)
	}

	CatalogStore interface {
		Search(ctx context.Context, query string) ([]models.Destination, error)
		Get(ctx context.Context, name string) (models.Destination, error)
	}
)
