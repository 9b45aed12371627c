package microservices

import (
	"context"
	"database/sql"

	"github.com/Temutjin2k/fastlane/config"
	"github.com/Temutjin2k/fastlane/internal/adapter/sqlite"
	"github.com/Temutjin2k/fastlane/internal/domain/types"
	"github.com/Temutjin2k/fastlane/internal/service/trip"
	"github.com/Temutjin2k/fastlane/pkg/logger"
)

// openCatalog returns the destination store selected by CATALOG_DRIVER.
// The returned *sql.DB is nil for the in-memory catalog.
func openCatalog(ctx context.Context, cfg config.CatalogConfig, log logger.Logger) (trip.CatalogStore, *sql.DB, error) {
	if cfg.Driver != types.CatalogSQLite {
		return trip.NewMemoryStore(trip.NewCatalog(trip.DefaultDestinations)), nil, nil
	}

	db, err := sqlite.Open(ctx, cfg.Path)
	if err != nil {
		return nil, nil, err
	}

	repo := sqlite.NewCatalogRepo(db)
	if err := repo.InitSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	if err := repo.Seed(ctx, trip.DefaultDestinations); err != nil {
		db.Close()
		return nil, nil, err
	}

	log.Info(ctx, "sqlite catalog ready", "path", cfg.Path)
	return repo, db, nil
}
