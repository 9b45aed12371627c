package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Temutjin2k/fastlane/internal/domain/models"
	"github.com/Temutjin2k/fastlane/internal/domain/types"
	"github.com/Temutjin2k/fastlane/pkg/metrics"

	_ "modernc.org/sqlite"
)

const MemoryPath = ":memory:"

// Open opens the catalog database at path. MemoryPath keeps a single connection
// so every query sees the same in-memory database.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %q: %w", path, err)
	}

	if path == MemoryPath {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(4)
		db.SetConnMaxLifetime(time.Hour)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("verify sqlite connection to %q: %w", path, err)
	}
	return db, nil
}

// CatalogRepo serves destinations from a sqlite table.
type CatalogRepo struct {
	db *sql.DB
}

func NewCatalogRepo(db *sql.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func (r *CatalogRepo) InitSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS destinations (
			name           TEXT PRIMARY KEY COLLATE NOCASE,
			address        TEXT NOT NULL,
			distance_miles REAL NOT NULL CHECK (distance_miles >= 0),
			position       INTEGER NOT NULL
		);`

	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("catalog repo: InitSchema: %w", err)
	}
	return nil
}

// Seed upserts entries, keeping their order for listing.
func (r *CatalogRepo) Seed(ctx context.Context, entries []models.Destination) (err error) {
	defer metrics.ObserveQuery("catalog_seed", time.Now(), &err)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog repo: Seed: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `
		INSERT INTO destinations (name, address, distance_miles, position)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			address = excluded.address,
			distance_miles = excluded.distance_miles,
			position = excluded.position;`

	for i, d := range entries {
		if _, err = tx.ExecContext(ctx, query, d.Name, d.Address, d.DistanceMiles, i); err != nil {
			return fmt.Errorf("catalog repo: Seed %q: %w", d.Name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("catalog repo: Seed: %w", err)
	}
	return nil
}

// Search matches query against name or address, ignoring case.
func (r *CatalogRepo) Search(ctx context.Context, query string) (_ []models.Destination, err error) {
	defer metrics.ObserveQuery("catalog_search", time.Now(), &err)

	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(query))) + "%"
	const q = `
		SELECT name, address, distance_miles
		FROM destinations
		WHERE LOWER(name) LIKE ? ESCAPE '\' OR LOWER(address) LIKE ? ESCAPE '\'
		ORDER BY position;`

	rows, err := r.db.QueryContext(ctx, q, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("catalog repo: Search: %w", err)
	}
	defer rows.Close()

	out := make([]models.Destination, 0)
	for rows.Next() {
		var d models.Destination
		if err = rows.Scan(&d.Name, &d.Address, &d.DistanceMiles); err != nil {
			return nil, fmt.Errorf("catalog repo: Search scan: %w", err)
		}
		out = append(out, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog repo: Search: %w", err)
	}
	return out, nil
}

func (r *CatalogRepo) Get(ctx context.Context, name string) (_ models.Destination, err error) {
	defer metrics.ObserveQuery("catalog_get", time.Now(), &err)

	const q = `SELECT name, address, distance_miles FROM destinations WHERE name = ?;`

	var d models.Destination
	err = r.db.QueryRowContext(ctx, q, strings.TrimSpace(name)).Scan(&d.Name, &d.Address, &d.DistanceMiles)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Destination{}, types.ErrDestinationNotFound
		}
		return models.Destination{}, fmt.Errorf("catalog repo: Get: %w", err)
	}
	return d, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
