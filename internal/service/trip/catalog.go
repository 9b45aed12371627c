package trip

import (
	"context"
	"slices"
	"strings"

	"github.com/Temutjin2k/fastlane/internal/domain/models"
	"github.com/Temutjin2k/fastlane/internal/domain/types"
)

// DefaultDestinations is the built-in catalog.
var DefaultDestinations = []models.Destination{
	{Name: "Work", Address: "123 Business Ave, Downtown", DistanceMiles: 15.2},
	{Name: "Home", Address: "456 Residential St, Suburbs", DistanceMiles: 8.5},
	{Name: "Airport", Address: "International Airport Terminal 1", DistanceMiles: 32.1},
	{Name: "Shopping Mall", Address: "789 Commerce Blvd", DistanceMiles: 5.8},
}

// Catalog is an immutable list of destinations.
type Catalog struct {
	entries []models.Destination
}

func NewCatalog(entries []models.Destination) *Catalog {
	return &Catalog{entries: slices.Clone(entries)}
}

// Search returns entries whose name or address contains query, ignoring case.
// A blank query returns the whole catalog.
func (c *Catalog) Search(query string) []models.Destination {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return slices.Clone(c.entries)
	}

	out := make([]models.Destination, 0, len(c.entries))
	for _, d := range c.entries {
		if strings.Contains(strings.ToLower(d.Name), q) || strings.Contains(strings.ToLower(d.Address), q) {
			out = append(out, d)
		}
	}
	return out
}

// Select returns the entry with the given name, ignoring case.
func (c *Catalog) Select(name string) (models.Destination, error) {
	name = strings.TrimSpace(name)
	for _, d := range c.entries {
		if strings.EqualFold(d.Name, name) {
			return d, nil
		}
	}
	return models.Destination{}, types.ErrDestinationNotFound
}

// MemoryStore serves a Catalog through the CatalogStore interface.
type MemoryStore struct {
	catalog *Catalog
}

func NewMemoryStore(c *Catalog) *MemoryStore {
	return &MemoryStore{catalog: c}
}

func (s *MemoryStore) Search(_ context.Context, query string) ([]models.Destination, error) {
	return s.catalog.Search(query), nil
}

func (s *MemoryStore) Get(_ context.Context, name string) (models.Destination, error) {
	return s.catalog.Select(name)
}
