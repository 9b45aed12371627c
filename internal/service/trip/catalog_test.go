package trip

import (
	"context"
	"testing"

	"github.com/Temutjin2k/fastlane/internal/domain/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(c *Catalog, q string) []string {
	var out []string
	for _, d := range c.Search(q) {
		out = append(out, d.Name)
	}
	return out
}

func TestCatalog_Search(t *testing.T) {
	c := NewCatalog(DefaultDestinations)

	assert.Equal(t, []string{"Work", "Home", "Airport", "Shopping Mall"}, names(c, ""))
	assert.Equal(t, []string{"Work", "Home", "Airport", "Shopping Mall"}, names(c, "   "))
	assert.Equal(t, []string{"Airport"}, names(c, "AIR"))
	// matches the address "Terminal 1" and "Downtown"
	assert.Equal(t, []string{"Airport"}, names(c, "terminal"))
	assert.Equal(t, []string{"Work"}, names(c, "downtown"))
	assert.Equal(t, []string{"Home"}, names(c, "st"))
	assert.Equal(t, []string{"Work", "Airport", "Shopping Mall"}, names(c, "in"))
	assert.Empty(t, names(c, "mars"))
}

func TestCatalog_Select(t *testing.T) {
	c := NewCatalog(DefaultDestinations)

	d, err := c.Select("shopping mall")
	require.NoError(t, err)
	assert.Equal(t, 5.8, d.DistanceMiles)
	assert.Equal(t, "789 Commerce Blvd", d.Address)

	_, err = c.Select("Moon")
	require.ErrorIs(t, err, types.ErrDestinationNotFound)
}

func TestCatalog_IsImmutable(t *testing.T) {
	c := NewCatalog(DefaultDestinations)
	res := c.Search("")
	res[0].DistanceMiles = 999

	d, err := c.Select("Work")
	require.NoError(t, err)
	assert.Equal(t, 15.2, d.DistanceMiles)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore(NewCatalog(DefaultDestinations))

	list, err := s.Search(context.Background(), "home")
	require.NoError(t, err)
	require.Len(t, list, 1)

	d, err := s.Get(context.Background(), "Airport")
	require.NoError(t, err)
	assert.Equal(t, 32.1, d.DistanceMiles)
}
