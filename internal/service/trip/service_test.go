package trip

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/Temutjin2k/fastlane/internal/domain/models"
	"github.com/Temutjin2k/fastlane/internal/domain/types"
	"github.com/Temutjin2k/fastlane/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu    sync.Mutex
	trips map[uuid.UUID]models.Trip
}

func newMemRepo() *memRepo {
	return &memRepo{trips: make(map[uuid.UUID]models.Trip)}
}

func (r *memRepo) Create(_ context.Context, t *models.Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trips[t.ID] = *t
	return nil
}

func (r *memRepo) Get(_ context.Context, id uuid.UUID) (*models.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trips[id]
	if !ok {
		return nil, types.ErrTripNotFound
	}
	return &t, nil
}

func (r *memRepo) UpdateSpeed(_ context.Context, id uuid.UUID, pct int) (*models.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trips[id]
	if !ok {
		return nil, types.ErrTripNotFound
	}
	t.SpeedPercentage = pct
	r.trips[id] = t
	return &t, nil
}

type inlineTx struct{ calls int }

func (m *inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

func newTestService() (*Service, *memRepo, *inlineTx) {
	repo := newMemRepo()
	tx := &inlineTx{}
	log := logger.New(io.Discard, "test", logger.LevelError)
	return NewService(repo, NewMemoryStore(NewCatalog(DefaultDestinations)), tx, log), repo, tx
}

func TestService_Plan(t *testing.T) {
	svc, repo, _ := newTestService()
	driver := uuid.New()

	trip, summary, err := svc.Plan(context.Background(), driver, "airport", 20)
	require.NoError(t, err)

	assert.Equal(t, "Airport", trip.DestinationName)
	assert.Equal(t, 32.1, trip.DistanceMiles)
	assert.Equal(t, driver, trip.DriverID)
	assert.InDelta(t, 7.13, summary.Metrics.TimeSavedMinutes, 0.005)

	stored, err := repo.Get(context.Background(), trip.ID)
	require.NoError(t, err)
	assert.Equal(t, trip.Address, stored.Address)
}

func TestService_PlanErrors(t *testing.T) {
	svc, _, _ := newTestService()

	_, _, err := svc.Plan(context.Background(), uuid.New(), "Atlantis", 10)
	require.ErrorIs(t, err, types.ErrDestinationNotFound)

	_, _, err = svc.Plan(context.Background(), uuid.New(), "Work", 70)
	require.ErrorIs(t, err, types.ErrInvalidSpeedPercentage)
}

func TestService_UpdateSpeed(t *testing.T) {
	svc, _, tx := newTestService()
	driver := uuid.New()

	trip, _, err := svc.Plan(context.Background(), driver, "Work", 0)
	require.NoError(t, err)

	updated, summary, err := svc.UpdateSpeed(context.Background(), driver, trip.ID, 45)
	require.NoError(t, err)
	assert.Equal(t, 45, updated.SpeedPercentage)
	assert.Equal(t, types.TierExtreme, summary.Display.Tier)
	assert.Equal(t, 1, tx.calls)

	_, _, err = svc.UpdateSpeed(context.Background(), uuid.New(), trip.ID, 10)
	require.ErrorIs(t, err, types.ErrForbidden)

	_, _, err = svc.UpdateSpeed(context.Background(), driver, trip.ID, -1)
	require.ErrorIs(t, err, types.ErrInvalidSpeedPercentage)

	_, _, err = svc.UpdateSpeed(context.Background(), driver, uuid.New(), 10)
	require.ErrorIs(t, err, types.ErrTripNotFound)
}

func TestService_Get(t *testing.T) {
	svc, _, _ := newTestService()
	driver := uuid.New()

	trip, _, err := svc.Plan(context.Background(), driver, "Home", 10)
	require.NoError(t, err)

	got, summary, err := svc.Get(context.Background(), driver, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, trip.ID, got.ID)
	assert.Equal(t, "A little faster", summary.Display.Label)

	_, _, err = svc.Get(context.Background(), uuid.New(), trip.ID)
	require.ErrorIs(t, err, types.ErrForbidden)
}

func TestService_Destinations(t *testing.T) {
	svc, _, _ := newTestService()

	list, err := svc.Destinations(context.Background(), "mall")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Shopping Mall", list[0].Name)
}

func TestService_SpeedInfo(t *testing.T) {
	svc, _, _ := newTestService()

	d, err := svc.SpeedInfo(35)
	require.NoError(t, err)
	assert.Equal(t, "Need for speed", d.Label)
	assert.Equal(t, types.TierDanger, d.Tier)
	assert.True(t, d.Warning)

	_, err = svc.SpeedInfo(51)
	require.ErrorIs(t, err, types.ErrInvalidSpeedPercentage)
	_, err = svc.SpeedInfo(-1)
	require.ErrorIs(t, err, types.ErrInvalidSpeedPercentage)
}
