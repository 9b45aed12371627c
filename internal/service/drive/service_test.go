package drive

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Temutjin2k/fastlane/internal/domain/models"
	"github.com/Temutjin2k/fastlane/internal/domain/types"
	"github.com/Temutjin2k/fastlane/internal/service/trip"
	"github.com/Temutjin2k/fastlane/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTrips struct {
	trip *models.Trip
}

func (s *stubTrips) Get(_ context.Context, driverID, tripID uuid.UUID) (*models.Trip, models.TripSummary, error) {
	if s.trip == nil || s.trip.ID != tripID {
		return nil, models.TripSummary{}, types.ErrTripNotFound
	}
	if s.trip.DriverID != driverID {
		return nil, models.TripSummary{}, types.ErrForbidden
	}
	sum, err := trip.Summarize(s.trip.DistanceMiles, s.trip.SpeedPercentage)
	return s.trip, sum, err
}

type recorder struct {
	mu        sync.Mutex
	drives    []*models.Drive
	finished  map[uuid.UUID]types.DriveState
	snapshots int
	events    []types.DriveEvent
	streamed  int
	closed    int
}

func newRecorder() *recorder {
	return &recorder{finished: make(map[uuid.UUID]types.DriveState)}
}

func (r *recorder) Create(_ context.Context, d *models.Drive) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drives = append(r.drives, d)
	return nil
}

func (r *recorder) CloseOpen(context.Context, uuid.UUID, types.DriveState, time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed++
	return nil
}

func (r *recorder) Finish(_ context.Context, id uuid.UUID, st types.DriveState, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished[id] = st
	return nil
}

func (r *recorder) SaveSnapshot(context.Context, uuid.UUID, models.DriveSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots++
	return nil
}

func (r *recorder) PublishDriveEvent(_ context.Context, msg models.DriveEventMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, msg.Event)
	return nil
}

func (r *recorder) SendSnapshot(context.Context, uuid.UUID, models.DriveSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.streamed++
	return types.ErrNoWatchers
}

func (r *recorder) eventList() []types.DriveEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.DriveEvent(nil), r.events...)
}

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

// gatedTrips serves several trips. Get of a gated trip waits until the gate is opened.
type gatedTrips struct {
	trips   map[uuid.UUID]*models.Trip
	gated   uuid.UUID
	entered chan struct{}
	open    chan struct{}
}

func newGatedTrips(gated *models.Trip, others ...*models.Trip) *gatedTrips {
	g := &gatedTrips{
		trips:   map[uuid.UUID]*models.Trip{gated.ID: gated},
		gated:   gated.ID,
		entered: make(chan struct{}, 1),
		open:    make(chan struct{}),
	}
	for _, tr := range others {
		g.trips[tr.ID] = tr
	}
	return g
}

func (g *gatedTrips) Get(ctx context.Context, driverID, tripID uuid.UUID) (*models.Trip, models.TripSummary, error) {
	if tripID == g.gated {
		g.entered <- struct{}{}
		<-g.open
	}
	return (&stubTrips{trip: g.trips[tripID]}).Get(ctx, driverID, tripID)
}

// slowNotifier takes delay for every streamed snapshot.
type slowNotifier struct {
	delay time.Duration
	sent  atomic.Int32
}

func (n *slowNotifier) SendSnapshot(context.Context, uuid.UUID, models.DriveSnapshot) error {
	time.Sleep(n.delay)
	n.sent.Add(1)
	return nil
}

// blockingPublisher holds every event until open is closed.
type blockingPublisher struct {
	open chan struct{}
}

func (p *blockingPublisher) PublishDriveEvent(ctx context.Context, _ models.DriveEventMessage) error {
	select {
	case <-p.open:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type deps struct {
	trips     TripSource
	publisher EventPublisher
	notifier  Notifier
}

func newDriveService(t *testing.T, tr *models.Trip, opts Options) (*Service, *recorder) {
	t.Helper()
	return newDriveServiceWith(t, deps{trips: &stubTrips{trip: tr}}, opts)
}

// newDriveServiceWith fills the deps left nil with the recorder.
func newDriveServiceWith(t *testing.T, d deps, opts Options) (*Service, *recorder) {
	t.Helper()
	rec := newRecorder()
	if d.publisher == nil {
		d.publisher = rec
	}
	if d.notifier == nil {
		d.notifier = rec
	}
	log := logger.New(io.Discard, "test", logger.LevelError)
	svc := NewService(context.Background(), d.trips, rec, inlineTx{}, d.publisher, d.notifier, opts, log).
		WithRand(func() RandSource { return constRand(0.5) })
	t.Cleanup(func() { svc.Shutdown(context.Background()) })
	return svc, rec
}

func testTrip(distance float64, pct int) *models.Trip {
	return &models.Trip{
		ID:              uuid.New(),
		DriverID:        uuid.New(),
		DestinationName: "Shopping Mall",
		DistanceMiles:   distance,
		SpeedPercentage: pct,
	}
}

func TestService_StartStop(t *testing.T) {
	tr := testTrip(50, 20)
	svc, rec := newDriveService(t, tr, Options{TickInterval: time.Millisecond, StopOnArrival: true, ProgressEvery: 1, PersistEvery: 2})

	start, err := svc.Start(context.Background(), tr.DriverID, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, "Navigation started!", start.Title)
	assert.Equal(t, "Heading to your destination +20% faster", start.Message)
	assert.InDelta(t, 54.0, start.Drive.TargetSpeedMph, 1e-9)
	assert.Equal(t, types.DriveRunning, start.Drive.Status)

	_, err = svc.Start(context.Background(), tr.DriverID, tr.ID)
	require.ErrorIs(t, err, types.ErrDriveAlreadyRunning)

	require.Eventually(t, func() bool {
		snap, err := svc.Snapshot(context.Background(), tr.DriverID, tr.ID)
		return err == nil && snap.ElapsedSeconds >= 3
	}, 5*time.Second, time.Millisecond)

	_, err = svc.Stop(context.Background(), uuid.New(), tr.ID)
	require.ErrorIs(t, err, types.ErrForbidden)

	final, err := svc.Stop(context.Background(), tr.DriverID, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, types.DriveIdle, final.State)
	assert.Greater(t, final.RemainingDistanceMiles, 0.0)

	_, err = svc.Stop(context.Background(), tr.DriverID, tr.ID)
	require.ErrorIs(t, err, types.ErrDriveNotRunning)

	events := rec.eventList()
	require.NotEmpty(t, events)
	assert.Equal(t, types.EventDriveStarted, events[0])
	assert.Contains(t, events, types.EventDriveProgress)
	assert.Equal(t, types.EventDriveStopped, events[len(events)-1])

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, types.DriveStopped, rec.finished[start.Drive.ID])
	assert.Equal(t, 1, rec.closed)
	assert.GreaterOrEqual(t, rec.streamed, 3)
	assert.GreaterOrEqual(t, rec.snapshots, 2)
}

func TestService_Arrival(t *testing.T) {
	tr := testTrip(0.045, 20)
	svc, rec := newDriveService(t, tr, Options{TickInterval: time.Millisecond, StopOnArrival: true})

	start, err := svc.Start(context.Background(), tr.DriverID, tr.ID)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		for _, e := range rec.eventList() {
			if e == types.EventDriveArrived {
				return true
			}
		}
		return false
	}, 5*time.Second, time.Millisecond)

	snap, err := svc.Snapshot(context.Background(), tr.DriverID, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, types.DriveArrived, snap.State)
	assert.Zero(t, snap.RemainingDistanceMiles)
	assert.InDelta(t, 1.0, snap.Progress, 1e-9)

	// an arrived drive can be restarted once its runner has exited
	var again *models.DriveStart
	require.Eventually(t, func() bool {
		again, err = svc.Start(context.Background(), tr.DriverID, tr.ID)
		return err == nil
	}, 5*time.Second, time.Millisecond)
	assert.NotEqual(t, start.Drive.ID, again.Drive.ID)

	events := rec.eventList()
	assert.Contains(t, events, types.EventDriveArrived)
	assert.NotContains(t, events, types.EventDriveStopped)

	rec.mu.Lock()
	assert.Equal(t, types.DriveArrived, rec.finished[start.Drive.ID])
	rec.mu.Unlock()
}

func TestService_UnknownTrip(t *testing.T) {
	tr := testTrip(5, 0)
	svc, _ := newDriveService(t, tr, Options{TickInterval: time.Millisecond})

	_, err := svc.Start(context.Background(), tr.DriverID, uuid.New())
	require.ErrorIs(t, err, types.ErrTripNotFound)

	_, err = svc.Snapshot(context.Background(), tr.DriverID, tr.ID)
	require.ErrorIs(t, err, types.ErrDriveNotRunning)
}

func TestStartMessage(t *testing.T) {
	title, msg := StartMessage(0)
	assert.Equal(t, "Navigation started!", title)
	assert.Equal(t, "Heading to your destination +0% faster", msg)
}

func TestService_StartDoesNotBlockOtherTrips(t *testing.T) {
	slow, other := testTrip(50, 20), testTrip(50, 20)
	trips := newGatedTrips(slow, other)
	svc, _ := newDriveServiceWith(t, deps{trips: trips}, Options{TickInterval: time.Millisecond})
	ctx := context.Background()

	_, err := svc.Start(ctx, other.DriverID, other.ID)
	require.NoError(t, err)

	started := make(chan error, 1)
	go func() {
		_, err := svc.Start(ctx, slow.DriverID, slow.ID)
		started <- err
	}()

	select {
	case <-trips.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("start did not reach the trip lookup")
	}

	begin := time.Now()
	_, err = svc.Snapshot(ctx, other.DriverID, other.ID)
	require.NoError(t, err)

	// the slow trip is reserved while it loads
	_, err = svc.Start(ctx, slow.DriverID, slow.ID)
	require.ErrorIs(t, err, types.ErrDriveAlreadyRunning)
	_, err = svc.Snapshot(ctx, slow.DriverID, slow.ID)
	require.ErrorIs(t, err, types.ErrDriveNotRunning)

	_, err = svc.Stop(ctx, other.DriverID, other.ID)
	require.NoError(t, err)
	assert.Less(t, time.Since(begin), 500*time.Millisecond)

	close(trips.open)
	select {
	case err := <-started:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("start did not finish")
	}

	_, err = svc.Snapshot(ctx, slow.DriverID, slow.ID)
	require.NoError(t, err)
}

func TestService_StartReturnsBeforeStartEventIsPublished(t *testing.T) {
	tr := testTrip(50, 20)
	pub := &blockingPublisher{open: make(chan struct{})}
	svc, _ := newDriveServiceWith(t, deps{trips: &stubTrips{trip: tr}, publisher: pub}, Options{TickInterval: time.Millisecond})
	t.Cleanup(func() { close(pub.open) })

	begin := time.Now()
	_, err := svc.Start(context.Background(), tr.DriverID, tr.ID)
	require.NoError(t, err)
	assert.Less(t, time.Since(begin), 500*time.Millisecond)

	_, err = svc.Snapshot(context.Background(), tr.DriverID, tr.ID)
	require.NoError(t, err)
}

func TestService_SlowWatcherDoesNotSlowTicks(t *testing.T) {
	tr := testTrip(50, 20)
	notifier := &slowNotifier{delay: 300 * time.Millisecond}
	svc, _ := newDriveServiceWith(t, deps{trips: &stubTrips{trip: tr}, notifier: notifier}, Options{TickInterval: 10 * time.Millisecond})

	_, err := svc.Start(context.Background(), tr.DriverID, tr.ID)
	require.NoError(t, err)

	// at 10ms per tick a stalled stream would allow about three ticks per second
	require.Eventually(t, func() bool {
		snap, err := svc.Snapshot(context.Background(), tr.DriverID, tr.ID)
		return err == nil && snap.ElapsedSeconds >= 30
	}, 2*time.Second, 5*time.Millisecond)

	begin := time.Now()
	final, err := svc.Stop(context.Background(), tr.DriverID, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, types.DriveIdle, final.State)
	// stale frames are dropped, so stop waits for one stream write at most
	assert.Less(t, time.Since(begin), time.Second)
	assert.Less(t, int(notifier.sent.Load()), final.ElapsedSeconds)
}

func TestService_TargetSpeedFixedAtStart(t *testing.T) {
	tr := testTrip(50, 20)
	svc, _ := newDriveService(t, tr, Options{TickInterval: time.Millisecond})
	ctx := context.Background()

	start, err := svc.Start(ctx, tr.DriverID, tr.ID)
	require.NoError(t, err)
	assert.InDelta(t, 54.0, start.Drive.TargetSpeedMph, 1e-9)

	tr.SpeedPercentage = 50

	var snap models.DriveSnapshot
	require.Eventually(t, func() bool {
		snap, err = svc.Snapshot(ctx, tr.DriverID, tr.ID)
		return err == nil && snap.ElapsedSeconds >= 5
	}, 5*time.Second, time.Millisecond)

	assert.InDelta(t, 54.0, snap.TargetSpeedMph, 1e-9)
	assert.InDelta(t, 50-54.0*float64(snap.ElapsedSeconds)/3600, snap.RemainingDistanceMiles, 1e-9)

	_, err = svc.Stop(ctx, tr.DriverID, tr.ID)
	require.NoError(t, err)

	// the next drive picks up the new speed
	again, err := svc.Start(ctx, tr.DriverID, tr.ID)
	require.NoError(t, err)
	assert.InDelta(t, 67.5, again.Drive.TargetSpeedMph, 1e-9)
	assert.InDelta(t, 67.5, again.Snapshot.TargetSpeedMph, 1e-9)
}

func TestService_ArrivedDriveIsEvicted(t *testing.T) {
	// three ticks at 54 mph
	tr := testTrip(0.045, 20)
	svc, rec := newDriveService(t, tr, Options{
		TickInterval:     time.Millisecond,
		ArrivedRetention: 20 * time.Millisecond,
	})

	start, err := svc.Start(context.Background(), tr.DriverID, tr.ID)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, err := svc.Snapshot(context.Background(), tr.DriverID, tr.ID)
		return errors.Is(err, types.ErrDriveNotRunning)
	}, 5*time.Second, time.Millisecond)

	rec.mu.Lock()
	assert.Equal(t, types.DriveArrived, rec.finished[start.Drive.ID])
	rec.mu.Unlock()

	_, err = svc.Stop(context.Background(), tr.DriverID, tr.ID)
	require.ErrorIs(t, err, types.ErrDriveNotRunning)
}

func TestService_ShutdownRefusesNewDrives(t *testing.T) {
	tr := testTrip(5, 0)
	svc, _ := newDriveService(t, tr, Options{TickInterval: time.Millisecond})

	svc.Shutdown(context.Background())

	_, err := svc.Start(context.Background(), tr.DriverID, tr.ID)
	require.ErrorIs(t, err, types.ErrShuttingDown)
}
