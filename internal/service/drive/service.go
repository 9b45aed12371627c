package drive

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Temutjin2k/fastlane/internal/domain/models"
	"github.com/Temutjin2k/fastlane/internal/domain/types"
	"github.com/Temutjin2k/fastlane/pkg/logger"
	wrap "github.com/Temutjin2k/fastlane/pkg/logger/wrapper"
	"github.com/Temutjin2k/fastlane/pkg/metrics"
	"github.com/Temutjin2k/fastlane/pkg/trm"
	"github.com/google/uuid"
)

const (
	sideEffectTimeout = 3 * time.Second
	// frameBuffer is how many tick snapshots may wait for the sink of one drive.
	frameBuffer             = 8
	defaultArrivedRetention = 5 * time.Minute
)

type Options struct {
	TickInterval  time.Duration
	StopOnArrival bool
	// ProgressEvery publishes a DRIVE_PROGRESS event every N ticks. Zero disables it.
	ProgressEvery int
	// PersistEvery stores a snapshot every N ticks. Zero disables it.
	PersistEvery int
	// ArrivedRetention keeps an arrived drive readable for this long. Zero means five minutes.
	ArrivedRetention time.Duration
}

// activeDrive is one running simulation.
// The tick goroutine hands snapshots to the sink goroutine through frames;
// all I/O of the drive happens on the sink goroutine.
type activeDrive struct {
	drive    *models.Drive
	driverID uuid.UUID
	runner   *Runner
	frames   chan models.DriveSnapshot
	sinkDone chan struct{}
	// arrived is only touched by the sink goroutine and read after sinkDone.
	arrived bool
}

func newActiveDrive(drive *models.Drive, driverID uuid.UUID) *activeDrive {
	return &activeDrive{
		drive:    drive,
		driverID: driverID,
		frames:   make(chan models.DriveSnapshot, frameBuffer),
		sinkDone: make(chan struct{}),
	}
}

// push runs on the tick goroutine and never blocks.
// When the sink lags behind, the oldest waiting frame is dropped.
func (ad *activeDrive) push(snap models.DriveSnapshot) {
	metrics.DriveTicksTotal.Inc()
	for {
		select {
		case ad.frames <- snap:
			return
		default:
		}
		select {
		case <-ad.frames:
		default:
		}
	}
}

// latest drains frames and returns the newest one.
func (ad *activeDrive) latest() (models.DriveSnapshot, bool) {
	var (
		snap models.DriveSnapshot
		ok   bool
	)
	for {
		select {
		case snap = <-ad.frames:
			ok = true
		default:
			return snap, ok
		}
	}
}

// Service keeps at most one running drive per trip.
type Service struct {
	trips     TripSource
	repo      DriveRepo
	trm       trm.TxManager
	publisher EventPublisher
	notifier  Notifier
	newRand   func() RandSource
	opts      Options
	log       logger.Logger

	// baseCtx outlives requests: drives keep running after the start request returns.
	baseCtx context.Context

	// mu guards the maps and closed only. No I/O happens while it is held.
	mu       sync.Mutex
	active   map[uuid.UUID]*activeDrive
	starting map[uuid.UUID]struct{}
	closed   bool
}

func NewService(
	baseCtx context.Context,
	trips TripSource,
	repo DriveRepo,
	trm trm.TxManager,
	publisher EventPublisher,
	notifier Notifier,
	opts Options,
	log logger.Logger,
) *Service {
	if opts.ArrivedRetention <= 0 {
		opts.ArrivedRetention = defaultArrivedRetention
	}

	return &Service{
		trips:     trips,
		repo:      repo,
		trm:       trm,
		publisher: publisher,
		notifier:  notifier,
		newRand:   DefaultRand,
		opts:      opts,
		log:       log,
		baseCtx:   baseCtx,
		active:    make(map[uuid.UUID]*activeDrive),
		starting:  make(map[uuid.UUID]struct{}),
	}
}

// WithRand replaces the noise source factory.
func (s *Service) WithRand(f func() RandSource) *Service {
	s.newRand = f
	return s
}

// StartMessage is the toast shown when navigation starts.
func StartMessage(speedPercentage int) (title, message string) {
	return "Navigation started!", fmt.Sprintf("Heading to your destination +%d%% faster", speedPercentage)
}

// reserve marks the trip as starting. A trip that is starting or has a live drive is busy.
// A finished drive whose sink is done is replaced.
func (s *Service) reserve(tripID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.ErrShuttingDown
	}
	if _, ok := s.starting[tripID]; ok {
		return types.ErrDriveAlreadyRunning
	}
	if cur, ok := s.active[tripID]; ok {
		select {
		case <-cur.sinkDone:
			delete(s.active, tripID)
		default:
			return types.ErrDriveAlreadyRunning
		}
	}

	s.starting[tripID] = struct{}{}
	return nil
}

func (s *Service) release(tripID uuid.UUID) {
	s.mu.Lock()
	delete(s.starting, tripID)
	s.mu.Unlock()
}

// Start begins a drive for a planned trip. Target speed and distance are taken
// from the trip at this moment and are not rebound later.
func (s *Service) Start(ctx context.Context, driverID, tripID uuid.UUID) (*models.DriveStart, error) {
	const op = "DriveService.Start"
	ctx = wrap.WithAction(wrap.WithTripID(ctx, tripID.String()), types.ActionStartDrive)

	if err := s.reserve(tripID); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	ad, sim, err := s.prepare(ctx, driverID, tripID)
	if err != nil {
		s.release(tripID)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	s.mu.Lock()
	delete(s.starting, tripID)
	if s.closed {
		s.mu.Unlock()
		s.abandon(ctx, ad)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, types.ErrShuttingDown))
	}
	ad.runner = Start(s.baseCtx, sim, RunnerOptions{
		Interval:      s.opts.TickInterval,
		StopOnArrival: s.opts.StopOnArrival,
		OnTick:        ad.push,
	})
	s.active[tripID] = ad
	s.mu.Unlock()

	snap := ad.runner.Snapshot()
	metrics.ActiveDrivesGauge.Inc()
	go s.sink(context.WithoutCancel(ctx), ad, snap)

	title, message := StartMessage(ad.drive.SpeedPercentage)
	s.log.Info(ctx, "drive started",
		"drive_id", ad.drive.ID,
		"target_speed_mph", ad.drive.TargetSpeedMph,
		"distance_miles", ad.drive.DistanceMiles,
	)

	return &models.DriveStart{
		Drive:    ad.drive,
		Title:    title,
		Message:  message,
		Snapshot: snap,
	}, nil
}

// prepare loads the trip, builds its simulator and stores the new drive.
func (s *Service) prepare(ctx context.Context, driverID, tripID uuid.UUID) (*activeDrive, *Simulator, error) {
	trip, summary, err := s.trips.Get(ctx, driverID, tripID)
	if err != nil {
		return nil, nil, err
	}

	sim, err := NewSimulator(trip.DistanceMiles, summary.Metrics.EffectiveSpeedMph, s.newRand())
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	drive := &models.Drive{
		ID:              uuid.New(),
		TripID:          trip.ID,
		TargetSpeedMph:  summary.Metrics.EffectiveSpeedMph,
		DistanceMiles:   trip.DistanceMiles,
		SpeedPercentage: trip.SpeedPercentage,
		Status:          types.DriveRunning,
		StartedAt:       now,
	}

	err = s.trm.Do(ctx, func(ctx context.Context) error {
		if err := s.repo.CloseOpen(ctx, trip.ID, types.DriveStopped, now); err != nil {
			return err
		}
		return s.repo.Create(ctx, drive)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to store drive: %w", err)
	}

	return newActiveDrive(drive, driverID), sim, nil
}

// abandon records a drive that was stored but never ran.
func (s *Service) abandon(ctx context.Context, ad *activeDrive) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	if err := s.repo.Finish(ctx, ad.drive.ID, types.DriveStopped, time.Now().UTC()); err != nil {
		s.log.Error(wrap.ErrorCtx(ctx, err), "failed to store abandoned drive", err, "drive_id", ad.drive.ID)
	}
}

// Stop ends the drive of a trip and returns its final snapshot.
func (s *Service) Stop(ctx context.Context, driverID, tripID uuid.UUID) (models.DriveSnapshot, error) {
	const op = "DriveService.Stop"
	ctx = wrap.WithAction(wrap.WithTripID(ctx, tripID.String()), types.ActionStopDrive)

	s.mu.Lock()
	ad, ok := s.active[tripID]
	if !ok {
		s.mu.Unlock()
		return models.DriveSnapshot{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, types.ErrDriveNotRunning))
	}
	if ad.driverID != driverID {
		s.mu.Unlock()
		return models.DriveSnapshot{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, types.ErrForbidden))
	}
	delete(s.active, tripID)
	s.mu.Unlock()

	snap := s.finish(ctx, ad)

	s.log.Info(ctx, "drive stopped",
		"drive_id", ad.drive.ID,
		"elapsed_seconds", snap.ElapsedSeconds,
		"remaining_miles", snap.RemainingDistanceMiles,
	)

	return snap, nil
}

// Snapshot returns the current state of the drive of a trip.
func (s *Service) Snapshot(ctx context.Context, driverID, tripID uuid.UUID) (models.DriveSnapshot, error) {
	const op = "DriveService.Snapshot"

	s.mu.Lock()
	ad, ok := s.active[tripID]
	s.mu.Unlock()

	if !ok {
		return models.DriveSnapshot{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, types.ErrDriveNotRunning))
	}
	if ad.driverID != driverID {
		return models.DriveSnapshot{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, types.ErrForbidden))
	}

	return ad.runner.Snapshot(), nil
}

// Shutdown stops every drive and refuses new ones. Drives that had not arrived are stored as STOPPED.
func (s *Service) Shutdown(ctx context.Context) {
	s.mu.Lock()
	s.closed = true
	drives := make([]*activeDrive, 0, len(s.active))
	for id, ad := range s.active {
		drives = append(drives, ad)
		delete(s.active, id)
	}
	s.mu.Unlock()

	for _, ad := range drives {
		s.finish(wrap.WithTripID(ctx, ad.drive.TripID.String()), ad)
	}
	s.log.Info(wrap.WithAction(ctx, types.ActionStopDrive), "all drives stopped", "count", len(drives))
}

// finish stops the runner and records the stop unless the sink already recorded an arrival.
func (s *Service) finish(ctx context.Context, ad *activeDrive) models.DriveSnapshot {
	snap := ad.runner.Stop()
	<-ad.sinkDone
	if ad.arrived {
		return snap
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		if err := s.repo.SaveSnapshot(ctx, ad.drive.ID, snap); err != nil {
			return err
		}
		return s.repo.Finish(ctx, ad.drive.ID, types.DriveStopped, time.Now().UTC())
	})
	if err != nil {
		s.log.Error(wrap.ErrorCtx(ctx, err), "failed to store stopped drive", err, "drive_id", ad.drive.ID)
	}

	metrics.RecordDriveFinished(types.DriveStopped)
	s.publish(ctx, ad, types.EventDriveStopped, snap)

	return snap
}

// sink performs the side effects of one drive in tick order: the start event first,
// then streaming, progress events and persistence for every frame.
// Frames still queued when the runner ends are stale; only an arrival among them is handled.
func (s *Service) sink(ctx context.Context, ad *activeDrive, initial models.DriveSnapshot) {
	defer close(ad.sinkDone)
	defer metrics.ActiveDrivesGauge.Dec()

	startCtx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
	s.publish(startCtx, ad, types.EventDriveStarted, initial)
	cancel()

	for {
		select {
		case snap := <-ad.frames:
			s.onFrame(ad, snap)
		case <-ad.runner.Done():
			if snap, ok := ad.latest(); ok && snap.State == types.DriveArrived {
				s.onFrame(ad, snap)
			}
			return
		}
	}
}

func (s *Service) onFrame(ad *activeDrive, snap models.DriveSnapshot) {
	ctx := wrap.WithLogCtx(s.baseCtx, wrap.LogCtx{
		Action:   types.ActionDriveTick,
		DriverID: ad.driverID.String(),
		TripID:   ad.drive.TripID.String(),
	})
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	if err := s.notifier.SendSnapshot(ctx, ad.drive.TripID, snap); err != nil && !errors.Is(err, types.ErrNoWatchers) {
		s.log.Warn(ctx, "failed to stream snapshot", "error", err.Error())
	}

	if snap.State == types.DriveArrived {
		if !ad.arrived {
			ad.arrived = true
			s.arrive(ctx, ad, snap)
		}
		return
	}

	if every := s.opts.ProgressEvery; every > 0 && snap.ElapsedSeconds%every == 0 {
		s.publish(ctx, ad, types.EventDriveProgress, snap)
	}

	if every := s.opts.PersistEvery; every > 0 && snap.ElapsedSeconds%every == 0 {
		if err := s.repo.SaveSnapshot(wrap.WithAction(ctx, types.ActionPersistTick), ad.drive.ID, snap); err != nil {
			s.log.Error(wrap.ErrorCtx(ctx, err), "failed to persist snapshot", err)
		}
	}
}

func (s *Service) arrive(ctx context.Context, ad *activeDrive, snap models.DriveSnapshot) {
	ctx = wrap.WithAction(ctx, types.ActionDriveArrived)

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		if err := s.repo.SaveSnapshot(ctx, ad.drive.ID, snap); err != nil {
			return err
		}
		return s.repo.Finish(ctx, ad.drive.ID, types.DriveArrived, time.Now().UTC())
	})
	if err != nil {
		s.log.Error(wrap.ErrorCtx(ctx, err), "failed to store arrival", err)
	}

	metrics.RecordDriveFinished(types.DriveArrived)
	s.publish(ctx, ad, types.EventDriveArrived, snap)
	s.log.Info(ctx, "arrived at destination", "elapsed_seconds", snap.ElapsedSeconds)

	time.AfterFunc(s.opts.ArrivedRetention, func() { s.evict(ad) })
}

// evict drops an arrived drive unless it was already stopped or replaced.
func (s *Service) evict(ad *activeDrive) {
	s.mu.Lock()
	if cur, ok := s.active[ad.drive.TripID]; ok && cur == ad {
		delete(s.active, ad.drive.TripID)
	}
	s.mu.Unlock()

	// with StopOnArrival off the runner is still ticking
	ad.runner.Stop()
}

func (s *Service) publish(ctx context.Context, ad *activeDrive, event types.DriveEvent, snap models.DriveSnapshot) {
	msg := models.DriveEventMessage{
		Event:     event,
		TripID:    ad.drive.TripID,
		DriveID:   ad.drive.ID,
		DriverID:  ad.driverID,
		Snapshot:  snap,
		Timestamp: time.Now().UTC(),
	}
	if err := s.publisher.PublishDriveEvent(ctx, msg); err != nil {
		s.log.Error(wrap.ErrorCtx(ctx, err), "failed to publish drive event", err, "event", event)
	}
}
