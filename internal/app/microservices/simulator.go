package microservices

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Temutjin2k/fastlane/config"
	"github.com/Temutjin2k/fastlane/internal/domain/models"
	"github.com/Temutjin2k/fastlane/internal/domain/types"
	"github.com/Temutjin2k/fastlane/internal/service/drive"
	"github.com/Temutjin2k/fastlane/internal/service/trip"
	"github.com/Temutjin2k/fastlane/pkg/logger"
	wrap "github.com/Temutjin2k/fastlane/pkg/logger/wrapper"
)

// simulationLine is one line of simulate mode output.
type simulationLine struct {
	Type        string                `json:"type"`
	Title       string                `json:"title,omitempty"`
	Message     string                `json:"message,omitempty"`
	Destination *models.Destination   `json:"destination,omitempty"`
	Summary     *models.TripSummary   `json:"summary,omitempty"`
	Snapshot    *models.DriveSnapshot `json:"snapshot,omitempty"`
}

const (
	lineStart = "start"
	lineTick  = "tick"
	lineEnd   = "end"
)

// Simulation runs one drive headless and writes every snapshot as a JSON line.
type Simulation struct {
	catalogDB   *sql.DB
	destination models.Destination
	summary     models.TripSummary

	outMu  sync.Mutex
	enc    *json.Encoder
	newRnd func() drive.RandSource

	cfg config.Config
	log logger.Logger
}

func NewSimulation(ctx context.Context, cfg config.Config, out io.Writer, log logger.Logger) (*Simulation, error) {
	const op = "Simulation.New"

	catalog, db, err := openCatalog(ctx, cfg.Catalog, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	dest, err := catalog.Get(ctx, cfg.Simulate.Destination)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, fmt.Errorf("%s: %q: %w", op, cfg.Simulate.Destination, err)
	}

	sess := trip.NewSession()
	sess.SelectDestination(dest)
	err = sess.SetSpeedPercentage(cfg.Simulate.SpeedPercentage)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	summary, err := sess.Summary()
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Simulation{
		catalogDB:   db,
		destination: dest,
		summary:     summary,
		enc:         json.NewEncoder(out),
		newRnd:      drive.DefaultRand,
		cfg:         cfg,
		log:         log,
	}, nil
}

func (s *Simulation) Start(ctx context.Context) error {
	const op = "Simulation.Start"
	defer s.close(ctx)

	ctx = wrap.WithAction(ctx, types.ActionStartDrive)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sim, err := drive.NewSimulator(s.destination.DistanceMiles, s.summary.Metrics.EffectiveSpeedMph, s.newRnd())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	title, message := drive.StartMessage(s.cfg.Simulate.SpeedPercentage)
	if err := s.write(simulationLine{
		Type:        lineStart,
		Title:       title,
		Message:     message,
		Destination: &s.destination,
		Summary:     &s.summary,
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	runner := drive.Start(ctx, sim, drive.RunnerOptions{
		Interval:      s.cfg.Drive.TickInterval,
		StopOnArrival: true,
		MaxTicks:      s.cfg.Simulate.MaxTicks,
		OnTick: func(snap models.DriveSnapshot) {
			if err := s.write(simulationLine{Type: lineTick, Snapshot: &snap}); err != nil {
				s.log.Error(ctx, "failed to write snapshot", err)
			}
		},
	})

	s.log.Info(ctx, "simulation started",
		"destination", s.destination.Name,
		"distance_miles", s.destination.DistanceMiles,
		"target_speed_mph", s.summary.Metrics.EffectiveSpeedMph,
	)

	// a signal cancels ctx, which ends the runner as well
	<-runner.Done()
	final := runner.Snapshot()

	if err := s.write(simulationLine{Type: lineEnd, Snapshot: &final}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info(ctx, "simulation finished",
		"state", final.State,
		"elapsed_seconds", final.ElapsedSeconds,
		"remaining_distance_miles", final.RemainingDistanceMiles,
	)
	return nil
}

func (s *Simulation) write(line simulationLine) error {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	return s.enc.Encode(line)
}

func (s *Simulation) close(ctx context.Context) {
	if s.catalogDB == nil {
		return
	}
	if err := s.catalogDB.Close(); err != nil {
		s.log.Error(ctx, "failed to close catalog db", err)
	}
}
