package drive

import (
	"math"
	"sync"

	"github.com/Temutjin2k/fastlane/internal/domain/models"
	"github.com/Temutjin2k/fastlane/internal/domain/types"
	"github.com/Temutjin2k/fastlane/internal/service/trip"
)

const (
	secondsPerHour = 3600.0
	// noiseSpanMph is the width of the uniform speed noise, centered on the target.
	noiseSpanMph = 10.0
)

// Simulator advances one drive by one simulated second per Tick.
// Distance, target speed and instructions are fixed at construction.
type Simulator struct {
	mu sync.RWMutex

	distanceMiles  float64
	targetSpeedMph float64
	rnd            RandSource
	steps          []models.Instruction

	state          types.DriveState
	remainingMiles float64
	currentSpeed   float64
	elapsedSeconds int
	instructionIdx int
}

func NewSimulator(distanceMiles, targetSpeedMph float64, rnd RandSource) (*Simulator, error) {
	if distanceMiles < 0 || math.IsNaN(distanceMiles) || math.IsInf(distanceMiles, 0) {
		return nil, types.ErrInvalidDistance
	}
	if targetSpeedMph < 0 || math.IsNaN(targetSpeedMph) || math.IsInf(targetSpeedMph, 0) {
		return nil, types.ErrInvalidTargetSpeed
	}
	if rnd == nil {
		rnd = DefaultRand()
	}

	return &Simulator{
		distanceMiles:  distanceMiles,
		targetSpeedMph: targetSpeedMph,
		rnd:            rnd,
		steps:          Instructions(),
		state:          types.DriveIdle,
		remainingMiles: distanceMiles,
	}, nil
}

// Tick applies one simulated second and returns the resulting snapshot.
func (s *Simulator) Tick() models.DriveSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.elapsedSeconds++

	// noise is cosmetic and never feeds the distance
	noise := (s.rnd.Float64() - 0.5) * noiseSpanMph
	s.currentSpeed = max(0, s.targetSpeedMph+noise)

	// recomputed from the tick count, never accumulated
	travelled := float64(s.elapsedSeconds) * s.targetSpeedMph / secondsPerHour
	s.remainingMiles = max(0, s.distanceMiles-travelled)

	idx := instructionIndex(s.progress(), len(s.steps))
	if idx > s.instructionIdx {
		s.instructionIdx = idx
	}

	if s.remainingMiles == 0 {
		s.state = types.DriveArrived
	} else {
		s.state = types.DriveRunning
	}

	return s.snapshot()
}

// Snapshot returns a copy of the current state.
func (s *Simulator) Snapshot() models.DriveSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

func (s *Simulator) State() types.DriveState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Simulator) start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == types.DriveIdle {
		s.state = types.DriveRunning
	}
}

// halt returns a running simulator to IDLE. An arrived simulator stays ARRIVED.
func (s *Simulator) halt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == types.DriveRunning {
		s.state = types.DriveIdle
	}
}

func (s *Simulator) progress() float64 {
	if s.distanceMiles == 0 {
		return 1
	}
	return 1 - s.remainingMiles/s.distanceMiles
}

func (s *Simulator) remainingMinutes() float64 {
	if s.targetSpeedMph <= 0 {
		return 0
	}
	return s.remainingMiles / s.targetSpeedMph * 60
}

func (s *Simulator) snapshot() models.DriveSnapshot {
	p := s.progress()
	remaining := s.remainingMinutes()

	return models.DriveSnapshot{
		State:                   s.state,
		TargetSpeedMph:          s.targetSpeedMph,
		CurrentSpeedMph:         s.currentSpeed,
		DistanceMiles:           s.distanceMiles,
		RemainingDistanceMiles:  s.remainingMiles,
		RemainingTimeMinutes:    remaining,
		RemainingTime:           trip.FormatTime(remaining),
		ElapsedSeconds:          s.elapsedSeconds,
		Progress:                p,
		CurrentInstructionIndex: s.instructionIdx,
		Instruction:             s.steps[s.instructionIdx],
		Position:                Position(p),
		HeadingDeg:              Heading(p),
	}
}
