package drive

import (
	"context"
	"time"

	"github.com/Temutjin2k/fastlane/internal/domain/models"
	"github.com/Temutjin2k/fastlane/internal/domain/types"
)

const DefaultTickInterval = time.Second

type RunnerOptions struct {
	// Interval between ticks. Zero means DefaultTickInterval.
	Interval time.Duration
	// StopOnArrival ends the tick loop after the first ARRIVED snapshot.
	StopOnArrival bool
	// MaxTicks ends the loop after that many ticks, leaving the drive IDLE
	// unless it arrived on the last one. Zero means no limit.
	MaxTicks int
	// OnTick is called from the tick goroutine after every tick.
	OnTick func(models.DriveSnapshot)
}

// Runner owns the single tick goroutine of a simulator.
// The goroutine is the only caller of Simulator.Tick, so ticks never overlap.
type Runner struct {
	sim    *Simulator
	cancel context.CancelFunc
	done   chan struct{}
}

// Start launches the tick loop. It ends when ctx is cancelled, Stop is called,
// or the simulator arrives with StopOnArrival set.
func Start(ctx context.Context, sim *Simulator, opts RunnerOptions) *Runner {
	if opts.Interval <= 0 {
		opts.Interval = DefaultTickInterval
	}

	ctx, cancel := context.WithCancel(ctx)
	r := &Runner{
		sim:    sim,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	sim.start()
	go r.loop(ctx, opts)

	return r
}

func (r *Runner) loop(ctx context.Context, opts RunnerOptions) {
	defer close(r.done)

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.sim.halt()
			return
		case <-ticker.C:
			// a stop requested while waiting for the ticker wins
			if ctx.Err() != nil {
				r.sim.halt()
				return
			}

			snap := r.sim.Tick()
			if opts.OnTick != nil {
				opts.OnTick(snap)
			}
			if opts.StopOnArrival && snap.State == types.DriveArrived {
				return
			}
			if opts.MaxTicks > 0 && snap.ElapsedSeconds >= opts.MaxTicks {
				r.sim.halt()
				return
			}
		}
	}
}

// Stop cancels the loop and waits for the in-flight tick to complete.
// It is safe to call more than once and after the loop ended on its own.
func (r *Runner) Stop() models.DriveSnapshot {
	r.cancel()
	<-r.done
	return r.sim.Snapshot()
}

// Done is closed once the tick goroutine has exited.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

func (r *Runner) Snapshot() models.DriveSnapshot {
	return r.sim.Snapshot()
}

