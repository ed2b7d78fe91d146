// Package engine runs the N-body integrator as a single background
// goroutine. The goroutine exclusively owns all physical state; hosts
// interact only through posted commands and received value snapshots, never
// through shared memory.
package engine

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/orbitkit/gravsim/internal/integrators"
	"github.com/orbitkit/gravsim/internal/physics"
	"github.com/orbitkit/gravsim/internal/sim"
)

const (
	// DefaultTickRate matches a typical display refresh. A scheduling
	// choice, not a physical one.
	DefaultTickRate = 16 * time.Millisecond

	// DefaultMaxSubsteps caps how finely one tick's simulated span is
	// subdivided, bounding worst-case work per tick.
	DefaultMaxSubsteps = 32

	commandBuffer = 64
)

type Config struct {
	Capacity    int           // body capacity, default sim.DefaultCapacity
	TickRate    time.Duration // wall-clock cadence, default DefaultTickRate
	DefaultG    float64       // used when Init carries no G
	Softening   float64       // squared-distance softening for the kernel
	Integrator  string        // "leapfrog" (default) or "rk4"
	MaxSubsteps int

	// TickObserver, when set, is called after each integrated tick with the
	// wall time spent and the active body count. Used for metrics export.
	TickObserver func(elapsed time.Duration, bodies int)
}

func (c *Config) fill() {
	if c.Capacity <= 0 {
		c.Capacity = sim.DefaultCapacity
	}
	if c.TickRate <= 0 {
		c.TickRate = DefaultTickRate
	}
	if c.DefaultG <= 0 {
		c.DefaultG = 1.0
	}
	if c.Softening <= 0 {
		c.Softening = physics.DefaultSoftening
	}
	if c.MaxSubsteps <= 0 {
		c.MaxSubsteps = DefaultMaxSubsteps
	}
}

type Engine struct {
	cfg     Config
	st      *sim.State
	field   physics.Field
	integ   integrators.Integrator
	simTime float64

	cmds  chan Command
	snaps chan Snapshot
}

func New(cfg Config) *Engine {
	cfg.fill()
	e := &Engine{
		cfg:   cfg,
		st:    sim.NewState(cfg.Capacity),
		field: physics.Field{G: cfg.DefaultG, Softening: cfg.Softening},
		integ: integrators.New(cfg.Integrator),
		cmds:  make(chan Command, commandBuffer),
		snaps: make(chan Snapshot, 1),
	}
	e.st.G = cfg.DefaultG
	return e
}

// Post queues a command for the engine goroutine. Commands are applied in
// arrival order at tick boundaries, never in the middle of an integration
// step.
func (e *Engine) Post(cmd Command) {
	e.cmds <- cmd
}

// Snapshots returns the engine's output channel. Delivery is latest-wins: a
// host that falls behind skips intermediate snapshots but still sees
// monotonically increasing simulated time, never a reordered or duplicated
// state.
func (e *Engine) Snapshots() <-chan Snapshot {
	return e.snaps
}

// Run drives the scheduler loop until ctx is cancelled. Cancellation is the
// only hard stop and is unrecoverable; pausing via SetPaused keeps all state
// and resumes instantly.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.TickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-e.cmds:
			e.apply(cmd)
		case <-ticker.C:
			e.drain()
			if e.st.Paused {
				continue
			}
			start := time.Now()
			e.tick(e.cfg.TickRate.Seconds())
			if e.cfg.TickObserver != nil {
				e.cfg.TickObserver(time.Since(start), e.st.Len())
			}
			e.publish()
		}
	}
}

// drain applies every command already queued, so an add or remove posted
// between ticks is fully visible to the next force-kernel evaluation.
func (e *Engine) drain() {
	for {
		select {
		case cmd := <-e.cmds:
			e.apply(cmd)
		default:
			return
		}
	}
}

func (e *Engine) apply(cmd Command) {
	switch c := cmd.(type) {
	case Init:
		e.st.Replace(c.Bodies)
		g := c.G
		if g <= 0 || math.IsInf(g, 0) || math.IsNaN(g) {
			g = e.cfg.DefaultG
		}
		e.st.G = g
		e.field.G = g
		if validScale(c.TimeScale) {
			e.st.TimeScale = c.TimeScale
		} else {
			e.st.TimeScale = 1.0
		}
		e.st.Paused = c.Paused
		e.simTime = 0
	case UpdateBodies:
		e.st.Replace(c.Bodies)
	case AddBody:
		e.st.Add(c.Body)
	case RemoveBody:
		e.st.Remove(c.ID)
	case SetTimeScale:
		if validScale(c.Scale) {
			e.st.TimeScale = c.Scale
		}
	case SetPaused:
		e.st.Paused = c.Paused
	default:
		// Forward compatibility: a host speaking a newer protocol must not
		// kill the simulation.
		log.Printf("engine: ignoring unknown command %T", cmd)
	}
}

func validScale(s float64) bool {
	return s > 0 && !math.IsInf(s, 0) && !math.IsNaN(s)
}

// tick advances the simulation by timeScale*tickSeconds of simulated time,
// split into equal substeps so that high time acceleration and crowded
// scenes shrink the per-step dt instead of destabilizing the integration.
func (e *Engine) tick(tickSeconds float64) {
	span := e.st.TimeScale * tickSeconds
	n := e.st.Len()
	if n > 0 {
		sub := e.substeps(n)
		h := span / float64(sub)
		pos, vel, mass := e.st.Positions(), e.st.Velocities(), e.st.Masses()
		for i := 0; i < sub; i++ {
			e.integ.Step(e.field.Accel, pos, vel, mass, n, h)
		}
	}
	e.simTime += span
}

// substeps grows with body count: more bodies mean closer encounters and
// larger per-step error, compensated by a smaller per-substep dt. The curve
// is a tuning choice; the clamp is the contract.
func (e *Engine) substeps(n int) int {
	sub := 1 + n/4
	if sub > e.cfg.MaxSubsteps {
		sub = e.cfg.MaxSubsteps
	}
	return sub
}

func (e *Engine) publish() {
	n := e.st.Len()
	snap := Snapshot{
		Time:      e.simTime,
		Bodies:    make([]BodyState, n),
		BodyCount: n,
	}
	for i := 0; i < n; i++ {
		b := e.st.BodyAt(i)
		snap.Bodies[i] = BodyState{ID: b.ID, Position: b.Position, Velocity: b.Velocity}
	}

	// Latest-wins: replace a stale undelivered snapshot rather than block
	// the tick loop on a slow host.
	for {
		select {
		case e.snaps <- snap:
			return
		default:
			select {
			case <-e.snaps:
			default:
			}
		}
	}
}
