package sim

import (
	"github.com/orbitkit/gravsim/internal/body"
)

// DefaultCapacity bounds the number of simultaneously simulated bodies.
// Storage is pre-allocated at this capacity so the per-tick hot loop never
// allocates; adds beyond the bound are no-ops by contract.
const DefaultCapacity = 64

// State holds every body currently in the simulation in struct-of-arrays
// layout: ids, masses, and flattened xyz position/velocity arrays share one
// index. The O(N²) force kernel walks pos and mass linearly, which is the
// reason for this layout over a slice of Body values.
//
// State is not safe for concurrent use. The engine goroutine owns it
// exclusively; hosts only ever see value snapshots.
type State struct {
	ids   []string
	index map[string]int
	mass  []float64
	pos   []float64 // 3*cap, xyz triples
	vel   []float64 // 3*cap, xyz triples
	n     int
	cap   int

	G         float64
	TimeScale float64
	Paused    bool
}

func NewState(capacity int) *State {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &State{
		ids:       make([]string, capacity),
		index:     make(map[string]int, capacity),
		mass:      make([]float64, capacity),
		pos:       make([]float64, 3*capacity),
		vel:       make([]float64, 3*capacity),
		cap:       capacity,
		TimeScale: 1.0,
	}
}

func (s *State) Len() int { return s.n }

func (s *State) Cap() int { return s.cap }

// Add appends a body to the active set. It returns false without modifying
// the state when the body fails validation, its id is already present, or
// the capacity bound is reached. Capacity overflow is deliberately silent:
// the host observes it through the body count, not through an error.
func (s *State) Add(b body.Body) bool {
	if b.Validate() != nil {
		return false
	}
	if _, dup := s.index[b.ID]; dup {
		return false
	}
	if s.n >= s.cap {
		return false
	}
	i := s.n
	s.ids[i] = b.ID
	s.index[b.ID] = i
	s.mass[i] = b.Mass
	s.pos[3*i], s.pos[3*i+1], s.pos[3*i+2] = b.Position.X, b.Position.Y, b.Position.Z
	s.vel[3*i], s.vel[3*i+1], s.vel[3*i+2] = b.Velocity.X, b.Velocity.Y, b.Velocity.Z
	s.n++
	return true
}

// Remove deletes the body with the given id, moving the last active slot
// into the vacated one. Indices are therefore unstable across removals; only
// ids are stable. Removing an unknown id is a no-op, so removal is
// idempotent.
func (s *State) Remove(id string) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	last := s.n - 1
	if i != last {
		s.ids[i] = s.ids[last]
		s.index[s.ids[i]] = i
		s.mass[i] = s.mass[last]
		copy(s.pos[3*i:3*i+3], s.pos[3*last:3*last+3])
		copy(s.vel[3*i:3*i+3], s.vel[3*last:3*last+3])
	}
	delete(s.index, id)
	s.ids[last] = ""
	s.n = last
	return true
}

// Replace swaps the entire active set for the given bodies, dropping any
// entry that fails validation or duplicates an earlier id, and truncating at
// capacity. It returns the number of bodies accepted.
func (s *State) Replace(bodies []body.Body) int {
	for k := range s.index {
		delete(s.index, k)
	}
	s.n = 0
	for _, b := range bodies {
		s.Add(b)
	}
	return s.n
}

// Lookup returns the current storage index for id.
func (s *State) Lookup(id string) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

// BodyAt materializes slot i as a Body value.
func (s *State) BodyAt(i int) body.Body {
	return body.Body{
		ID:       s.ids[i],
		Mass:     s.mass[i],
		Position: body.Vec3{X: s.pos[3*i], Y: s.pos[3*i+1], Z: s.pos[3*i+2]},
		Velocity: body.Vec3{X: s.vel[3*i], Y: s.vel[3*i+1], Z: s.vel[3*i+2]},
	}
}

// Positions returns the live xyz position array for the active bodies.
// Callers must treat the slice as engine-owned scratch, never retain it.
func (s *State) Positions() []float64 { return s.pos[:3*s.n] }

// Velocities returns the live xyz velocity array for the active bodies.
func (s *State) Velocities() []float64 { return s.vel[:3*s.n] }

// Masses returns the live mass array for the active bodies.
func (s *State) Masses() []float64 { return s.mass[:s.n] }

// IDs returns the live id array for the active bodies.
func (s *State) IDs() []string { return s.ids[:s.n] }
