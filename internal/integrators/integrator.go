// Package integrators advances the coupled position/velocity system of all
// bodies by one timestep. Every scheme updates the whole system from a single
// consistent snapshot: no body ever sees another body's already-updated state
// mid-step, which is what keeps momentum and energy behavior order-independent.
package integrators

// Accel evaluates the instantaneous acceleration of n bodies into acc
// (xyz triples, len >= 3n) from positions and masses. It must be a pure
// function of its inputs.
type Accel func(pos, mass []float64, n int, acc []float64)

// Integrator advances pos and vel in place by dt. Implementations keep
// reusable scratch buffers, so a single Integrator value must not be shared
// across concurrently running simulations.
type Integrator interface {
	Step(accel Accel, pos, vel, mass []float64, n int, dt float64)
}

// New returns the integrator registered under name, defaulting to leapfrog
// for unknown names. Leapfrog is the interactive default: symplectic, about
// half the kernel evaluations of RK4 per step, better long-run energy
// behavior at high time acceleration. RK4 is the higher per-step accuracy
// option.
func New(name string) Integrator {
	switch name {
	case "rk4":
		return NewRK4()
	default:
		return NewLeapfrog()
	}
}
