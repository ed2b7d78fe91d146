// Package physics implements the direct-summation gravitational force kernel
// and the conserved-quantity diagnostics built on it.
package physics

import "math"

// DefaultSoftening is added to the squared separation of every pair before
// the inverse-cube factor. It trades a small, deliberate physical inaccuracy
// at very close range for numerical robustness: two coincident bodies
// produce a large-but-finite acceleration instead of a singularity. The
// value is in squared-distance units of the scenario.
const DefaultSoftening = 1e-6

// Field evaluates Newtonian gravity among point masses.
type Field struct {
	G         float64
	Softening float64 // added to squared separation, see DefaultSoftening
}

// Accel computes the instantaneous acceleration on each of n bodies from all
// others, writing xyz triples into acc (which must hold at least 3n values).
// pos holds xyz triples, mass holds one scalar per body, both indexed
// identically. Pure function of its inputs; no state is retained.
//
// Each pair is visited once and applied with opposite signs scaled by the
// respective source masses, halving the work of the naive double loop. A
// consequence worth keeping: a zero-mass probe is fully pulled by every
// other body yet exerts no pull back, since each body's contribution scales
// with the source mass.
func (f Field) Accel(pos, mass []float64, n int, acc []float64) {
	for i := 0; i < 3*n; i++ {
		acc[i] = 0
	}
	eps2 := f.Softening

	for i := 0; i < n; i++ {
		xi, yi, zi := pos[3*i], pos[3*i+1], pos[3*i+2]

		for j := i + 1; j < n; j++ {
			rx := pos[3*j] - xi
			ry := pos[3*j+1] - yi
			rz := pos[3*j+2] - zi
			r2 := rx*rx + ry*ry + rz*rz + eps2

			rInv := 1.0 / math.Sqrt(r2)
			r3Inv := rInv * rInv * rInv

			fij := f.G * mass[j] * r3Inv
			acc[3*i] += fij * rx
			acc[3*i+1] += fij * ry
			acc[3*i+2] += fij * rz

			fji := f.G * mass[i] * r3Inv
			acc[3*j] -= fji * rx
			acc[3*j+1] -= fji * ry
			acc[3*j+2] -= fji * rz
		}
	}
}

// Energy returns the total mechanical energy (kinetic plus pairwise
// potential) of the system, using the same softened separation as Accel so
// that drift measurements are consistent with the integrated dynamics.
func (f Field) Energy(pos, vel, mass []float64, n int) float64 {
	ke := 0.0
	pe := 0.0

	for i := 0; i < n; i++ {
		vx, vy, vz := vel[3*i], vel[3*i+1], vel[3*i+2]
		ke += 0.5 * mass[i] * (vx*vx + vy*vy + vz*vz)

		for j := i + 1; j < n; j++ {
			rx := pos[3*j] - pos[3*i]
			ry := pos[3*j+1] - pos[3*i+1]
			rz := pos[3*j+2] - pos[3*i+2]
			r := math.Sqrt(rx*rx + ry*ry + rz*rz + f.Softening)
			pe -= f.G * mass[i] * mass[j] / r
		}
	}

	return ke + pe
}

// Momentum returns the total linear momentum of the system.
func Momentum(vel, mass []float64, n int) (px, py, pz float64) {
	for i := 0; i < n; i++ {
		px += mass[i] * vel[3*i]
		py += mass[i] * vel[3*i+1]
		pz += mass[i] * vel[3*i+2]
	}
	return
}

// AngularMomentum returns the total angular momentum about the origin.
func AngularMomentum(pos, vel, mass []float64, n int) (lx, ly, lz float64) {
	for i := 0; i < n; i++ {
		x, y, z := pos[3*i], pos[3*i+1], pos[3*i+2]
		vx, vy, vz := vel[3*i], vel[3*i+1], vel[3*i+2]
		lx += mass[i] * (y*vz - z*vy)
		ly += mass[i] * (z*vx - x*vz)
		lz += mass[i] * (x*vy - y*vx)
	}
	return
}
