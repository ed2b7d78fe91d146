package integrators

// Leapfrog is kick-drift-kick velocity Verlet: half-step velocity kick from
// the acceleration at the current positions, full-step position drift with
// the half-kicked velocity, then a second half kick from the acceleration at
// the new positions. Two kernel evaluations per step against RK4's four, and
// symplectic, so energy error stays bounded over long interactive runs
// instead of accumulating.
type Leapfrog struct {
	acc []float64
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(accel Accel, pos, vel, mass []float64, n int, dt float64) {
	m := 3 * n
	if len(l.acc) < m {
		l.acc = make([]float64, m)
	}
	half := dt * 0.5

	accel(pos, mass, n, l.acc)
	for i := 0; i < m; i++ {
		vel[i] += half * l.acc[i]
	}

	for i := 0; i < m; i++ {
		pos[i] += dt * vel[i]
	}

	accel(pos, mass, n, l.acc)
	for i := 0; i < m; i++ {
		vel[i] += half * l.acc[i]
	}
}
