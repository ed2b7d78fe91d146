package integrators

// RK4 is the classical 4th-order Runge-Kutta scheme applied to the coupled
// second-order system: velocity is the derivative of position, acceleration
// the derivative of velocity. Position stages are velocities (k1p..k4p) and
// velocity stages are accelerations (k1v..k4v); the two must not be mixed.
type RK4 struct {
	k1p, k2p, k3p, k4p []float64
	k1v, k2v, k3v, k4v []float64
	tp, tv             []float64 // trial state for the mid/endpoint evaluations
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(m int) {
	if len(r.tp) >= m {
		return
	}
	r.k1p = make([]float64, m)
	r.k2p = make([]float64, m)
	r.k3p = make([]float64, m)
	r.k4p = make([]float64, m)
	r.k1v = make([]float64, m)
	r.k2v = make([]float64, m)
	r.k3v = make([]float64, m)
	r.k4v = make([]float64, m)
	r.tp = make([]float64, m)
	r.tv = make([]float64, m)
}

func (r *RK4) Step(accel Accel, pos, vel, mass []float64, n int, dt float64) {
	m := 3 * n
	r.ensureScratch(m)
	half := dt * 0.5

	// k1 at the start-of-step snapshot.
	copy(r.k1p[:m], vel[:m])
	accel(pos, mass, n, r.k1v)

	// k2 at the midpoint reached via k1.
	for i := 0; i < m; i++ {
		r.tp[i] = pos[i] + half*r.k1p[i]
		r.tv[i] = vel[i] + half*r.k1v[i]
	}
	copy(r.k2p[:m], r.tv[:m])
	accel(r.tp, mass, n, r.k2v)

	// k3 at the midpoint reached via k2.
	for i := 0; i < m; i++ {
		r.tp[i] = pos[i] + half*r.k2p[i]
		r.tv[i] = vel[i] + half*r.k2v[i]
	}
	copy(r.k3p[:m], r.tv[:m])
	accel(r.tp, mass, n, r.k3v)

	// k4 at the endpoint reached via k3.
	for i := 0; i < m; i++ {
		r.tp[i] = pos[i] + dt*r.k3p[i]
		r.tv[i] = vel[i] + dt*r.k3v[i]
	}
	copy(r.k4p[:m], r.tv[:m])
	accel(r.tp, mass, n, r.k4v)

	dt6 := dt / 6.0
	for i := 0; i < m; i++ {
		pos[i] += dt6 * (r.k1p[i] + 2*r.k2p[i] + 2*r.k3p[i] + r.k4p[i])
		vel[i] += dt6 * (r.k1v[i] + 2*r.k2v[i] + 2*r.k3v[i] + r.k4v[i])
	}
}
