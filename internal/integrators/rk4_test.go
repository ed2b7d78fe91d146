package integrators

import (
	"math"
	"testing"

	"github.com/orbitkit/gravsim/internal/body"
	"github.com/orbitkit/gravsim/internal/physics"
)

func flatten(bodies []body.Body) (pos, vel, mass []float64) {
	for _, b := range bodies {
		pos = append(pos, b.Position.X, b.Position.Y, b.Position.Z)
		vel = append(vel, b.Velocity.X, b.Velocity.Y, b.Velocity.Z)
		mass = append(mass, b.Mass)
	}
	return
}

func TestRK4KeplerClosedOrbit(t *testing.T) {
	// Sun at the origin, planet on a circular orbit. After one full period
	// the planet must come back to where it started.
	const (
		g = 3.8e-7
		m = 332946.0
		r = 149.6
	)
	v := math.Sqrt(g * m / r)
	period := 2 * math.Pi * math.Sqrt(r*r*r/(g*m))

	pos, vel, mass := flatten([]body.Body{
		{ID: "sun", Mass: m},
		{ID: "planet", Mass: 1.0, Position: body.Vec3{X: r}, Velocity: body.Vec3{Y: v}},
	})

	field := physics.Field{G: g, Softening: physics.DefaultSoftening}
	integ := NewRK4()

	steps := 20000
	dt := period / float64(steps)
	for i := 0; i < steps; i++ {
		integ.Step(field.Accel, pos, vel, mass, 2, dt)
	}

	dx := pos[3] - r
	dy := pos[4]
	dz := pos[5]
	miss := math.Sqrt(dx*dx + dy*dy + dz*dz)
	if miss > 1e-3*r {
		t.Errorf("planet missed its start by %v after one period (r=%v)", miss, r)
	}
}

func TestRK4MomentumConservation(t *testing.T) {
	bodies := []body.Body{
		{ID: "a", Mass: 100, Position: body.Vec3{X: -1, Y: 0.5}, Velocity: body.Vec3{Y: 0.3}},
		{ID: "b", Mass: 30, Position: body.Vec3{X: 4, Z: -0.5}, Velocity: body.Vec3{Y: -1.0, Z: 0.1}},
		{ID: "c", Mass: 55, Position: body.Vec3{X: -2, Y: -3, Z: 1}, Velocity: body.Vec3{X: 0.4}},
		{ID: "d", Mass: 5, Position: body.Vec3{Y: 6}, Velocity: body.Vec3{X: -0.8, Y: 0.2}},
	}
	pos, vel, mass := flatten(bodies)

	field := physics.Field{G: 0.1, Softening: physics.DefaultSoftening}
	integ := NewRK4()

	px0, py0, pz0 := physics.Momentum(vel, mass, 4)
	for i := 0; i < 5000; i++ {
		integ.Step(field.Accel, pos, vel, mass, 4, 0.002)
	}
	px, py, pz := physics.Momentum(vel, mass, 4)

	scale := math.Abs(px0) + math.Abs(py0) + math.Abs(pz0)
	drift := math.Abs(px-px0) + math.Abs(py-py0) + math.Abs(pz-pz0)
	if drift > 1e-6*scale {
		t.Errorf("momentum drift %v over 5000 steps (scale %v)", drift, scale)
	}
}

func TestRK4Deterministic(t *testing.T) {
	run := func() ([]float64, []float64) {
		bodies := []body.Body{
			{ID: "a", Mass: 50, Position: body.Vec3{X: -1}, Velocity: body.Vec3{Y: 0.5}},
			{ID: "b", Mass: 50, Position: body.Vec3{X: 1}, Velocity: body.Vec3{Y: -0.5}},
			{ID: "p", Mass: 0, Position: body.Vec3{X: 0.2, Y: 2}, Velocity: body.Vec3{X: 0.1}},
		}
		pos, vel, mass := flatten(bodies)
		field := physics.Field{G: 1.0, Softening: physics.DefaultSoftening}
		integ := NewRK4()
		for i := 0; i < 3000; i++ {
			integ.Step(field.Accel, pos, vel, mass, 3, 0.001)
		}
		return pos, vel
	}

	pos1, vel1 := run()
	pos2, vel2 := run()

	for i := range pos1 {
		if pos1[i] != pos2[i] || vel1[i] != vel2[i] {
			t.Fatalf("state diverged at component %d: %v vs %v / %v vs %v",
				i, pos1[i], pos2[i], vel1[i], vel2[i])
		}
	}
}

func TestRK4ZeroMassProbeGetsSlung(t *testing.T) {
	// Probe passing close to a heavy planet: the probe's velocity must change
	// substantially while the planet's stays put.
	bodies := []body.Body{
		{ID: "planet", Mass: 1000},
		{ID: "probe", Mass: 0, Position: body.Vec3{X: 5}, Velocity: body.Vec3{Y: 2}},
	}
	pos, vel, mass := flatten(bodies)

	field := physics.Field{G: 1.0, Softening: physics.DefaultSoftening}
	integ := NewRK4()

	for i := 0; i < 100; i++ {
		integ.Step(field.Accel, pos, vel, mass, 2, 0.001)
	}

	probeDv := math.Sqrt(vel[3]*vel[3] + (vel[4]-2)*(vel[4]-2) + vel[5]*vel[5])
	planetDv := math.Sqrt(vel[0]*vel[0] + vel[1]*vel[1] + vel[2]*vel[2])
	if probeDv < 1 {
		t.Errorf("probe velocity barely changed: %v", probeDv)
	}
	if planetDv != 0 {
		t.Errorf("planet perturbed by massless probe: %v", planetDv)
	}
}
