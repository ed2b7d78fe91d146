package integrators

import (
	"math"
	"testing"

	"github.com/orbitkit/gravsim/internal/physics"
	"github.com/orbitkit/gravsim/internal/scenario"
)

func TestLeapfrogEnergyBounded(t *testing.T) {
	// Circular two-body orbit over ~30 periods. Leapfrog energy error should
	// oscillate, not accumulate.
	s := scenario.Preset("toy")
	pos, vel, mass := flatten(s.Bodies)
	n := len(s.Bodies)

	field := physics.Field{G: s.G, Softening: s.Softening}
	integ := NewLeapfrog()

	e0 := field.Energy(pos, vel, mass, n)
	maxDrift := 0.0
	for i := 0; i < 50000; i++ {
		integ.Step(field.Accel, pos, vel, mass, n, 0.01)
		if i%100 == 0 {
			e := field.Energy(pos, vel, mass, n)
			drift := math.Abs(e-e0) / math.Abs(e0)
			if drift > maxDrift {
				maxDrift = drift
			}
		}
	}

	if maxDrift > 1e-3 {
		t.Errorf("relative energy drift %v over 50000 steps", maxDrift)
	}
}

func TestFigureEightStaysBounded(t *testing.T) {
	s := scenario.Preset("figure8")
	pos, vel, mass := flatten(s.Bodies)
	n := len(s.Bodies)

	field := physics.Field{G: s.G, Softening: s.Softening}

	for name, integ := range map[string]Integrator{
		"leapfrog": NewLeapfrog(),
		"rk4":      NewRK4(),
	} {
		t.Run(name, func(t *testing.T) {
			p := append([]float64(nil), pos...)
			v := append([]float64(nil), vel...)

			dt := 1e-3
			steps := int(3 * scenario.FigureEightPeriod / dt)
			for i := 0; i < steps; i++ {
				integ.Step(field.Accel, p, v, mass, n, dt)
			}

			for i := 0; i < n; i++ {
				r := math.Sqrt(p[3*i]*p[3*i] + p[3*i+1]*p[3*i+1] + p[3*i+2]*p[3*i+2])
				if math.IsNaN(r) || r > 3 {
					t.Errorf("body %d escaped to r=%v after 3 periods", i, r)
				}
			}
		})
	}
}

func TestLeapfrogMatchesRK4ShortTerm(t *testing.T) {
	// Over a handful of small steps the two schemes must agree closely;
	// catches sign or half-step mistakes in the kick-drift-kick sequence.
	s := scenario.Preset("toy")
	posA, velA, mass := flatten(s.Bodies)
	posB := append([]float64(nil), posA...)
	velB := append([]float64(nil), velA...)
	n := len(s.Bodies)

	field := physics.Field{G: s.G, Softening: s.Softening}
	lf := NewLeapfrog()
	rk := NewRK4()

	for i := 0; i < 10; i++ {
		lf.Step(field.Accel, posA, velA, mass, n, 1e-3)
		rk.Step(field.Accel, posB, velB, mass, n, 1e-3)
	}

	for i := range posA {
		if math.Abs(posA[i]-posB[i]) > 1e-8 {
			t.Errorf("position component %d: leapfrog %v vs rk4 %v", i, posA[i], posB[i])
		}
	}
}

func TestNewSelectsScheme(t *testing.T) {
	if _, ok := New("rk4").(*RK4); !ok {
		t.Error("rk4 did not select RK4")
	}
	if _, ok := New("leapfrog").(*Leapfrog); !ok {
		t.Error("leapfrog did not select Leapfrog")
	}
	if _, ok := New("").(*Leapfrog); !ok {
		t.Error("default is not leapfrog")
	}
}
