package body

import (
	"fmt"
	"math"
)

// Vec3 is a position or velocity in the scenario's unit system.
type Vec3 struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	Z float64 `yaml:"z" json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Norm() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

func (v Vec3) finite() bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Body is a point mass participating in gravity. The id is an opaque handle
// chosen by the host; it must be unique among currently simulated bodies.
// A mass of (near) zero is legal and is how probes are modeled: such a body
// is pulled by every other body but contributes no measurable pull back,
// because force contribution scales with the source body's mass.
type Body struct {
	ID       string  `yaml:"id" json:"id"`
	Mass     float64 `yaml:"mass" json:"mass"`
	Position Vec3    `yaml:"position" json:"position"`
	Velocity Vec3    `yaml:"velocity" json:"velocity"`
}

// Validate reports why a body cannot enter the simulation. Invalid bodies are
// dropped individually so a single bad probe never breaks a whole scenario.
func (b Body) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("body has empty id")
	}
	if !finite(b.Mass) || b.Mass < 0 {
		return fmt.Errorf("body %q: mass %v is not a finite non-negative number", b.ID, b.Mass)
	}
	if !b.Position.finite() {
		return fmt.Errorf("body %q: non-finite position", b.ID)
	}
	if !b.Velocity.finite() {
		return fmt.Errorf("body %q: non-finite velocity", b.ID)
	}
	return nil
}
