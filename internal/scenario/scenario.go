// Package scenario loads and describes initial conditions for the simulator:
// the body list, the gravitational constant calibrated to the scenario's
// unit system, and the scheduler settings the host starts with.
package scenario

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/orbitkit/gravsim/internal/body"
	"github.com/orbitkit/gravsim/internal/physics"
)

// Scenario is a complete initial-condition set. G is scenario-scoped because
// the unit system is: a real-scale solar system and a stylized toy system
// use very different numeric constants.
type Scenario struct {
	Name       string      `yaml:"name"`
	G          float64     `yaml:"g"`
	Softening  float64     `yaml:"softening,omitempty"`
	TimeScale  float64     `yaml:"time_scale"`
	Paused     bool        `yaml:"paused,omitempty"`
	Integrator string      `yaml:"integrator,omitempty"`
	Bodies     []body.Body `yaml:"bodies"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := &Scenario{
		Softening: physics.DefaultSoftening,
		TimeScale: 1.0,
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if s.G <= 0 {
		return nil, fmt.Errorf("scenario %s: g must be positive, got %v", path, s.G)
	}
	if s.TimeScale <= 0 || math.IsInf(s.TimeScale, 0) || math.IsNaN(s.TimeScale) {
		return nil, fmt.Errorf("scenario %s: time_scale must be positive, got %v", path, s.TimeScale)
	}
	return s, nil
}

func Save(path string, s *Scenario) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CircularOrbitVelocity returns the speed of a circular orbit of radius r
// around a central mass m under gravitational constant g: sqrt(g*m/r).
// Presets derive their planet velocities from this, which is also how G is
// calibrated for a chosen unit system.
func CircularOrbitVelocity(g, m, r float64) float64 {
	return math.Sqrt(g * m / r)
}

// OrbitalPeriod returns the period of that circular orbit,
// 2π*sqrt(r³/(g*m)).
func OrbitalPeriod(g, m, r float64) float64 {
	return 2 * math.Pi * math.Sqrt(r*r*r/(g*m))
}

// LaunchProbe builds a near-massless probe released from a parent body with
// an extra delta-v on top of the parent's velocity. The probe starts offset
// from the parent's center along the delta-v direction so the first kernel
// evaluation is not softening-dominated.
func LaunchProbe(parent body.Body, id string, deltaV body.Vec3, offset float64) body.Body {
	dir := deltaV
	if n := dir.Norm(); n > 0 {
		dir = dir.Scale(1 / n)
	} else {
		dir = body.Vec3{X: 1}
	}
	return body.Body{
		ID:       id,
		Mass:     0,
		Position: parent.Position.Add(dir.Scale(offset)),
		Velocity: parent.Velocity.Add(deltaV),
	}
}
