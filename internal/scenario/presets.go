package scenario

import (
	"sort"

	"github.com/orbitkit/gravsim/internal/body"
	"github.com/orbitkit/gravsim/internal/physics"
)

// Solar-system unit convention: distances in gigameters, masses in Earth
// masses, and G calibrated so the planets' circular-orbit velocities come
// out of CircularOrbitVelocity directly.
const (
	SolarG    = 3.8e-7
	SunMass   = 332946
	EarthDist = 149.6
)

// planetRow is a preset table entry: orbital radius in Gm, mass in Earth
// masses. Velocities are derived, never hand-entered.
type planetRow struct {
	id   string
	r    float64
	mass float64
}

var planets = []planetRow{
	{"mercury", 57.9, 0.0553},
	{"venus", 108.2, 0.815},
	{"earth", EarthDist, 1.0},
	{"mars", 227.9, 0.107},
	{"jupiter", 778.6, 317.8},
	{"saturn", 1433.5, 95.2},
	{"uranus", 2872.5, 14.5},
	{"neptune", 4495.1, 17.1},
}

func solar() *Scenario {
	bodies := []body.Body{{ID: "sun", Mass: SunMass}}
	for _, p := range planets {
		v := CircularOrbitVelocity(SolarG, SunMass, p.r)
		bodies = append(bodies, body.Body{
			ID:       p.id,
			Mass:     p.mass,
			Position: body.Vec3{X: p.r},
			Velocity: body.Vec3{Y: v},
		})
	}
	return &Scenario{
		Name:      "solar",
		G:         SolarG,
		Softening: physics.DefaultSoftening,
		TimeScale: 1.0,
		Bodies:    bodies,
	}
}

// FigureEightPeriod is the period of the equal-mass figure-eight
// choreography below (G=1, unit masses).
const FigureEightPeriod = 6.32591398

func figureEight() *Scenario {
	// Chenciner-Montgomery three-body choreography. The orbit is stable, so
	// bounded positions over many periods are a strong integrator check.
	return &Scenario{
		Name:      "figure8",
		G:         1.0,
		Softening: 0,
		TimeScale: 1.0,
		Bodies: []body.Body{
			{
				ID: "alpha", Mass: 1,
				Position: body.Vec3{X: 0.97000436, Y: -0.24308753},
				Velocity: body.Vec3{X: 0.466203685, Y: 0.43236573},
			},
			{
				ID: "beta", Mass: 1,
				Position: body.Vec3{X: -0.97000436, Y: 0.24308753},
				Velocity: body.Vec3{X: 0.466203685, Y: 0.43236573},
			},
			{
				ID: "gamma", Mass: 1,
				Position: body.Vec3{},
				Velocity: body.Vec3{X: -0.93240737, Y: -0.86473146},
			},
		},
	}
}

func toy() *Scenario {
	// Stylized two-planet system for quick interactive play. Same derived
	// velocities, friendlier numbers.
	const g, m = 1.0, 1000.0
	bodies := []body.Body{{ID: "star", Mass: m}}
	for _, p := range []planetRow{{"inner", 20, 1}, {"outer", 45, 2}} {
		bodies = append(bodies, body.Body{
			ID:       p.id,
			Mass:     p.mass,
			Position: body.Vec3{X: p.r},
			Velocity: body.Vec3{Y: CircularOrbitVelocity(g, m, p.r)},
		})
	}
	return &Scenario{
		Name:      "toy",
		G:         g,
		Softening: physics.DefaultSoftening,
		TimeScale: 1.0,
		Bodies:    bodies,
	}
}

var presets = map[string]func() *Scenario{
	"solar":   solar,
	"figure8": figureEight,
	"toy":     toy,
}

// Preset returns a fresh copy of the named built-in scenario, or nil.
func Preset(name string) *Scenario {
	f, ok := presets[name]
	if !ok {
		return nil
	}
	return f()
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
