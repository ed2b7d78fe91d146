package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/orbitkit/gravsim/internal/bridge"
	"github.com/orbitkit/gravsim/internal/engine"
	"github.com/orbitkit/gravsim/internal/integrators"
	"github.com/orbitkit/gravsim/internal/metrics"
	"github.com/orbitkit/gravsim/internal/physics"
	"github.com/orbitkit/gravsim/internal/scenario"
	"github.com/orbitkit/gravsim/internal/sim"
	"github.com/orbitkit/gravsim/internal/tui"
)

var (
	configFile   string
	integratorID string
	dt           float64
	duration     float64
	plot         bool
	capacity     int
	addr         string
	snapshotRate float64
	timeScale    float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gravsim",
		Short: "solar-system n-body integrator",
	}

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario headless and report conservation drift",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml), overrides preset")
	runCmd.Flags().StringVar(&integratorID, "integrator", "leapfrog", "leapfrog or rk4")
	runCmd.Flags().Float64Var(&dt, "dt", 0.01, "timestep in simulated seconds")
	runCmd.Flags().Float64Var(&duration, "time", 100.0, "simulated duration")
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot relative energy drift")

	compareCmd := &cobra.Command{
		Use:   "compare [scenario]",
		Short: "run both integrators on the same scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  compareIntegrators,
	}
	compareCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml), overrides preset")
	compareCmd.Flags().Float64Var(&dt, "dt", 0.01, "timestep in simulated seconds")
	compareCmd.Flags().Float64Var(&duration, "time", 100.0, "simulated duration")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "interactive terminal view",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml), overrides preset")
	liveCmd.Flags().StringVar(&integratorID, "integrator", "leapfrog", "leapfrog or rk4")
	liveCmd.Flags().Float64Var(&timeScale, "speed", 0, "override scenario time scale")
	liveCmd.Flags().IntVar(&capacity, "capacity", sim.DefaultCapacity, "maximum body count")

	serveCmd := &cobra.Command{
		Use:   "serve [scenario]",
		Short: "expose the engine to websocket hosts",
		Args:  cobra.ExactArgs(1),
		RunE:  serveScenario,
	}
	serveCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml), overrides preset")
	serveCmd.Flags().StringVar(&integratorID, "integrator", "leapfrog", "leapfrog or rk4")
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().Float64Var(&snapshotRate, "snapshot-rate", 60, "max snapshots/second per client")
	serveCmd.Flags().IntVar(&capacity, "capacity", sim.DefaultCapacity, "maximum body count")

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list built-in scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range scenario.ListPresets() {
				s := scenario.Preset(name)
				fmt.Printf("%-10s %d bodies, G=%g\n", name, len(s.Bodies), s.G)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, compareCmd, liveCmd, serveCmd, scenariosCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadScenario(cmd *cobra.Command, name string) (*scenario.Scenario, error) {
	var s *scenario.Scenario
	if configFile != "" {
		var err error
		s, err = scenario.Load(configFile)
		if err != nil {
			return nil, err
		}
	} else {
		s = scenario.Preset(name)
		if s == nil {
			return nil, fmt.Errorf("unknown scenario %q (built-in: %v)", name, scenario.ListPresets())
		}
	}
	// The scenario may name its integrator; an explicit flag wins.
	if s.Integrator != "" && !cmd.Flags().Changed("integrator") {
		integratorID = s.Integrator
	}
	return s, nil
}

// headless advances a scenario by brute iteration, feeding the drift
// observers every sampleEvery steps.
func headless(s *scenario.Scenario, integ integrators.Integrator, dt, duration float64, obs []metrics.Observer) (*metrics.EnergyDrift, error) {
	st := sim.NewState(sim.DefaultCapacity)
	if st.Replace(s.Bodies) != len(s.Bodies) {
		return nil, fmt.Errorf("scenario %s has invalid bodies", s.Name)
	}

	field := physics.Field{G: s.G, Softening: s.Softening}
	pos, vel, mass := st.Positions(), st.Velocities(), st.Masses()
	n := st.Len()

	steps := int(duration / dt)
	sampleEvery := steps / 500
	if sampleEvery < 1 {
		sampleEvery = 1
	}

	energy := metrics.NewEnergyDrift(field)
	obs = append(obs, energy)

	t := 0.0
	for i := 0; i < steps; i++ {
		if i%sampleEvery == 0 {
			for _, o := range obs {
				o.Observe(pos, vel, mass, n, t)
			}
		}
		integ.Step(field.Accel, pos, vel, mass, n, dt)
		t += dt
	}
	for _, o := range obs {
		o.Observe(pos, vel, mass, n, t)
	}
	return energy, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	s, err := loadScenario(cmd, args[0])
	if err != nil {
		return err
	}

	momentum := metrics.NewMomentumDrift()
	start := time.Now()
	energy, err := headless(s, integrators.New(integratorID), dt, duration, []metrics.Observer{momentum})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintf(w, "scenario\t%s\n", s.Name)
	fmt.Fprintf(w, "integrator\t%s\n", integratorID)
	fmt.Fprintf(w, "steps\t%d\n", int(duration/dt))
	fmt.Fprintf(w, "wall time\t%s\n", elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "%s\t%.3e\n", energy.Name(), energy.Value())
	fmt.Fprintf(w, "%s\t%.3e\n", momentum.Name(), momentum.Value())
	w.Flush()

	if plot && len(energy.Series()) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(energy.Series(),
			asciigraph.Height(12),
			asciigraph.Caption("relative energy drift")))
	}
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	s, err := loadScenario(cmd, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("scenario %s, dt=%g, duration=%g\n", s.Name, dt, duration)
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "integrator\tenergy drift\tmomentum drift\twall time")
	for _, name := range []string{"leapfrog", "rk4"} {
		fresh, err := loadScenario(cmd, args[0])
		if err != nil {
			return err
		}
		momentum := metrics.NewMomentumDrift()
		start := time.Now()
		energy, err := headless(fresh, integrators.New(name), dt, duration, []metrics.Observer{momentum})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.3e\t%.3e\t%s\n",
			name, energy.Value(), momentum.Value(), time.Since(start).Round(time.Millisecond))
	}
	return w.Flush()
}

func startEngine(ctx context.Context, s *scenario.Scenario, observer func(time.Duration, int)) *engine.Engine {
	eng := engine.New(engine.Config{
		Capacity:     capacity,
		DefaultG:     s.G,
		Softening:    s.Softening,
		Integrator:   integratorID,
		TickObserver: observer,
	})
	go eng.Run(ctx)
	eng.Post(engine.Init{
		Bodies:    s.Bodies,
		G:         s.G,
		TimeScale: s.TimeScale,
		Paused:    s.Paused,
	})
	return eng
}

func runLive(cmd *cobra.Command, args []string) error {
	s, err := loadScenario(cmd, args[0])
	if err != nil {
		return err
	}
	if timeScale > 0 {
		s.TimeScale = timeScale
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng := startEngine(ctx, s, nil)
	return tui.Run(eng, s.TimeScale)
}

func serveScenario(cmd *cobra.Command, args []string) error {
	s, err := loadScenario(cmd, args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	collector := bridge.NewCollector()
	eng := startEngine(ctx, s, collector.ObserveTick)
	srv := bridge.New(eng, collector, snapshotRate)
	go srv.Broadcast(ctx)

	mux := http.NewServeMux()
	mux.Handle("/ws", srv)
	mux.Handle("/metrics", collector.Handler())

	httpSrv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
		defer done()
		httpSrv.Shutdown(shutdownCtx)
	}()

	log.Printf("serving scenario %q on %s (ws at /ws, metrics at /metrics)", s.Name, addr)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
