package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/jc-higgins/grav-sim/internal/config"
	"github.com/jc-higgins/grav-sim/internal/export"
	"github.com/jc-higgins/grav-sim/internal/gravity"
	"github.com/jc-higgins/grav-sim/internal/metrics"
	"github.com/jc-higgins/grav-sim/internal/server"
	"github.com/jc-higgins/grav-sim/internal/sim"
	"github.com/jc-higgins/grav-sim/internal/store"
	"github.com/jc-higgins/grav-sim/internal/viz"
)

var (
	dataDir       string
	configFile    string
	g             float64
	dt            float64
	steps         int
	softening     float64
	workers       int
	numBodies     int
	recordEvery   int
	validateState bool
	stepsPerFrame int
	addr          string
	tickRate      int
	svgOut        string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gravsim",
		Short: "gravitational n-body simulator",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a headless simulation and save the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().IntVar(&recordEvery, "record-every", 10, "record one frame per N steps")
	runCmd.Flags().BoolVar(&validateState, "validate", true, "stop on non-finite state")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run with live terminal visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)
	liveCmd.Flags().IntVar(&stepsPerFrame, "steps-per-frame", 50, "integration steps per rendered frame")

	serveCmd := &cobra.Command{
		Use:   "serve [scenario]",
		Short: "stream frames to websocket clients",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runServe,
	}
	addScenarioFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().IntVar(&tickRate, "fps", 30, "broadcast frames per second")
	serveCmd.Flags().IntVar(&stepsPerFrame, "steps-per-frame", 50, "integration steps per broadcast frame")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a saved run's orbits as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgOut, "out", "", "output file (default <run_id>.svg)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ScenarioNames() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, serveCmd, listCmd, plotCmd, exportCmd, exportSVGCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scenario config file (yaml)")
	cmd.Flags().Float64Var(&g, "g", config.DefaultG, "gravitational constant")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "integration time step")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of integration steps")
	cmd.Flags().Float64Var(&softening, "softening", 0, "force softening length (0 = unsoftened)")
	cmd.Flags().IntVar(&workers, "workers", 1, "force-pass worker goroutines")
	cmd.Flags().IntVar(&numBodies, "bodies", 0, "body count for parameterized scenarios")
}

// buildConfig merges, in increasing precedence: defaults, config file,
// scenario argument, explicit flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if len(args) > 0 {
		cfg.Scenario = args[0]
	}

	if cmd.Flags().Changed("g") {
		cfg.G = g
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("softening") {
		cfg.Softening = softening
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("bodies") {
		cfg.NumBodies = numBodies
	}

	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	simulation, err := cfg.BuildSimulation()
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	runner := sim.New(simulation)
	runner.AddMetric(metrics.NewEnergyDrift())
	runner.AddMetric(metrics.NewMomentumDrift())

	fmt.Printf("running %s (%d bodies, %d steps)...\n", cfg.Scenario, simulation.NumBodies(), cfg.Steps)
	start := time.Now()

	result, err := runner.Run(context.Background(), sim.Config{
		Steps:         cfg.Steps,
		ValidateState: validateState,
		RecordEvery:   recordEvery,
	})
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Scenario, simulation, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	for _, runErr := range result.Errors {
		fmt.Printf("warning: %v\n", runErr)
	}
	fmt.Println("\nmetrics:")
	fmt.Printf("  energy: %.6f\n", simulation.TotalEnergy())
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6g\n", name, val)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	simulation, err := cfg.BuildSimulation()
	if err != nil {
		return err
	}

	rebuild := func() *gravity.Simulation {
		s, err := cfg.BuildSimulation()
		if err != nil {
			// already built once from the same config
			panic(err)
		}
		return s
	}

	return viz.Run(simulation, rebuild, stepsPerFrame, cfg.Scenario)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	simulation, err := cfg.BuildSimulation()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(simulation, server.Options{
		Addr:         addr,
		TickRate:     tickRate,
		StepsPerTick: stepsPerFrame,
	})

	fmt.Printf("streaming %s on %s/ws\n", cfg.Scenario, addr)
	return srv.ListenAndServe(ctx)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tBODIES\tSTEPS\tDT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.6f\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.NumBodies,
			run.Steps,
			run.Dt,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := store.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no frames to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("frames: %d\n\n", len(frames))

	maxBodies := meta.NumBodies
	if maxBodies > 4 {
		maxBodies = 4
	}

	for i := 0; i < maxBodies; i++ {
		data := make([]float64, len(frames))
		for j, frame := range frames {
			data[j] = frame.Bodies[i].Position.X
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("body %d: x position", i)),
		))
		fmt.Println()
	}

	energy := make([]float64, len(frames))
	for j, frame := range frames {
		energy[j] = frameEnergy(frame.Bodies, meta.G)
	}
	fmt.Println(asciigraph.Plot(energy,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption("total energy"),
	))

	return nil
}

// frameEnergy recomputes kinetic plus pairwise potential energy for a
// recorded frame.
func frameEnergy(bodies []gravity.Body, g float64) float64 {
	e := 0.0
	for i := range bodies {
		e += bodies[i].KineticEnergy()
		for j := i + 1; j < len(bodies); j++ {
			e -= g * bodies[i].Mass * bodies[j].Mass / bodies[i].DistanceTo(bodies[j])
		}
	}
	return e
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := store.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	return store.ExportJSON(os.Stdout, *meta, frames)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := store.New(dataDir)

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	svg := export.OrbitsToSVG(frames, 800, 600)
	if svg == "" {
		return fmt.Errorf("run %s has too few frames to plot", runID)
	}

	out := svgOut
	if out == "" {
		out = runID + ".svg"
	}
	if err := os.WriteFile(out, []byte(svg), 0644); err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", out)
	return nil
}
