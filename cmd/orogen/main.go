package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/orogen/internal/config"
	"github.com/san-kum/orogen/internal/metrics"
	"github.com/san-kum/orogen/internal/solver"
	"github.com/san-kum/orogen/internal/storage"
	"github.com/san-kum/orogen/internal/terrain"
	"github.com/san-kum/orogen/internal/tui"
)

var (
	dataDir     string
	terrainKind string
	cells       int
	uplift      float64
	amplitude   float64
	dt          float64
	threshold   float64
	maxSteps    int
	workers     int
	configFile  string
	preset      string
	stepCount   int
	benchSteps  int
)

// main registers the orogen commands: solve a range to steady state, step it a
// fixed number of times, browse and plot stored runs, watch a live view, or
// benchmark worker counts.
func main() {
	rootCmd := &cobra.Command{
		Use:   "orogen",
		Short: "parallel mountain range simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".orogen", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "solve a range to steady state",
		RunE:  runSolve,
	}
	addSimFlags(runCmd)

	stepCmd := &cobra.Command{
		Use:   "step",
		Short: "advance a range a fixed number of steps",
		RunE:  runSteps,
	}
	addSimFlags(stepCmd)
	stepCmd.Flags().IntVar(&stepCount, "steps", 100, "number of steps")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch a range evolve",
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "compare sequential and parallel solvers",
		RunE:  runBench,
	}
	addSimFlags(benchCmd)
	benchCmd.Flags().IntVar(&benchSteps, "steps", 2000, "steps per benchmark")

	rootCmd.AddCommand(runCmd, stepCmd, listCmd, plotCmd, liveCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&terrainKind, "terrain", "ridge", "terrain kind (ridge, plateau, flat)")
	cmd.Flags().IntVar(&cells, "cells", config.DefaultCells, "cell count")
	cmd.Flags().Float64Var(&uplift, "uplift", config.DefaultUplift, "uplift rate")
	cmd.Flags().Float64Var(&amplitude, "amplitude", config.DefaultAmplitude, "initial ridge amplitude")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&threshold, "threshold", config.DefaultThreshold, "convergence threshold")
	cmd.Flags().IntVar(&maxSteps, "max-steps", config.DefaultMaxSteps, "step limit")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker count (0: use "+config.WorkersEnv+" or 1)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "preset name for the chosen terrain")
}

// resolveConfig merges, in increasing precedence: defaults, a config file, a
// preset, and explicit flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if preset != "" {
		p := config.GetPreset(terrainKind, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q for terrain %q (have %v)",
				preset, terrainKind, config.ListPresets(terrainKind))
		}
		*cfg = *p
	}

	if cmd.Flags().Changed("terrain") {
		cfg.Terrain = terrainKind
	}
	if cmd.Flags().Changed("cells") {
		cfg.Cells = cells
	}
	if cmd.Flags().Changed("uplift") {
		cfg.Uplift = uplift
	}
	if cmd.Flags().Changed("amplitude") {
		cfg.Amplitude = amplitude
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("threshold") {
		cfg.Threshold = threshold
	}
	if cmd.Flags().Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cfg.Workers < 1 {
		cfg.Workers = config.WorkerCount()
	}
	return cfg, nil
}

func buildRange(cfg *config.Config) (*terrain.Range, error) {
	switch cfg.Terrain {
	case "ridge":
		return terrain.NewRidge(cfg.Cells, cfg.Amplitude), nil
	case "plateau":
		return terrain.NewPlateau(cfg.Cells, cfg.Uplift), nil
	case "flat":
		return terrain.NewFlat(cfg.Cells, cfg.Uplift), nil
	default:
		return nil, fmt.Errorf("unknown terrain %q", cfg.Terrain)
	}
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	rng, err := buildRange(cfg)
	if err != nil {
		return err
	}

	s := solver.NewStepper(rng, cfg.Workers)
	defer s.Close()

	driver := solver.NewDriver(s)
	driver.AddMetric(metrics.NewMeanSteepness())
	driver.AddMetric(metrics.NewConvergenceRate())
	driver.AddMetric(metrics.NewPeakElevation(rng))

	start := time.Now()
	result, err := driver.Run(context.Background(), solver.Config{
		Dt:        cfg.Dt,
		Threshold: cfg.Threshold,
		MaxSteps:  cfg.MaxSteps,
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("terrain: %s  cells: %d  workers: %d\n", cfg.Terrain, cfg.Cells, s.Workers())
	if result.Converged {
		fmt.Printf("converged after %d steps (t=%.4f) in %s\n", result.Steps, result.FinalTime, elapsed.Round(time.Millisecond))
	} else {
		fmt.Printf("stopped at step limit %d (t=%.4f) in %s\n", result.Steps, result.FinalTime, elapsed.Round(time.Millisecond))
	}
	fmt.Printf("final steepness: %.6e\n", result.FinalSteepness)
	for name, value := range result.Metrics {
		fmt.Printf("%s: %.6g\n", name, value)
	}

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	runID, err := store.Save(cfg.Terrain, cfg.Dt, cfg.Threshold, s.Workers(), rng, result)
	if err != nil {
		return err
	}
	fmt.Printf("saved run %s\n\n", runID)

	printSteepnessGraph(result.History)
	return nil
}

func runSteps(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	rng, err := buildRange(cfg)
	if err != nil {
		return err
	}

	s := solver.NewStepper(rng, cfg.Workers)
	defer s.Close()

	var t float64
	for i := 0; i < stepCount; i++ {
		t = s.Advance(cfg.Dt)
	}
	fmt.Printf("advanced %d steps to t=%.4f (steepness %.6e)\n\n", stepCount, t, s.Steepness())

	printProfileGraph(rng.Elevation())
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTERRAIN\tCELLS\tWORKERS\tSTEPS\tFINAL T\tCONVERGED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%.4f\t%v\n",
			run.ID, run.Terrain, run.Cells, run.Workers, run.Steps, run.FinalTime, run.Converged)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)

	meta, err := store.Load(args[0])
	if err != nil {
		return fmt.Errorf("load run: %w", err)
	}
	history, err := store.LoadHistory(args[0])
	if err != nil {
		return err
	}
	profile, err := store.LoadProfile(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s  (%d cells, %d workers, %d steps)\n\n", meta.ID, meta.Cells, meta.Workers, meta.Steps)
	printProfileGraph(profile)
	fmt.Println()
	printSteepnessGraph(history)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	rng, err := buildRange(cfg)
	if err != nil {
		return err
	}

	s := solver.NewStepper(rng, cfg.Workers)
	defer s.Close()

	model := tui.NewModel(s, rng.Elevation, cfg.Dt)
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	seqRange, err := buildRange(cfg)
	if err != nil {
		return err
	}
	seq := solver.NewSequential(seqRange)
	seqTime := timeSteps(seq, cfg.Dt, benchSteps)

	parRange, err := buildRange(cfg)
	if err != nil {
		return err
	}
	par := solver.NewStepper(parRange, cfg.Workers)
	defer par.Close()
	parTime := timeSteps(par, cfg.Dt, benchSteps)

	fmt.Printf("%d cells, %d steps\n", cfg.Cells, benchSteps)
	fmt.Printf("sequential:        %s\n", seqTime.Round(time.Microsecond))
	fmt.Printf("parallel (n=%d):   %s\n", par.Workers(), parTime.Round(time.Microsecond))
	if parTime > 0 {
		fmt.Printf("speedup: %.2fx\n", float64(seqTime)/float64(parTime))
	}
	return nil
}

func timeSteps(s solver.Surface, dt float64, steps int) time.Duration {
	start := time.Now()
	for i := 0; i < steps; i++ {
		s.Advance(dt)
	}
	return time.Since(start)
}

func printSteepnessGraph(history []solver.Sample) {
	if len(history) < 2 {
		return
	}
	data := make([]float64, len(history))
	for i, sample := range history {
		data[i] = sample.Steepness
	}
	data = downsample(data, 120)
	fmt.Println("steepness over time:")
	fmt.Println(asciigraph.Plot(data, asciigraph.Height(12), asciigraph.Width(72)))
}

func printProfileGraph(elevation []float64) {
	if len(elevation) < 2 {
		return
	}
	data := downsample(elevation, 120)
	fmt.Println("elevation profile:")
	fmt.Println(asciigraph.Plot(data, asciigraph.Height(12), asciigraph.Width(72)))
}

// downsample thins data to at most limit points, keeping the endpoints.
func downsample(data []float64, limit int) []float64 {
	if len(data) <= limit {
		return data
	}
	out := make([]float64, limit)
	for i := range out {
		out[i] = data[i*(len(data)-1)/(limit-1)]
	}
	return out
}
