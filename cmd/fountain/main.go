package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/fountain/internal/analysis"
	"github.com/san-kum/fountain/internal/config"
	"github.com/san-kum/fountain/internal/dynamo"
	"github.com/san-kum/fountain/internal/experiment"
	"github.com/san-kum/fountain/internal/metrics"
	"github.com/san-kum/fountain/internal/storage"
	"github.com/san-kum/fountain/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	// simulation overrides
	dt         float64
	duration   float64
	stride     int
	integrator string
	links      int
	stiffness  float64
	damping    float64
	hanging    int
	seed       uint64
	metricList []string
	quiet      bool
	// inspection
	seriesList []string
	plotSeries []string
	link       int
	outPath    string
	format     string
	frameIdx   int
	gifStride  int
	gifDelay   int
	frameRate  int
	themeName  string
	fixedView  bool
	// sweeps
	sweepParam string
	sweepFrom  float64
	sweepTo    float64
	sweepSteps int
	numRuns    int
	// optimize
	gridAxes   []string
	objective  string
	minimize   bool
	noSave     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "fountain",
		Short:        "chain fountain simulator",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fountain", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store its trajectory",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringSliceVar(&metricList, "metrics", nil, "metrics to record (default all)")
	runCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "no progress bar")

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the resolved configuration as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  writeConfig,
	}
	addSimFlags(configCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot per-snapshot series of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&plotSeries, "series", []string{"tip-y", "top"}, "series to plot")

	replayCmd := &cobra.Command{
		Use:   "replay [run_id]",
		Short: "play a run back in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  replayRun,
	}
	replayCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	replayCmd.Flags().StringVar(&themeName, "theme", "ocean", "color theme")
	replayCmd.Flags().BoolVar(&fixedView, "fixed", false, "frame the full chain length instead of fitting the motion")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the trajectory as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export metadata and trajectory as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportSQLiteCmd := &cobra.Command{
		Use:   "export-sqlite [run_id]",
		Short: "export the trajectory to a sqlite database",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSQLite,
	}
	exportSQLiteCmd.Flags().StringVarP(&outPath, "out", "o", "", "database file (default <run_id>.db)")

	renderCmd := &cobra.Command{
		Use:   "render [run_id]",
		Short: "render a frame, trail, animation or series to a file",
		Args:  cobra.ExactArgs(1),
		RunE:  renderRun,
	}
	renderCmd.Flags().StringVar(&format, "format", "png", "png, svg, trail, gif or series")
	renderCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file")
	renderCmd.Flags().IntVar(&frameIdx, "frame", -1, "snapshot index, negative counts from the end")
	renderCmd.Flags().IntVar(&link, "link", 0, "link traced by the trail format")
	renderCmd.Flags().IntVar(&gifStride, "stride", 1, "snapshots per gif frame")
	renderCmd.Flags().IntVar(&gifDelay, "delay", 4, "gif frame delay in 1/100 s")
	renderCmd.Flags().StringSliceVar(&seriesList, "series", []string{"tip-y"}, "series for the series format")
	renderCmd.Flags().StringVar(&themeName, "theme", "ocean", "color theme")
	renderCmd.Flags().BoolVar(&fixedView, "fixed", false, "frame the full chain length instead of fitting the motion")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis and phase portrait",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringSliceVar(&seriesList, "series", []string{"tip-y"}, "series to analyze")
	analyzeCmd.Flags().IntVar(&link, "link", 0, "link for the phase portrait")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator]...",
		Short: "compare integrators on the same chain",
		RunE:  compareIntegrators,
	}
	addSimFlags(compareCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run an ensemble over seeds, or sweep one parameter",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&numRuns, "runs", 4, "number of seeds")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "", "parameter to sweep instead of seeds (e.g. damping, k)")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "first parameter value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 10, "last parameter value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 8, "number of parameter values")

	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "grid search config fields for the best metric value",
		Args:  cobra.NoArgs,
		RunE:  runOptimize,
	}
	addSimFlags(optimizeCmd)
	optimizeCmd.Flags().StringArrayVar(&gridAxes, "grid", nil, "axis as name=v1,v2,... (repeatable)")
	optimizeCmd.Flags().StringVar(&objective, "metric", "fountain_height", "metric to optimize")
	optimizeCmd.Flags().BoolVar(&minimize, "minimize", false, "minimize instead of maximize")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted batch of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, configCmd, listCmd, plotCmd, replayCmd, exportCSVCmd, exportJSONCmd,
		exportSQLiteCmd, renderCmd, analyzeCmd, compareCmd, sweepCmd, optimizeCmd, scenarioCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().IntVar(&stride, "sample", 100, "steps between snapshots")
	cmd.Flags().StringVar(&integrator, "integrator", "euler-cromer", "integrator")
	cmd.Flags().IntVar(&links, "links", 50, "number of links")
	cmd.Flags().Float64Var(&stiffness, "k", 1e4, "spring stiffness")
	cmd.Flags().Float64Var(&damping, "damping", 5.0, "spring damping")
	cmd.Flags().IntVar(&hanging, "hanging", 5, "links hanging over the edge at t=0")
	cmd.Flags().Uint64Var(&seed, "seed", config.DefaultSeed, "pile layout seed")
}

// resolveConfig layers defaults, then a preset, then a config file, then
// any flags set on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p, err := experiment.NewRegistry().GetPreset(preset)
		if err != nil {
			return nil, "", fmt.Errorf("%w (available: %v)", err, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("sample") {
		cfg.SampleStride = stride
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("links") {
		cfg.Links = links
	}
	if flags.Changed("k") {
		cfg.Stiffness = stiffness
	}
	if flags.Changed("damping") {
		cfg.Damping = damping
	}
	if flags.Changed("hanging") {
		cfg.Init.Hanging = hanging
	}
	if flags.Changed("seed") {
		cfg.Init.Seed = seed
	}

	return cfg, preset, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, presetName, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg, presetName)
	if err := exp.Setup(experiment.NewRegistry(), metricList...); err != nil {
		return err
	}
	degenerate := metrics.NewDegenerate()
	exp.Simulator().AddMetric(degenerate)
	if !quiet {
		exp.Simulator().AddObserver(viz.NewProgress(os.Stderr, cfg.SimConfig().Steps()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %d links for %.2fs (dt=%g, %s)\n", cfg.Links, cfg.Duration, cfg.Dt, cfg.Integrator)
	start := time.Now()

	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}
	elapsed := time.Since(start)

	runID, err := st.Save(exp.Metadata(result), result.History)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed.Round(time.Millisecond))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d  snapshots: %d\n", result.StepsTaken, len(result.History))
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)
	if err := degenerate.Err(); err != nil {
		fmt.Printf("\nfirst skipped spring: %v\n", err)
	}

	if runErr != nil {
		return fmt.Errorf("run stopped early, partial trajectory saved: %w", runErr)
	}
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%.6g\n", name, m[name])
	}
	w.Flush()
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	path := "fountain.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tLINKS\tDURATION\tDT\tINTEG\tSNAPSHOTS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2fs\t%gs\t%s\t%d\n",
			run.ID,
			orDash(run.Preset),
			run.Timestamp.Format("2006-01-02 15:04:05"),
			int(run.Params["links"]),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Snapshots,
		)
	}

	return w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func loadRun(runID string) (*storage.RunMetadata, dynamo.History, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	h, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(h) == 0 {
		return nil, nil, fmt.Errorf("run %s has no snapshots", runID)
	}
	return meta, h, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, h, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d over %.2fs\n\n", len(h), meta.Duration)

	for _, name := range plotSeries {
		data, err := analysis.Extract(h, name)
		if err != nil {
			return fmt.Errorf("%w (available: %v)", err, analysis.SeriesNames())
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, h, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return withOutput(func(f *os.File) error {
		return storage.WriteTrajectoryCSV(f, h)
	})
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, h, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return withOutput(func(f *os.File) error {
		return storage.ExportJSON(f, *meta, h)
	})
}

func exportSQLite(cmd *cobra.Command, args []string) error {
	_, h, err := loadRun(args[0])
	if err != nil {
		return err
	}
	path := outPath
	if path == "" {
		path = args[0] + ".db"
	}
	if err := storage.ExportSQLite(path, h); err != nil {
		return err
	}
	fmt.Printf("wrote %d snapshots to %s\n", len(h), path)
	return nil
}

// withOutput hands fn the --out file, or stdout when none was given.
func withOutput(fn func(f *os.File) error) error {
	if outPath == "" {
		return fn(os.Stdout)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
