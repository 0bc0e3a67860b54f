package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/fountain/internal/analysis"
	"github.com/san-kum/fountain/internal/automation"
	"github.com/san-kum/fountain/internal/config"
	"github.com/san-kum/fountain/internal/dynamo"
	"github.com/san-kum/fountain/internal/experiment"
	"github.com/san-kum/fountain/internal/export"
	"github.com/san-kum/fountain/internal/integrators"
	"github.com/san-kum/fountain/internal/metrics"
	"github.com/san-kum/fountain/internal/optim"
	"github.com/san-kum/fountain/internal/sim"
	"github.com/san-kum/fountain/internal/storage"
	"github.com/san-kum/fountain/internal/viz"
)

func container(meta *storage.RunMetadata) export.Container {
	return export.Container{XMin: meta.Params["x_min"], XMax: meta.Params["x_max"]}
}

func viewport(meta *storage.RunMetadata, h dynamo.History) dynamo.Viewport {
	if length := meta.Params["length"]; fixedView && length > 0 {
		return dynamo.DefaultViewport(length)
	}
	return dynamo.Fit(h, 0.1)
}

func replayRun(cmd *cobra.Command, args []string) error {
	meta, h, err := loadRun(args[0])
	if err != nil {
		return err
	}
	box := container(meta)
	return viz.RunReplay(h, viz.ReplayOptions{
		Title:    meta.ID,
		Viewport: viewport(meta, h),
		XMin:     box.XMin,
		XMax:     box.XMax,
		FPS:      frameRate,
		Theme:    themeName,
	})
}

func renderRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	meta, h, err := loadRun(runID)
	if err != nil {
		return err
	}

	idx := frameIdx
	if idx < 0 {
		idx += len(h)
	}
	if idx < 0 || idx >= len(h) {
		return fmt.Errorf("frame %d out of range (%d snapshots)", frameIdx, len(h))
	}
	snap := h[idx]
	box := container(meta)
	vp := viewport(meta, h)

	out := func(suffix string) string {
		if outPath != "" {
			return outPath
		}
		return runID + suffix
	}

	var path string
	switch format {
	case "png":
		path = out(".png")
		err = export.FramePNG(path, snap, vp, box)
	case "svg":
		path = out(".svg")
		err = os.WriteFile(path, []byte(export.ChainToSVG(snap, vp, box, 800, 800)), 0644)
	case "trail":
		path = out("-trail.svg")
		err = os.WriteFile(path, []byte(export.TrajectoryToSVG(h, link, 800, 600, "#4a9eff")), 0644)
	case "gif":
		path = out(".gif")
		err = writeGIF(path, h, viz.ReplayOptions{
			Title:    meta.ID,
			Viewport: vp,
			XMin:     box.XMin,
			XMax:     box.XMax,
			Theme:    themeName,
		})
	case "series":
		if len(seriesList) == 0 {
			return fmt.Errorf("no series given (available: %v)", analysis.SeriesNames())
		}
		name := seriesList[0]
		path = out("-" + name + ".png")
		var ys []float64
		if ys, err = analysis.Extract(h, name); err == nil {
			err = export.SeriesPNG(path, meta.ID, "time (s)", name, h.Times(), ys)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", path)
	return nil
}

func writeGIF(path string, h dynamo.History, opts viz.ReplayOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := viz.WriteGIF(f, h, opts, gifStride, gifDelay); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, h, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("snapshots: %d\n\n", len(h))

	sampleDt := analysis.SampleInterval(h)
	for _, name := range seriesList {
		data, err := analysis.Extract(h, name)
		if err != nil {
			return fmt.Errorf("%w (available: %v)", err, analysis.SeriesNames())
		}

		ps := analysis.PowerSpectrum(data)
		if len(ps) >= 4 {
			graph := asciigraph.Plot(ps[:len(ps)/2],
				asciigraph.Height(12),
				asciigraph.Width(80),
				asciigraph.Caption("power spectrum ("+name+")"),
			)
			fmt.Println(graph)
			fmt.Println()
		}

		freq, err := analysis.DominantFrequency(data, sampleDt)
		if err != nil {
			fmt.Printf("%s: %v\n\n", name, err)
			continue
		}
		fmt.Printf("%s dominant frequency: %.3f hz\n", name, freq)
		if freq > 0 {
			fmt.Printf("%s period: %.3f s\n", name, 1.0/freq)
		}
		fmt.Println()
	}

	pp := analysis.NewPhasePortrait(h, link)
	if pp == nil {
		return fmt.Errorf("no phase portrait for link %d", link)
	}
	fmt.Printf("phase portrait, link %d (y horizontal, vy vertical)\n", link)
	fmt.Print(pp.ASCII(80, 20))

	if len(meta.Metrics) > 0 {
		fmt.Println("\nrecorded metrics:")
		printMetrics(meta.Metrics)
	}
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, presetName, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	names := args
	if len(names) == 0 {
		names = reg.ListIntegrators()
	}

	fmt.Printf("comparing integrators for %d links (dt=%g, duration=%.2fs)\n\n", cfg.Links, cfg.Dt, cfg.Duration)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "integrator\tfountain_height\tenergy_drift\tmax_stretch\ttime_ms\t")

	for _, name := range names {
		c := cfg.Clone()
		c.Integrator = name

		exp := experiment.New(c, presetName)
		if err := exp.Setup(reg, "fountain_height", "energy_drift", "max_stretch"); err != nil {
			fmt.Fprintf(w, "%s\terror: %v\t\t\t\t\n", name, err)
			continue
		}

		start := time.Now()
		result, err := exp.Run(cmd.Context())
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\t\t\t\t\n", name, err)
			continue
		}

		fmt.Fprintf(w, "%s\t%.4f\t%.2e\t%.4f\t%.2f\t\n", name,
			result.Metrics["fountain_height"],
			result.Metrics["energy_drift"],
			result.Metrics["max_stretch"],
			float64(elapsed.Microseconds())/1000)
	}

	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if sweepParam != "" {
		return sweepParameter(ctx, cfg)
	}
	return sweepSeeds(ctx, cfg)
}

func sweepParameter(ctx context.Context, cfg *config.Config) error {
	fmt.Printf("sweeping %s from %g to %g (%d runs)\n\n", sweepParam, sweepFrom, sweepTo, sweepSteps)

	points, err := analysis.Sweep(ctx, cfg.Physical(), sweepParam, sweepFrom, sweepTo, sweepSteps, cfg.InitOptions(), cfg.SimConfig())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tfountain_height\tmax_stretch\n", sweepParam)
	for _, p := range points {
		if p.Err != nil {
			fmt.Fprintf(w, "%g\terror: %v\t\n", p.Param, p.Err)
			continue
		}
		fmt.Fprintf(w, "%g\t%.4f\t%.4f\n", p.Param, p.Height, p.MaxStretch)
	}
	w.Flush()

	fmt.Println()
	fmt.Print(analysis.SweepToASCII(points, 10))
	return nil
}

func sweepSeeds(ctx context.Context, cfg *config.Config) error {
	params, err := cfg.Params()
	if err != nil {
		return err
	}

	newIntegrator := func() sim.Integrator {
		integ, _ := integrators.New(cfg.Integrator)
		return integ
	}
	ens := sim.NewEnsemble(params, newIntegrator, metrics.Default, numRuns, cfg.Init.Seed)

	fmt.Printf("running %d seeds from %d\n\n", numRuns, cfg.Init.Seed)
	start := time.Now()
	results, err := ens.Run(ctx, cfg.InitOptions(), cfg.SimConfig())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "seed\tfountain_height\tenergy_drift\tcollisions\tstability")
	heights := make([]float64, len(results))
	for i, r := range results {
		heights[i] = r.Metrics["fountain_height"]
		fmt.Fprintf(w, "%d\t%.4f\t%.2e\t%.2f\t%.3f\n", cfg.Init.Seed+uint64(i),
			r.Metrics["fountain_height"],
			r.Metrics["energy_drift"],
			r.Metrics["collisions"],
			r.Metrics["stability"])
	}
	w.Flush()

	fmt.Printf("\nfountain height by seed: %s\n", viz.SparklineChart(heights, len(heights)))
	fmt.Printf("elapsed: %v\n", time.Since(start).Round(time.Millisecond))

	if len(results) >= 2 {
		d := analysis.Divergence(results[0].History, results[1].History)
		if rate, err := analysis.DivergenceRate(results[0].History.Times(), d); err == nil {
			fmt.Printf("divergence rate between the first two seeds: %.3f /s\n", rate)
		}
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tLINKS\tLENGTH\tDURATION\tDT\tK\tHANGING")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%g\t%gs\t%g\t%g\t%d\n",
			name, p.Links, p.TotalLength, p.Duration, p.Dt, p.Stiffness, p.Init.Hanging)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	reg := experiment.NewRegistry()
	fmt.Printf("\nintegrators: %s\n", strings.Join(reg.ListIntegrators(), ", "))
	fmt.Printf("metrics: %s\n", strings.Join(reg.ListMetrics(), ", "))
	fmt.Printf("series: %s\n", strings.Join(analysis.SeriesNames(), ", "))
	fmt.Printf("themes: %s\n", strings.Join(viz.ThemeNames(), ", "))
	return nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(gridAxes) == 0 {
		return fmt.Errorf("at least one --grid axis is required")
	}

	names := make([]string, len(gridAxes))
	ranges := make([][]float64, len(gridAxes))
	points := 1
	for i, axis := range gridAxes {
		if names[i], ranges[i], err = optim.ParseAxis(axis); err != nil {
			return err
		}
		points *= len(ranges[i])
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	goal := "maximizing"
	if minimize {
		goal = "minimizing"
	}
	fmt.Printf("%s %s over %d grid points\n", goal, objective, points)

	start := time.Now()
	best, value, err := optim.NewGridSearch(names, ranges, !minimize).Search(ctx, cfg, experiment.NewRegistry(), objective)
	if err != nil {
		return err
	}

	fmt.Printf("\nbest %s: %.6g (%v)\n", objective, value, time.Since(start).Round(time.Millisecond))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%g\n", name, best[name])
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	var st *storage.Store
	if !noSave {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if sc.Name != "" {
		fmt.Printf("scenario: %s\n", sc.Name)
	}
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}

	results, err := automation.RunScenario(ctx, sc, experiment.NewRegistry(), st, os.Stdout)
	fmt.Printf("\n%d/%d steps completed\n", len(results), len(sc.Steps))
	return err
}
