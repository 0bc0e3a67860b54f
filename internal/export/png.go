package export

import (
	"bufio"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/fountain/internal/dynamo"
)

var (
	chainColor = color.RGBA{R: 0, G: 120, B: 200, A: 255}
	tipColor   = color.RGBA{R: 220, G: 40, B: 40, A: 255}
	wallColor  = color.RGBA{R: 90, G: 90, B: 110, A: 255}
)

func limitedTicker(maxLabels int, labelFmt string) plot.Ticker {
	if maxLabels < 2 {
		maxLabels = 2
	}
	return plot.TickerFunc(func(min, max float64) []plot.Tick {
		if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
			return nil
		}
		if min == max {
			return []plot.Tick{{Value: min, Label: fmt.Sprintf(labelFmt, min)}}
		}
		step := (max - min) / float64(maxLabels-1)
		ticks := make([]plot.Tick, 0, maxLabels)
		for i := 0; i < maxLabels; i++ {
			v := min + float64(i)*step
			ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf(labelFmt, v)})
		}
		return ticks
	})
}

func stylePlot(p *plot.Plot) {
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Title.Padding = vg.Points(8)
	p.X.Label.TextStyle.Font.Size = vg.Points(12)
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)
	p.X.Tick.Marker = limitedTicker(6, "%.2f")
	p.Y.Tick.Marker = limitedTicker(6, "%.2f")
}

func savePlotPNG(p *plot.Plot, widthIn, heightIn float64, dpi int, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(dpi),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}

// FramePNG renders one snapshot with its container to a PNG file.
func FramePNG(path string, snap dynamo.Snapshot, vp dynamo.Viewport, box Container) error {
	if len(snap.Positions) == 0 {
		return fmt.Errorf("snapshot at step %d has no links", snap.Step)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Chain fountain, t = %.3f s", snap.Time)
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"
	p.X.Min, p.X.Max = vp.XMin, vp.XMax
	p.Y.Min, p.Y.Max = vp.YMin, vp.YMax
	stylePlot(p)
	p.Add(plotter.NewGrid())

	container := plotter.XYs{
		{X: box.XMin, Y: vp.YMax}, {X: box.XMin, Y: 0},
		{X: box.XMax, Y: 0}, {X: box.XMax, Y: vp.YMax},
	}
	walls, err := plotter.NewLine(container)
	if err != nil {
		return err
	}
	walls.LineStyle.Color = wallColor
	walls.LineStyle.Width = vg.Points(1.5)

	pts := make(plotter.XYs, len(snap.Positions))
	for i, pos := range snap.Positions {
		pts[i].X, pts[i].Y = pos.X, pos.Y
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Color = chainColor
	line.LineStyle.Width = vg.Points(2)
	points.GlyphStyle.Color = chainColor
	points.GlyphStyle.Radius = vg.Points(2)

	tip, err := plotter.NewScatter(pts[:1])
	if err != nil {
		return err
	}
	tip.GlyphStyle.Color = tipColor
	tip.GlyphStyle.Radius = vg.Points(3.5)

	p.Add(walls, line, points, tip)
	return savePlotPNG(p, 6, 6, 150, path)
}

// SeriesPNG renders a single line plot of ys against xs.
func SeriesPNG(path, title, xlabel, ylabel string, xs, ys []float64) error {
	if len(xs) != len(ys) || len(xs) == 0 {
		return fmt.Errorf("plot data invalid: %d x values, %d y values", len(xs), len(ys))
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	stylePlot(p)

	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(2)
	line.LineStyle.Color = chainColor
	p.Add(line)

	return savePlotPNG(p, 8, 5, 150, path)
}
