package dynamo

import "gonum.org/v1/gonum/spatial/r2"

// Viewport is the world-space rectangle a renderer maps onto its surface.
type Viewport struct {
	XMin, XMax float64
	YMin, YMax float64
}

// DefaultViewport frames a chain of the given length hanging off the
// origin with its pile to the right.
func DefaultViewport(length float64) Viewport {
	return Viewport{
		XMin: -0.5 * length,
		XMax: 1.5 * length,
		YMin: -1.2 * length,
		YMax: 0.8 * length,
	}
}

// Fit returns the bounding box of every link in h, grown by pad on each
// side as a fraction of its extent. Degenerate extents become 1.
func Fit(h History, pad float64) Viewport {
	first := true
	var v Viewport
	for _, snap := range h {
		for _, p := range snap.Positions {
			if first {
				v = Viewport{XMin: p.X, XMax: p.X, YMin: p.Y, YMax: p.Y}
				first = false
				continue
			}
			v.XMin = min(v.XMin, p.X)
			v.XMax = max(v.XMax, p.X)
			v.YMin = min(v.YMin, p.Y)
			v.YMax = max(v.YMax, p.Y)
		}
	}

	w, ht := v.Width(), v.Height()
	if w == 0 {
		w = 1
	}
	if ht == 0 {
		ht = 1
	}
	v.XMin -= w * pad
	v.XMax += w * pad
	v.YMin -= ht * pad
	v.YMax += ht * pad
	if v.Width() == 0 {
		v.XMax = v.XMin + 1
	}
	if v.Height() == 0 {
		v.YMax = v.YMin + 1
	}
	return v
}

func (v Viewport) Width() float64  { return v.XMax - v.XMin }
func (v Viewport) Height() float64 { return v.YMax - v.YMin }

// Project maps p onto a w x h surface with y pointing down.
func (v Viewport) Project(p r2.Vec, w, h float64) (float64, float64) {
	x := (p.X - v.XMin) / v.Width() * w
	y := h - (p.Y-v.YMin)/v.Height()*h
	return x, y
}
