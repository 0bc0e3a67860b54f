package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"

	"github.com/san-kum/fountain/internal/dynamo"
)

const (
	cellW = 8
	cellH = 16
)

// hexColor parses #rrggbb, falling back to white.
func hexColor(s string) color.RGBA {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// rasterize paints every lit braille dot of c as a solid block of ink.
func rasterize(c *Canvas, ink color.Color) *image.Paletted {
	img := image.NewPaletted(
		image.Rect(0, 0, c.Width*cellW, c.Height*cellH),
		color.Palette{color.Black, ink},
	)
	dotW, dotH := cellW/2, cellH/4
	w, h := c.Dots()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !c.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	return img
}

// WriteGIF renders every stride-th snapshot as a frame of an animated GIF.
// delay is in hundredths of a second.
func WriteGIF(w io.Writer, h dynamo.History, opts ReplayOptions, stride, delay int) error {
	if len(h) == 0 {
		return fmt.Errorf("no snapshots to render")
	}
	if stride < 1 {
		stride = 1
	}
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}
	if opts.Viewport.Width() <= 0 || opts.Viewport.Height() <= 0 {
		opts.Viewport = dynamo.Fit(h, 0.05)
	}

	canvas := NewCanvas(opts.Width, opts.Height)
	ink := hexColor(string(GetTheme(opts.Theme).Chain))
	anim := gif.GIF{LoopCount: 0}
	for i := 0; i < len(h); i += stride {
		canvas.Clear()
		canvas.DrawContainer(opts.Viewport, opts.XMin, opts.XMax)
		canvas.DrawChain(opts.Viewport, h[i].Positions)
		anim.Image = append(anim.Image, rasterize(canvas, ink))
		anim.Delay = append(anim.Delay, delay)
	}

	return gif.EncodeAll(w, &anim)
}
