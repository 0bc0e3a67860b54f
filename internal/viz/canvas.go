package viz

import (
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/fountain/internal/dynamo"
)

const blank = 0x2800

// Braille cells are 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a character grid addressed in dots, Width*2 by Height*4.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Dots returns the canvas size in dots.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

// Set lights the dot at (x, y). Out of range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// IsSet reports whether the dot at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine uses Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// project maps a world point to dot coordinates through vp.
func (c *Canvas) project(vp dynamo.Viewport, p r2.Vec) (int, int) {
	w, h := c.Dots()
	x, y := vp.Project(p, float64(w-1), float64(h-1))
	return int(x + 0.5), int(y + 0.5)
}

// DrawContainer draws the floor across the viewport and the two walls
// from the floor up.
func (c *Canvas) DrawContainer(vp dynamo.Viewport, xMin, xMax float64) {
	x0, y0 := c.project(vp, r2.Vec{X: vp.XMin, Y: 0})
	x1, _ := c.project(vp, r2.Vec{X: vp.XMax, Y: 0})
	c.DrawLine(x0, y0, x1, y0)

	for _, wx := range []float64{xMin, xMax} {
		bx, by := c.project(vp, r2.Vec{X: wx, Y: 0})
		_, ty := c.project(vp, r2.Vec{X: wx, Y: vp.YMax})
		c.DrawLine(bx, by, bx, ty)
	}
}

// DrawChain connects consecutive links and marks link 0 with a 3x3 block.
func (c *Canvas) DrawChain(vp dynamo.Viewport, positions []r2.Vec) {
	if len(positions) == 0 {
		return
	}
	px, py := c.project(vp, positions[0])
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			c.Set(px+dx, py+dy)
		}
	}
	for _, p := range positions[1:] {
		x, y := c.project(vp, p)
		c.DrawLine(px, py, x, y)
		px, py = x, y
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
