package analysis

import (
	"strings"

	"github.com/san-kum/fountain/internal/dynamo"
)

type Point struct{ X, Y float64 }

// PhasePortrait is the height of one link against its vertical velocity.
// Velocity is the forward difference between consecutive snapshots, so a
// history of n snapshots yields n-1 points.
type PhasePortrait struct {
	Link   int
	Points []Point
}

func NewPhasePortrait(h dynamo.History, link int) *PhasePortrait {
	if len(h) < 2 || link < 0 || link >= h[0].Len() {
		return nil
	}

	pp := &PhasePortrait{Link: link, Points: make([]Point, 0, len(h)-1)}
	for i := 1; i < len(h); i++ {
		prev, cur := h[i-1], h[i]
		dt := cur.Time - prev.Time
		if dt <= 0 {
			continue
		}
		y := cur.Positions[link].Y
		vy := (y - prev.Positions[link].Y) / dt
		pp.Points = append(pp.Points, Point{X: y, Y: vy})
	}
	return pp
}

// ASCII plots the portrait on a width x height grid with y horizontal and
// vy vertical. Axes are drawn where zero is in range.
func (pp *PhasePortrait) ASCII(width, height int) string {
	if pp == nil || len(pp.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := pp.Points[0].X, pp.Points[0].X
	minY, maxY := pp.Points[0].Y, pp.Points[0].Y
	for _, p := range pp.Points[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	if maxX == minX {
		maxX = minX + 1
	}
	if maxY == minY {
		maxY = minY + 1
	}

	col := func(x float64) int { return int((x - minX) / (maxX - minX) * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/(maxY-minY)*float64(height-1)) }

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", width))
	}
	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := range grid {
			grid[r][c] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := range grid[r] {
			grid[r][c] = '─'
		}
	}
	for _, p := range pp.Points {
		grid[row(p.Y)][col(p.X)] = '•'
	}

	var sb strings.Builder
	for _, r := range grid {
		sb.WriteString(string(r))
		sb.WriteByte('\n')
	}
	return sb.String()
}
