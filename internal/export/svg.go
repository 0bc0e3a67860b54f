package export

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/fountain/internal/dynamo"
)

// Container is drawn as a floor line and two walls.
type Container struct {
	XMin, XMax float64
}

// ChainToSVG draws one snapshot: the container, the chain as a polyline
// and every link as a dot, with link 0 highlighted.
func ChainToSVG(snap dynamo.Snapshot, vp dynamo.Viewport, box Container, width, height int) string {
	w, h := float64(width), float64(height)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	// floor and walls
	fx0, fy := vp.Project(r2.Vec{X: vp.XMin, Y: 0}, w, h)
	fx1, _ := vp.Project(r2.Vec{X: vp.XMax, Y: 0}, w, h)
	sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#444466" stroke-width="1"/>
`, fx0, fy, fx1, fy))
	for _, x := range []float64{box.XMin, box.XMax} {
		wx, wy0 := vp.Project(r2.Vec{X: x, Y: 0}, w, h)
		_, wy1 := vp.Project(r2.Vec{X: x, Y: vp.YMax}, w, h)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#444466" stroke-width="1"/>
`, wx, wy0, wx, wy1))
	}

	if len(snap.Positions) > 0 {
		sb.WriteString(`<polyline fill="none" stroke="#00ccff" stroke-width="1.5" points="`)
		for i, p := range snap.Positions {
			x, y := vp.Project(p, w, h)
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		}
		sb.WriteString("\"/>\n<g fill=\"#00ff88\">\n")

		for i, p := range snap.Positions {
			x, y := vp.Project(p, w, h)
			fill := ""
			if i == 0 {
				fill = ` fill="#ff4444"`
			}
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="2.5"%s/>
`, x, y, fill))
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString(fmt.Sprintf(`<text x="8" y="16" fill="#888899" font-family="monospace" font-size="12">t = %.3f s</text>
`, snap.Time))
	sb.WriteString("</svg>")
	return sb.String()
}

// TrajectoryToSVG draws the path of one link through the history.
func TrajectoryToSVG(h dynamo.History, link, width, height int, strokeColor string) string {
	points := make([]r2.Vec, 0, len(h))
	for _, snap := range h {
		if link < len(snap.Positions) {
			points = append(points, snap.Positions[link])
		}
	}
	if len(points) < 2 {
		return ""
	}

	var path dynamo.History
	path.Append(0, 0, points)
	vp := dynamo.Fit(path, 0.1)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range points {
		x, y := vp.Project(p, float64(width), float64(height))
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
