// Package export renders recorded runs as SVG images, one orbit path per
// body.
package export

import (
	"fmt"
	"strings"

	"github.com/jc-higgins/grav-sim/internal/sim"
)

var strokeColors = []string{
	"#00ff88", "#00ccff", "#ff00ff", "#ffcc00", "#ff4444", "#88ff00",
}

// OrbitsToSVG draws every body's recorded trajectory into one SVG. Bounds
// are computed over all frames with 10% padding; the final position of each
// body is marked with a dot.
func OrbitsToSVG(frames []sim.Frame, width, height int) string {
	if len(frames) < 2 || len(frames[0].Bodies) == 0 {
		return ""
	}
	n := len(frames[0].Bodies)

	minX, maxX := frames[0].Bodies[0].Position.X, frames[0].Bodies[0].Position.X
	minY, maxY := frames[0].Bodies[0].Position.Y, frames[0].Bodies[0].Position.Y
	for _, frame := range frames {
		for _, b := range frame.Bodies {
			minX = min(minX, b.Position.X)
			maxX = max(maxX, b.Position.X)
			minY = min(minY, b.Position.Y)
			maxY = max(maxY, b.Position.Y)
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	toScreen := func(x, y float64) (float64, float64) {
		sx := (x - minX) / rangeX * float64(width)
		sy := float64(height) - (y-minY)/rangeY*float64(height)
		return sx, sy
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for i := 0; i < n; i++ {
		color := strokeColors[i%len(strokeColors)]

		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
		for j, frame := range frames {
			x, y := toScreen(frame.Bodies[i].Position.X, frame.Bodies[i].Position.Y)
			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")

		last := frames[len(frames)-1].Bodies[i]
		x, y := toScreen(last.Position.X, last.Position.Y)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="4" fill="%s"/>
`, x, y, color))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
