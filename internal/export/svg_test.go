package export

import (
	"strings"
	"testing"

	"github.com/jc-higgins/grav-sim/internal/gravity"
	"github.com/jc-higgins/grav-sim/internal/sim"
)

func makeFrames(n int) []sim.Frame {
	frames := make([]sim.Frame, n)
	for i := range frames {
		t := float64(i) * 0.1
		frames[i] = sim.Frame{
			Time: t,
			Bodies: []gravity.Body{
				{Mass: 100, Position: gravity.Vec2{X: -1 + t, Y: 0}},
				{Mass: 100, Position: gravity.Vec2{X: 1 - t, Y: t}},
			},
		}
	}
	return frames
}

func TestOrbitsToSVG(t *testing.T) {
	svg := OrbitsToSVG(makeFrames(10), 400, 300)

	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Error("missing XML header")
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("missing closing tag")
	}
	if got := strings.Count(svg, "<path"); got != 2 {
		t.Errorf("expected one path per body, got %d", got)
	}
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("expected one end marker per body, got %d", got)
	}
}

func TestOrbitsToSVG_TooFewFrames(t *testing.T) {
	if svg := OrbitsToSVG(makeFrames(1), 400, 300); svg != "" {
		t.Error("expected empty output for a single frame")
	}
	if svg := OrbitsToSVG(nil, 400, 300); svg != "" {
		t.Error("expected empty output for no frames")
	}
}
