package store

import (
	"encoding/json"
	"io"

	"github.com/jc-higgins/grav-sim/internal/sim"
)

type exportBody struct {
	Mass float64 `json:"mass"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	VX   float64 `json:"vx"`
	VY   float64 `json:"vy"`
}

type exportFrame struct {
	Time   float64      `json:"time"`
	Bodies []exportBody `json:"bodies"`
}

type ExportData struct {
	Meta   RunMetadata   `json:"meta"`
	Frames []exportFrame `json:"frames"`
}

// ExportJSON writes a full run, metadata plus every frame, to w.
func ExportJSON(w io.Writer, meta RunMetadata, frames []sim.Frame) error {
	data := ExportData{
		Meta:   meta,
		Frames: make([]exportFrame, len(frames)),
	}

	for i, frame := range frames {
		bodies := make([]exportBody, len(frame.Bodies))
		for j, b := range frame.Bodies {
			bodies[j] = exportBody{
				Mass: b.Mass,
				X:    b.Position.X,
				Y:    b.Position.Y,
				VX:   b.Velocity.X,
				VY:   b.Velocity.Y,
			}
		}
		data.Frames[i] = exportFrame{Time: frame.Time, Bodies: bodies}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
