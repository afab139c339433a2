// Package store persists simulation runs on disk. Each run gets a directory
// under the data dir holding metadata.json and a states.csv with one row per
// recorded frame.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jc-higgins/grav-sim/internal/gravity"
	"github.com/jc-higgins/grav-sim/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Timestamp time.Time          `json:"timestamp"`
	G         float64            `json:"g"`
	Dt        float64            `json:"dt"`
	Softening float64            `json:"softening"`
	Steps     int                `json:"steps"`
	NumBodies int                `json:"num_bodies"`
	Masses    []float64          `json:"masses"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a run directory and returns its id.
func (s *Store) Save(scenario string, simulation *gravity.Simulation, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	bodies := simulation.Bodies()
	masses := make([]float64, len(bodies))
	for i, b := range bodies {
		masses[i] = b.Mass
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  scenario,
		Timestamp: time.Now(),
		G:         simulation.GravityConstant(),
		Dt:        simulation.TimeStep(),
		Softening: simulation.Softening(),
		Steps:     result.StepsTaken,
		NumBodies: len(bodies),
		Masses:    masses,
		Metrics:   result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, "states.csv"), result.Frames); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFrames(path string, frames []sim.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if len(frames) == 0 {
		return nil
	}

	header := []string{"time"}
	for i := range frames[0].Bodies {
		header = append(header,
			fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i),
			fmt.Sprintf("vx%d", i), fmt.Sprintf("vy%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, frame := range frames {
		row := make([]string, 0, 1+4*len(frame.Bodies))
		row = append(row, formatFloat(frame.Time))
		for _, b := range frame.Bodies {
			row = append(row,
				formatFloat(b.Position.X), formatFloat(b.Position.Y),
				formatFloat(b.Velocity.X), formatFloat(b.Velocity.Y))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns metadata for every run in the data dir.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadFrames reads back the recorded frames of a run. Masses and radii come
// from the run metadata.
func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	n := meta.NumBodies
	frames := make([]sim.Frame, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) != 1+4*n {
			return nil, fmt.Errorf("run %s: row has %d columns, expected %d", runID, len(record), 1+4*n)
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, err
		}

		bodies := make([]gravity.Body, n)
		for i := 0; i < n; i++ {
			vals := make([]float64, 4)
			for k := 0; k < 4; k++ {
				v, err := strconv.ParseFloat(record[1+i*4+k], 64)
				if err != nil {
					return nil, err
				}
				vals[k] = v
			}
			bodies[i] = gravity.Body{
				Mass:     meta.Masses[i],
				Position: gravity.Vec2{X: vals[0], Y: vals[1]},
				Velocity: gravity.Vec2{X: vals[2], Y: vals[3]},
				Radius:   gravity.DisplayRadius,
			}
		}

		frames = append(frames, sim.Frame{Time: t, Bodies: bodies})
	}

	return frames, nil
}
