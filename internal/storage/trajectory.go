package storage

import (
	"encoding/json"
	"io"
	"os"
)

// TrajectoryPoint is one recorded state of a single simulation.
type TrajectoryPoint struct {
	Step int        `json:"step"`
	Time float64    `json:"t"`
	Pos  [3]float64 `json:"pos"`
	Vel  [3]float64 `json:"vel"`
}

// TrajectoryExport is the JSON document written by the simulate command.
type TrajectoryExport struct {
	Start      [3]float64        `json:"start"`
	Integrator string            `json:"integrator"`
	TimeStep   float64           `json:"time_step"`
	Reason     string            `json:"reason"`
	Captured   int               `json:"captured"`
	Steps      int               `json:"steps"`
	Points     []TrajectoryPoint `json:"points"`
}

func ExportJSON(path string, data *TrajectoryExport) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}

func WriteJSON(w io.Writer, data *TrajectoryExport) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
