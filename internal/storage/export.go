package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/fountain/internal/dynamo"
)

type ExportData struct {
	Run       RunMetadata    `json:"run"`
	Steps     int            `json:"steps"`
	Snapshots []SnapshotData `json:"snapshots"`
}

// SnapshotData stores coordinates column-wise, which plotting tools
// consume directly.
type SnapshotData struct {
	Step int       `json:"step"`
	Time float64   `json:"time"`
	X    []float64 `json:"x"`
	Y    []float64 `json:"y"`
}

func ExportJSON(w io.Writer, meta RunMetadata, history dynamo.History) error {
	data := ExportData{
		Run:       meta,
		Steps:     meta.StepsTaken,
		Snapshots: make([]SnapshotData, len(history)),
	}

	for i, snap := range history {
		sd := SnapshotData{
			Step: snap.Step,
			Time: snap.Time,
			X:    make([]float64, len(snap.Positions)),
			Y:    make([]float64, len(snap.Positions)),
		}
		for j, p := range snap.Positions {
			sd.X[j], sd.Y[j] = p.X, p.Y
		}
		data.Snapshots[i] = sd
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
