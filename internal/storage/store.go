package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/fountain/internal/dynamo"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
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
	ID           string             `json:"id"`
	Preset       string             `json:"preset,omitempty"`
	Timestamp    time.Time          `json:"timestamp"`
	Seed         uint64             `json:"seed"`
	Dt           float64            `json:"dt"`
	Duration     float64            `json:"duration"`
	SampleStride int                `json:"sample_stride"`
	Integrator   string             `json:"integrator"`
	StepsTaken   int                `json:"steps_taken"`
	Snapshots    int                `json:"snapshots"`
	Params       map[string]float64 `json:"params"`
	Metrics      map[string]float64 `json:"metrics"`
}

// Save writes meta and the sampled trajectory into a new run directory and
// returns the run ID. ID and Timestamp are filled in when empty.
func (s *Store) Save(meta RunMetadata, history dynamo.History) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.ID == "" {
		name := meta.Preset
		if name == "" {
			name = "chain"
		}
		meta.ID = fmt.Sprintf("%s_%d", name, meta.Timestamp.UnixNano())
	}
	meta.Snapshots = len(history)

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteTrajectoryCSV(csvFile, history); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// List returns all readable runs, oldest first.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) (dynamo.History, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadTrajectoryCSV(file)
}

// WriteTrajectoryCSV writes one row per link per snapshot with columns
// step,time,link,x,y. Floats use the shortest exact representation.
func WriteTrajectoryCSV(out io.Writer, history dynamo.History) error {
	w := csv.NewWriter(out)

	if err := w.Write([]string{"step", "time", "link", "x", "y"}); err != nil {
		return err
	}

	for _, snap := range history {
		step := strconv.Itoa(snap.Step)
		t := formatFloat(snap.Time)
		for i, p := range snap.Positions {
			row := []string{step, t, strconv.Itoa(i), formatFloat(p.X), formatFloat(p.Y)}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

// ReadTrajectoryCSV is the inverse of WriteTrajectoryCSV. Rows of one
// step must be contiguous and in link order.
func ReadTrajectoryCSV(in io.Reader) (dynamo.History, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = 5

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return dynamo.History{}, nil
	}

	history := make(dynamo.History, 0)
	for i, record := range records[1:] {
		step, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		link, err := strconv.Atoi(record[2])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		vals := make([]float64, 3)
		for j, col := range []int{1, 3, 4} {
			if vals[j], err = strconv.ParseFloat(record[col], 64); err != nil {
				return nil, fmt.Errorf("row %d: %w", i+2, err)
			}
		}

		if link == 0 {
			history = append(history, dynamo.Snapshot{Step: step, Time: vals[0]})
		}
		if len(history) == 0 || history[len(history)-1].Step != step {
			return nil, fmt.Errorf("row %d: step %d link %d out of order", i+2, step, link)
		}
		last := &history[len(history)-1]
		if link != len(last.Positions) {
			return nil, fmt.Errorf("row %d: expected link %d, got %d", i+2, len(last.Positions), link)
		}
		last.Positions = append(last.Positions, r2.Vec{X: vals[1], Y: vals[2]})
	}

	return history, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
