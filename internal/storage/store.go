package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/magbasin/internal/physics"
)

const (
	metadataFile = "metadata.json"
	magnetsFile  = "magnets.csv"
)

var magnetsHeader = []string{"index", "x", "y", "z", "direction", "strength", "threshold", "pixels"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one rendered basin map.
type RunMetadata struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Timestamp     time.Time      `json:"timestamp"`
	Image         string         `json:"image,omitempty"`
	Width         int            `json:"width"`
	Height        int            `json:"height"`
	Bounds        physics.Bounds `json:"bounds"`
	Approximation string         `json:"approximation"`
	Integrator    string         `json:"integrator"`
	TimeStep      float64        `json:"time_step"`
	MaxSteps      int            `json:"max_steps"`
	Skipped       int            `json:"skipped"`
	Reasons       map[string]int `json:"reasons"`
	ElapsedSec    float64        `json:"elapsed_sec"`
}

// MagnetRecord is one row of magnets.csv. Threshold may be -Inf, which is
// why it lives in CSV rather than JSON.
type MagnetRecord struct {
	Index     int
	Position  [3]float64
	Direction string
	Strength  float64
	Threshold float64
	Pixels    int
}

// Save writes a run directory and returns its id. An empty meta.ID is
// generated from the name and a short random suffix.
func (s *Store) Save(meta RunMetadata, magnets []MagnetRecord) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.Name == "" {
		meta.Name = "run"
	}
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%s", meta.Name, uuid.NewString()[:8])
	}
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

	csvFile, err := os.Create(filepath.Join(runDir, magnetsFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(magnetsHeader); err != nil {
		return "", err
	}
	for _, m := range magnets {
		row := []string{
			strconv.Itoa(m.Index),
			formatFloat(m.Position[0]),
			formatFloat(m.Position[1]),
			formatFloat(m.Position[2]),
			m.Direction,
			formatFloat(m.Strength),
			formatFloat(m.Threshold),
			strconv.Itoa(m.Pixels),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// List returns every readable run, newest first.
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
		return runs[i].Timestamp.After(runs[j].Timestamp)
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

func (s *Store) LoadMagnets(runID string) ([]MagnetRecord, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, magnetsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(magnetsHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []MagnetRecord{}, nil
	}

	magnets := make([]MagnetRecord, 0, len(records)-1)
	for line, rec := range records[1:] {
		m, err := parseMagnet(rec)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", magnetsFile, line+2, err)
		}
		magnets = append(magnets, m)
	}
	return magnets, nil
}

func parseMagnet(rec []string) (MagnetRecord, error) {
	var m MagnetRecord
	var err error

	if m.Index, err = strconv.Atoi(rec[0]); err != nil {
		return m, err
	}
	for i := 0; i < 3; i++ {
		if m.Position[i], err = strconv.ParseFloat(rec[1+i], 64); err != nil {
			return m, err
		}
	}
	m.Direction = rec[4]
	if m.Strength, err = strconv.ParseFloat(rec[5], 64); err != nil {
		return m, err
	}
	if m.Threshold, err = strconv.ParseFloat(rec[6], 64); err != nil {
		return m, err
	}
	if m.Pixels, err = strconv.Atoi(rec[7]); err != nil {
		return m, err
	}
	return m, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
