package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/orogen/internal/solver"
	"github.com/san-kum/orogen/internal/terrain"
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
	ID             string             `json:"id"`
	Terrain        string             `json:"terrain"`
	Timestamp      time.Time          `json:"timestamp"`
	Cells          int                `json:"cells"`
	Workers        int                `json:"workers"`
	Dt             float64            `json:"dt"`
	Threshold      float64            `json:"threshold"`
	Steps          int                `json:"steps"`
	FinalTime      float64            `json:"final_time"`
	FinalSteepness float64            `json:"final_steepness"`
	Converged      bool               `json:"converged"`
	Metrics        map[string]float64 `json:"metrics"`
}

// Save writes one solve under a fresh run directory: metadata.json, the
// steepness history as history.csv, and the final terrain profile as
// profile.csv. It returns the run ID.
func (s *Store) Save(terrainName string, dt, threshold float64, workers int, rng *terrain.Range, result *solver.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", terrainName, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:             runID,
		Terrain:        terrainName,
		Timestamp:      time.Now(),
		Cells:          rng.CellCount(),
		Workers:        workers,
		Dt:             dt,
		Threshold:      threshold,
		Steps:          result.Steps,
		FinalTime:      result.FinalTime,
		FinalSteepness: result.FinalSteepness,
		Converged:      result.Converged,
		Metrics:        result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := s.writeHistory(filepath.Join(runDir, "history.csv"), result); err != nil {
		return "", err
	}
	if err := s.writeProfile(filepath.Join(runDir, "profile.csv"), rng); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) writeHistory(path string, result *solver.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"time", "steepness"}); err != nil {
		return err
	}
	for _, sample := range result.History {
		row := []string{
			strconv.FormatFloat(sample.Time, 'g', -1, 64),
			strconv.FormatFloat(sample.Steepness, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) writeProfile(path string, rng *terrain.Range) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"cell", "uplift", "elevation", "growth"}); err != nil {
		return err
	}
	uplift, elevation, growth := rng.Uplift(), rng.Elevation(), rng.Growth()
	for i := 0; i < rng.CellCount(); i++ {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(uplift[i], 'g', -1, 64),
			strconv.FormatFloat(elevation[i], 'g', -1, 64),
			strconv.FormatFloat(growth[i], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
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

// LoadHistory reads back the steepness history of a run.
func (s *Store) LoadHistory(runID string) ([]solver.Sample, error) {
	records, err := s.readCSV(filepath.Join(s.baseDir, runID, "history.csv"))
	if err != nil {
		return nil, err
	}

	samples := make([]solver.Sample, 0, len(records))
	for _, record := range records {
		if len(record) < 2 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		ds, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		samples = append(samples, solver.Sample{Time: t, Steepness: ds})
	}
	return samples, nil
}

// LoadProfile reads back the final elevation profile of a run.
func (s *Store) LoadProfile(runID string) ([]float64, error) {
	records, err := s.readCSV(filepath.Join(s.baseDir, runID, "profile.csv"))
	if err != nil {
		return nil, err
	}

	elevation := make([]float64, 0, len(records))
	for _, record := range records {
		if len(record) < 3 {
			continue
		}
		h, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			continue
		}
		elevation = append(elevation, h)
	}
	return elevation, nil
}

func (s *Store) readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, nil
	}
	return records[1:], nil
}
