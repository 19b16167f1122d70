package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidRunID = errors.New("storage: invalid run id")

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
	ID          string             `json:"id"`
	Scene       string             `json:"scene"`
	Timestamp   time.Time          `json:"timestamp"`
	Dt          float64            `json:"dt"`
	Steps       int                `json:"steps"`
	Duration    float64            `json:"duration"`
	Integrator  string             `json:"integrator"`
	RecordEvery int                `json:"record_every"`
	Bodies      []string           `json:"bodies"`
	Columns     []string           `json:"columns"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes a recorded run. ID, Timestamp, Bodies and Columns of meta are
// filled in here.
func (s *Store) Save(meta RunMetadata, rec *Recorder) (string, error) {
	runID := fmt.Sprintf("%s_%s", runPrefix(meta.Scene), uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Bodies = rec.Bodies()
	meta.Columns = rec.Columns()
	if meta.RecordEvery == 0 {
		meta.RecordEvery = rec.Every()
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "states.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(append([]string{"time"}, meta.Columns...)); err != nil {
		return "", err
	}
	times, states := rec.Samples()
	for i := range states {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, val := range states[i] {
			row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return runID, nil
}

// runPrefix turns a scene path into a directory-safe name.
func runPrefix(scene string) string {
	base := strings.TrimSuffix(filepath.Base(scene), filepath.Ext(scene))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "run"
	}
	return base
}

// List returns all runs, newest first. Directories without readable
// metadata are skipped.
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

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) runPath(runID, name string) (string, error) {
	if runID == "" || runID != filepath.Base(runID) || runID == "." || runID == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidRunID, runID)
	}
	return filepath.Join(s.baseDir, runID, name), nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath, err := s.runPath(runID, "metadata.json")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", metaPath, err)
	}

	return &meta, nil
}

func (s *Store) LoadStates(runID string) ([][]float64, []float64, error) {
	csvPath, err := s.runPath(runID, "states.csv")
	if err != nil {
		return nil, nil, err
	}
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return [][]float64{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	states := make([][]float64, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)

		state := make([]float64, 0, len(record)-1)
		for j := 1; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			state = append(state, val)
		}
		states = append(states, state)
	}

	return states, times, nil
}
