package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	RunMetadata
	Times  []float64   `json:"times"`
	States [][]float64 `json:"states"`
}

// ExportJSON writes a saved run, metadata and samples, as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	states, times, err := s.LoadStates(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		RunMetadata: *meta,
		Times:       times,
		States:      states,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
