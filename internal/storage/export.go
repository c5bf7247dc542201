package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	Meta   RunMetadata `json:"meta"`
	Tracks []Track     `json:"tracks"`
}

// ExportJSON writes a stored run as one indented JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	tracks, err := s.LoadTracks(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Meta: *meta, Tracks: tracks})
}
