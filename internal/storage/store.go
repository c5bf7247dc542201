package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/rigidsim/internal/physics"
	"github.com/san-kum/rigidsim/internal/sim"
)

// columns written per body, in order, after the time column
var bodyColumns = []string{"x", "y", "vx", "vy", "angle"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type BodyInfo struct {
	ID     uint64  `json:"id"`
	Shape  string  `json:"shape"`
	Mass   float64 `json:"mass"`
	Static bool    `json:"static"`
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Scene      string             `json:"scene"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Policy     string             `json:"policy"`
	Steps      int                `json:"steps"`
	Bodies     []BodyInfo         `json:"bodies"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Sample is one recorded state of one body.
type Sample struct {
	Time  float64 `json:"t"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	VX    float64 `json:"vx"`
	VY    float64 `json:"vy"`
	Angle float64 `json:"angle"`
}

type Track struct {
	ID      uint64   `json:"id"`
	Samples []Sample `json:"samples"`
}

// Save writes metadata.json and states.csv under a new run directory. ID,
// Timestamp, Steps, Bodies and Metrics of meta are filled in from result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", safeName(meta.Scene), now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	order, infos := bodyOrder(result)

	meta.ID = runID
	meta.Timestamp = now
	meta.Steps = result.StepsTaken
	meta.Bodies = infos
	meta.Metrics = result.Metrics

	if err := writeMetadata(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeStates(filepath.Join(runDir, "states.csv"), order, result.Frames); err != nil {
		return "", err
	}
	return runID, nil
}

func writeMetadata(path string, meta RunMetadata) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeStates(path string, order []physics.BodyID, frames []sim.Frame) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)

	header := []string{"time"}
	for _, id := range order {
		for _, col := range bodyColumns {
			header = append(header, fmt.Sprintf("b%d_%s", uint64(id), col))
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, fr := range frames {
		row := []string{formatFloat(fr.Time)}
		byID := make(map[physics.BodyID]physics.BodyState, len(fr.Bodies))
		for _, b := range fr.Bodies {
			byID[b.ID] = b
		}
		for _, id := range order {
			b, ok := byID[id]
			if !ok {
				row = append(row, make([]string, len(bodyColumns))...)
				continue
			}
			row = append(row,
				formatFloat(b.Position.X),
				formatFloat(b.Position.Y),
				formatFloat(b.Velocity.X),
				formatFloat(b.Velocity.Y),
				formatFloat(b.Angle),
			)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// safeName keeps a scene name usable as one path element.
func safeName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, ". ")
	if name == "" {
		return "run"
	}
	return name
}

// bodyOrder lists every body seen in the run, in first-seen order.
func bodyOrder(result *sim.Result) ([]physics.BodyID, []BodyInfo) {
	seen := make(map[physics.BodyID]bool)
	var order []physics.BodyID
	infos := make([]BodyInfo, 0)
	for _, f := range result.Frames {
		for _, b := range f.Bodies {
			if seen[b.ID] {
				continue
			}
			seen[b.ID] = true
			order = append(order, b.ID)
			infos = append(infos, BodyInfo{
				ID:     uint64(b.ID),
				Shape:  fmt.Sprint(b.Shape),
				Mass:   b.Mass,
				Static: b.Static,
			})
		}
	}
	return order, infos
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
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

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTracks reads states.csv back into one track per body, in column order.
// Rows where a body was absent are skipped for that body.
func (s *Store) LoadTracks(runID string) ([]Track, error) {
	csvPath := filepath.Join(s.baseDir, runID, "states.csv")
	file, err := os.Open(csvPath)
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
	if len(records) == 0 {
		return []Track{}, nil
	}

	header := records[0]
	n := len(bodyColumns)
	tracks := make([]Track, 0, (len(header)-1)/n)
	for col := 1; col+n <= len(header); col += n {
		var id uint64
		if _, err := fmt.Sscanf(strings.TrimSuffix(header[col], "_x"), "b%d", &id); err != nil {
			return nil, fmt.Errorf("bad column %q: %w", header[col], err)
		}
		tracks = append(tracks, Track{ID: id})
	}

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}

		for i := range tracks {
			start := 1 + i*n
			if start+n > len(record) {
				break
			}
			vals, ok := parseFloats(record[start : start+n])
			if !ok {
				continue
			}
			tracks[i].Samples = append(tracks[i].Samples, Sample{
				Time: t, X: vals[0], Y: vals[1], VX: vals[2], VY: vals[3], Angle: vals[4],
			})
		}
	}

	return tracks, nil
}

func parseFloats(cells []string) ([]float64, bool) {
	out := make([]float64, len(cells))
	for i, c := range cells {
		v, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}
