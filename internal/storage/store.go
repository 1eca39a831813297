package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/glyphrain/internal/config"
	"github.com/san-kum/glyphrain/internal/rain"
	"github.com/san-kum/glyphrain/internal/sim"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Timestamp    time.Time          `json:"timestamp"`
	Seed         int64              `json:"seed"`
	Settings     config.Settings    `json:"settings"`
	TickInterval time.Duration      `json:"tick_interval"`
	RefillEvery  int                `json:"refill_every"`
	Ticks        int                `json:"ticks"`
	Metrics      map[string]float64 `json:"metrics"`
}

// FrameRecord is one row of counts.csv.
type FrameRecord struct {
	Tick      uint64
	Particles int
	Density   int
	State     string
}

// Recorder collects frames while a driver runs.
type Recorder struct {
	Frames []FrameRecord
}

func (r *Recorder) OnFrame(f sim.Frame) {
	r.Frames = append(r.Frames, FrameRecord{
		Tick:      f.Tick,
		Particles: f.Particles,
		Density:   f.Density,
		State:     f.State.String(),
	})
}

// Save writes metadata.json and counts.csv into a new run directory.
func (s *Store) Save(meta RunMetadata, frames []FrameRecord) (string, error) {
	ts := s.now()
	runID := fmt.Sprintf("rain_%d", ts.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = ts
	meta.Ticks = len(frames)

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

	csvFile, err := os.Create(filepath.Join(runDir, "counts.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := writeFrames(csvFile, frames); err != nil {
		return "", err
	}
	return runID, nil
}

func writeFrames(out io.Writer, frames []FrameRecord) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"tick", "particles", "density", "state"}); err != nil {
		return err
	}
	for _, f := range frames {
		row := []string{
			strconv.FormatUint(f.Tick, 10),
			strconv.Itoa(f.Particles),
			strconv.Itoa(f.Density),
			f.State,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]FrameRecord, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "counts.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []FrameRecord{}, nil
	}

	frames := make([]FrameRecord, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 4 {
			continue
		}
		tick, err := strconv.ParseUint(record[0], 10, 64)
		if err != nil {
			continue
		}
		particles, err := strconv.Atoi(record[1])
		if err != nil {
			continue
		}
		density, _ := strconv.Atoi(record[2])
		frames = append(frames, FrameRecord{Tick: tick, Particles: particles, Density: density, State: record[3]})
	}

	return frames, nil
}

// Counts extracts the particle series of frames, ready for plotting.
func Counts(frames []FrameRecord) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = float64(f.Particles)
	}
	return out
}

// StateTicks tallies how many frames were spent in each faucet state.
func StateTicks(frames []FrameRecord) map[string]int {
	out := map[string]int{
		rain.Flowing.String():   0,
		rain.Draining.String():  0,
		rain.IdleEmpty.String(): 0,
	}
	for _, f := range frames {
		out[f.State]++
	}
	return out
}

// ExportJSON writes a run and its frames as one JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, frames []FrameRecord) error {
	data := struct {
		*RunMetadata
		Frames []FrameRecord `json:"frames"`
	}{meta, frames}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
