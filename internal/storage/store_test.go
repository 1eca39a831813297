package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/glyphrain/internal/config"
	"github.com/san-kum/glyphrain/internal/rain"
	"github.com/san-kum/glyphrain/internal/render"
	"github.com/san-kum/glyphrain/internal/sim"
)

func testFrames() []FrameRecord {
	return []FrameRecord{
		{Tick: 1, Particles: 3, Density: 3, State: "flowing"},
		{Tick: 2, Particles: 2, Density: 3, State: "draining"},
		{Tick: 3, Particles: 0, Density: 3, State: "idle"},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := RunMetadata{
		Seed:         42,
		Settings:     config.DefaultSettings(),
		TickInterval: 33 * time.Millisecond,
		RefillEvery:  6,
		Metrics:      map[string]float64{"particles": 1.5},
	}
	runID, err := st.Save(meta, testFrames())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Seed != 42 || loaded.Ticks != 3 {
		t.Errorf("unexpected metadata %+v", loaded)
	}
	if loaded.Settings != config.DefaultSettings() {
		t.Errorf("settings not preserved: %+v", loaded.Settings)
	}
	if loaded.Metrics["particles"] != 1.5 {
		t.Errorf("expected particles 1.5, got %f", loaded.Metrics["particles"])
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != 3 || frames[1] != testFrames()[1] {
		t.Errorf("unexpected frames %+v", frames)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	base := time.Unix(1000, 0)
	calls := 0
	st.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}
	for i := 0; i < 2; i++ {
		if _, err := st.Save(RunMetadata{Seed: int64(i)}, testFrames()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Seed != 0 || runs[1].Seed != 1 {
		t.Error("runs should be listed oldest first")
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestStoreNotFound(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadFrames("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(RunMetadata{}, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "counts.csv"} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestRecorderWithDriver(t *testing.T) {
	e := rain.New(rain.Options{Width: 100, Height: 100, Density: 4, FaucetOn: true, Seed: 1})
	d := sim.New(e, render.New(), nil, 33*time.Millisecond)
	rec := &Recorder{}
	d.AddObserver(rec)
	d.Advance(7)

	if len(rec.Frames) != 7 {
		t.Fatalf("expected 7 frames, got %d", len(rec.Frames))
	}
	if rec.Frames[6].Tick != 7 || rec.Frames[6].State != "flowing" {
		t.Errorf("unexpected last frame %+v", rec.Frames[6])
	}

	counts := Counts(rec.Frames)
	if counts[0] != 4 {
		t.Errorf("expected count 4, got %f", counts[0])
	}
	if StateTicks(rec.Frames)["flowing"] != 7 {
		t.Error("expected every frame flowing")
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	meta := &RunMetadata{ID: "rain_1", Seed: 3}
	if err := ExportJSON(&buf, meta, testFrames()); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	var decoded struct {
		ID     string        `json:"id"`
		Frames []FrameRecord `json:"frames"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded.ID != "rain_1" || len(decoded.Frames) != 3 {
		t.Errorf("unexpected export %+v", decoded)
	}
}
