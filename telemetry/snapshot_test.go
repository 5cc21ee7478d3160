package telemetry

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/circuit/components"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tr := &components.Trace{
		X: 3, Y: -2, Heading: 1.5707963267948966,
		PhaseElapsed: 4, PhaseDuration: 20, Age: 120,
		Color:    color.RGBA{R: 0x9c, G: 0xff, B: 0xff, A: 0xff},
		Segments: 2, SegmentBudget: 5,
		SpawnX: 4, SpawnY: -1.5, Resets: 3,
	}
	snapshot := &Snapshot{
		Version: SnapshotVersion,
		Seed:    42,
		Width:   1280,
		Height:  720,
		Shape:   "chip",
		Tick:    1000,
		Traces:  []TraceState{NewTraceState(tr)},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.Version != snapshot.Version {
		t.Errorf("Version mismatch: got %d, want %d", loaded.Version, snapshot.Version)
	}
	if loaded.Seed != 42 || loaded.Tick != 1000 || loaded.Shape != "chip" {
		t.Errorf("header mismatch: %+v", loaded)
	}
	if len(loaded.Traces) != 1 {
		t.Fatalf("Traces count mismatch: got %d, want 1", len(loaded.Traces))
	}
	got := loaded.Traces[0]
	if got != snapshot.Traces[0] {
		t.Errorf("trace mismatch: got %+v, want %+v", got, snapshot.Traces[0])
	}
	if got.Color != "#9cffff" {
		t.Errorf("color = %q, want #9cffff", got.Color)
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	path, err := SaveSnapshot(&Snapshot{Version: SnapshotVersion, Tick: 3000}, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	expected := filepath.Join(tmpDir, "snapshot_003000.json")
	if path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}
}

func TestLoadSnapshotMissing(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("LoadSnapshot of a missing file returned nil error")
	}
}
