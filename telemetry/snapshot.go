package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/circuit/components"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot is a diagnostic dump of the trace population at one tick. It is
// written next to the PNG frame of the same tick and never read back by the
// engine.
type Snapshot struct {
	Version int   `json:"version"`
	Seed    int64 `json:"seed"`

	Width  int    `json:"width"`
	Height int    `json:"height"`
	Shape  string `json:"shape"`

	Tick int64 `json:"tick"`

	Traces []TraceState `json:"traces"`
}

// TraceState holds one trace's state.
type TraceState struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`

	PhaseElapsed  int32 `json:"phase_elapsed"`
	PhaseDuration int32 `json:"phase_duration"`
	Age           int32 `json:"age"`

	Color string `json:"color"`

	Segments      int32 `json:"segments,omitempty"`
	SegmentBudget int32 `json:"segment_budget,omitempty"`

	SpawnX float64 `json:"spawn_x"`
	SpawnY float64 `json:"spawn_y"`
	Resets int32   `json:"resets"`
}

// NewTraceState copies the persistent fields of t.
func NewTraceState(t *components.Trace) TraceState {
	return TraceState{
		X:             t.X,
		Y:             t.Y,
		Heading:       t.Heading,
		PhaseElapsed:  t.PhaseElapsed,
		PhaseDuration: t.PhaseDuration,
		Age:           t.Age,
		Color:         fmt.Sprintf("#%02x%02x%02x", t.Color.R, t.Color.G, t.Color.B),
		Segments:      t.Segments,
		SegmentBudget: t.SegmentBudget,
		SpawnX:        t.SpawnX,
		SpawnY:        t.SpawnY,
		Resets:        t.Resets,
	}
}

// SnapshotName returns the base file name (without extension) for a tick.
func SnapshotName(tick int64) string {
	return fmt.Sprintf("snapshot_%06d", tick)
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, SnapshotName(snapshot.Tick)+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
