package main

import (
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/circuit/canvas"
	"github.com/pthm-cable/circuit/config"
)

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.ExtractFromMode(&config.Default().Hexagon)

	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, back[i], raw[i])
		}
	}
}

func TestClamp(t *testing.T) {
	pv := NewParamVector()
	got := pv.Clamp([]float64{-1, 100, -5, 2, 42.6, 0.5})
	want := []float64{0.005, 40, 0, 1, 43, 0.2}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, got[i], want[i])
		}
	}
}

func TestApplyToMode(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()
	pv.ApplyToMode(&cfg.Chip, []float64{0.05, 10, 20, 0.5, 70.4, 0.08})

	if cfg.Chip.PopulationCap != 70 {
		t.Errorf("PopulationCap = %d, want 70", cfg.Chip.PopulationCap)
	}
	if cfg.Chip.DeathChance != 0.05 || cfg.Chip.TrailFadeAlpha != 0.08 {
		t.Errorf("chances not applied: %+v", cfg.Chip)
	}
	if cfg.Hexagon != config.Default().Hexagon {
		t.Error("hexagon mode should be untouched")
	}
}

func TestCoverage(t *testing.T) {
	r := canvas.NewRaster(10, 10)
	if got := Coverage(r); got != 0 {
		t.Fatalf("blank coverage = %v, want 0", got)
	}

	r.FillRect(0, 0, 5, 10, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	if got := Coverage(r); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("half coverage = %v, want 0.5", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0m00s"},
		{65 * time.Second, "1m05s"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1h02m03s"},
		{1500 * time.Millisecond, "0m02s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
