package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/flapper/config"
)

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()

	norm := pv.Normalize(raw)
	for i, v := range norm {
		if v < 0 || v > 1 {
			t.Errorf("%s: default normalized to %v, outside [0,1]", pv.Specs[i].Name, v)
		}
	}

	back := pv.Denormalize(norm)
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-12 {
			t.Errorf("%s: round trip gave %v, want %v", pv.Specs[i].Name, back[i], raw[i])
		}
	}
}

func TestClamp(t *testing.T) {
	pv := NewParamVector()
	low := make([]float64, pv.Dim())
	high := make([]float64, pv.Dim())
	for i := range low {
		low[i] = -100
		high[i] = 100
	}

	for i, v := range pv.Clamp(low) {
		if v != pv.Specs[i].Min {
			t.Errorf("%s: clamped low to %v, want %v", pv.Specs[i].Name, v, pv.Specs[i].Min)
		}
	}
	for i, v := range pv.Clamp(high) {
		if v != pv.Specs[i].Max {
			t.Errorf("%s: clamped high to %v, want %v", pv.Specs[i].Name, v, pv.Specs[i].Max)
		}
	}
}

func TestApplyToConfig(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	pv.ApplyToConfig(cfg, []float64{0.3, 0.8, 0.4, 4.6, 0.05})

	if cfg.Evolution.MutationRate != 0.3 {
		t.Errorf("mutation_rate = %v, want 0.3", cfg.Evolution.MutationRate)
	}
	if cfg.Evolution.MutationSigma != 0.8 {
		t.Errorf("mutation_sigma = %v, want 0.8", cfg.Evolution.MutationSigma)
	}
	if cfg.Evolution.TournamentSize != 5 {
		t.Errorf("tournament_size = %d, want 5 (rounded)", cfg.Evolution.TournamentSize)
	}
	if cfg.Evolution.DiversityRate != 0.05 {
		t.Errorf("diversity_rate = %v, want 0.05", cfg.Evolution.DiversityRate)
	}

	// Derived pool follows the new fraction: 50 * 0.4.
	if cfg.Derived.ElitePool != 20 {
		t.Errorf("derived elite pool = %d, want 20", cfg.Derived.ElitePool)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("applied config invalid: %v", err)
	}
}

func TestExtractFromConfig(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	got := pv.ExtractFromConfig(cfg)
	want := pv.DefaultVector()
	if len(got) != pv.Dim() {
		t.Fatalf("extracted %d values, want %d", len(got), pv.Dim())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s: extracted %v, want default %v", pv.Specs[i].Name, got[i], want[i])
		}
	}
}

func TestComputeFitness(t *testing.T) {
	if computeFitness(3) >= computeFitness(1) {
		t.Error("clearing more obstacles should give lower fitness")
	}
}
