// Package main provides CMA-ES optimization for flapper evolution parameters.
package main

import (
	"math"

	"github.com/pthm-cable/flapper/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Mutation
			{Name: "mutation_rate", Path: "evolution.mutation_rate", Min: 0.01, Max: 0.5, Default: 0.15},
			{Name: "mutation_sigma", Path: "evolution.mutation_sigma", Min: 0.05, Max: 1.5, Default: 0.5},
			// Selection
			{Name: "elite_pool_fraction", Path: "evolution.elite_pool_fraction", Min: 0.05, Max: 0.5, Default: 0.2},
			{Name: "tournament_size", Path: "evolution.tournament_size", Min: 1, Max: 8, Default: 3},
			// Diversity injection (diversity_interval locked)
			{Name: "diversity_rate", Path: "evolution.diversity_rate", Min: 0, Max: 0.2, Default: 0.02},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct and recomputes
// derived values.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	// Clamp values to ensure they're within bounds
	clamped := pv.Clamp(values)

	// Order must match Specs order
	cfg.Evolution.MutationRate = clamped[0]
	cfg.Evolution.MutationSigma = clamped[1]
	cfg.Evolution.ElitePoolFraction = clamped[2]
	cfg.Evolution.TournamentSize = int(math.Round(clamped[3]))
	cfg.Evolution.DiversityRate = clamped[4]

	cfg.ComputeDerived()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Evolution.MutationRate,
		cfg.Evolution.MutationSigma,
		cfg.Evolution.ElitePoolFraction,
		float64(cfg.Evolution.TournamentSize),
		cfg.Evolution.DiversityRate,
	}
}
