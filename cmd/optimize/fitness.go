package main

import (
	"io"
	"log/slog"
	"sync"

	"github.com/pthm-cable/flapper/config"
	"github.com/pthm-cable/flapper/game"
)

// FitnessEvaluator runs headless evolutions and computes fitness.
type FitnessEvaluator struct {
	params        *ParamVector
	generations   int
	generationCap int64
	seeds         []int64
	baseConfig    *config.Config

	// Last run tracking
	mu              sync.Mutex
	lastMeanCleared float64 // mean best-ever cleared from the most recent Evaluate call
	lastMeanScore   float64
}

// NewFitnessEvaluator creates a new evaluator. Every run evolves for
// generations generations, each capped at generationCap steps.
func NewFitnessEvaluator(params *ParamVector, generations int, generationCap int64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:        params,
		generations:   generations,
		generationCap: generationCap,
		seeds:         seeds,
		baseConfig:    baseCfg,
	}
}

// LastMeanCleared returns the mean best-ever cleared count from the most
// recent evaluation.
func (fe *FitnessEvaluator) LastMeanCleared() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastMeanCleared
}

// LastMeanScore returns the mean best-ever score from the most recent
// evaluation.
func (fe *FitnessEvaluator) LastMeanScore() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastMeanScore
}

// runResult holds the results from a single evolution run.
type runResult struct {
	bestCleared int
	bestScore   int
	generations int
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the negated mean best-ever cleared count across seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.configFor(x)

	// Seeds are independent engines; run them in parallel.
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runEvolution(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var totalCleared, totalScore float64
	for _, r := range results {
		totalCleared += float64(r.bestCleared)
		totalScore += float64(r.bestScore)
	}

	n := float64(len(fe.seeds))
	meanCleared := totalCleared / n
	fitness := computeFitness(meanCleared)

	fe.mu.Lock()
	fe.lastMeanCleared = meanCleared
	fe.lastMeanScore = totalScore / n
	fe.mu.Unlock()

	return fitness
}

// configFor returns a copy of the base config with x applied.
func (fe *FitnessEvaluator) configFor(x []float64) *config.Config {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)
	if fe.generationCap > 0 {
		cfg.Simulation.MaxGenerationTicks = fe.generationCap
	}
	return cfg
}

// runEvolution evolves one seeded population for the configured number of
// generations. The engine clones cfg, so runs may share it.
func (fe *FitnessEvaluator) runEvolution(cfg *config.Config, seed int64) runResult {
	engine, err := game.New(cfg, game.Options{
		Seed:       seed,
		CourseSeed: seed,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		// ApplyToConfig clamps into valid ranges; a failure here is a bad base config.
		panic(err)
	}

	result := runResult{}
	for result.generations < fe.generations {
		if engine.Step(1) != game.GenerationEnded {
			continue
		}
		stats := engine.Evolve()
		result.generations++
		result.bestCleared = stats.BestEverCleared
		result.bestScore = stats.BestEverScore
	}
	return result
}

// computeFitness maps mean best-ever cleared to a minimization objective.
func computeFitness(meanCleared float64) float64 {
	return -meanCleared
}
