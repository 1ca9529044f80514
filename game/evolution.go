package game

import (
	"fmt"

	"github.com/pthm-cable/flapper/systems"
	"github.com/pthm-cable/flapper/telemetry"
)

// Evolve ranks the finished generation, breeds the next one and restarts the
// course. It returns the stats of the generation that just ended.
// Evolve panics if any agent is still alive.
func (e *Engine) Evolve() telemetry.GenerationStats {
	if e.alive > 0 {
		panic(fmt.Sprintf("game: Evolve called with %d agents alive", e.alive))
	}

	if e.perf != nil {
		e.perf.StartEvolve()
	}

	ranked := systems.RankByFitness(e.agents, e.cfg.Evolution.ClearedWeight)
	stats := e.collector.Flush(e.generation, ranked)
	stats.BestEverScore = e.bestScore
	stats.BestEverCleared = e.bestCleared
	stats.CourseSeed = e.course.Seed

	offspring := e.breeding.Breed(e.rng, ranked, e.generation+1)
	stats.MeanMutationDelta = offspring.MeanMutationDelta
	stats.DiversityApplied = offspring.DiversityApplied

	e.generation++
	e.spawnPopulation(offspring.Brains)
	e.resetRound()

	if e.perf != nil {
		e.perf.EndEvolve()
	}

	e.recordGeneration(stats)
	e.logger.Debug("generation started",
		"generation", e.generation,
		"elites", offspring.Elites,
		"parent_pool", offspring.PoolSize,
		"diversity_applied", offspring.DiversityApplied,
	)

	return stats
}
