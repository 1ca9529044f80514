package game

import (
	"github.com/pthm-cable/flapper/components"
	"github.com/pthm-cable/flapper/neural"
	"github.com/pthm-cable/flapper/systems"
)

// startFresh begins generation 1 with newly built networks and no records.
func (e *Engine) startFresh() {
	brains := make([]*neural.Network, e.cfg.Population.Size)
	for i := range brains {
		brains[i] = e.newBrain(e.rng)
	}

	e.generation = 1
	e.bestScore = 0
	e.bestCleared = 0
	e.collector.Reset()
	e.history.Reset()
	e.bookmarks.Reset(e.course.Len())

	e.spawnPopulation(brains)
	e.resetRound()
}

// spawnPopulation replaces the population with new agents at the spawn point,
// one per network, in order.
func (e *Engine) spawnPopulation(brains []*neural.Network) {
	cfg := e.cfg.Agent
	e.agents = make([]*components.Agent, len(brains))
	for i, brain := range brains {
		e.agents[i] = components.NewAgent(cfg.SpawnX, cfg.SpawnY, cfg.Radius, brain)
	}
	e.alive = len(e.agents)
}

// resetRound rewinds the course and clock and releases the first obstacle.
func (e *Engine) resetRound() {
	e.obstacles = nil
	e.tick = 0
	e.clock = 0
	e.spawner.Reset(e.clock)
	e.spawnObstacle()
}

// RegenerateObstacles replaces the course with one built from seed and starts
// over: generation 1, a fresh population and no records. Calling it twice with
// the same seed yields the same course.
func (e *Engine) RegenerateObstacles(seed int64) {
	e.course = systems.GenerateCourse(seed, e.cfg)
	e.spawner.SetCourse(e.course, 0)
	e.startFresh()

	e.logger.Info("course regenerated",
		"course_seed", seed,
		"course_length", e.course.Len(),
	)
}
