package game

import (
	"fmt"

	"github.com/pthm-cable/flapper/components"
	"github.com/pthm-cable/flapper/systems"
	"github.com/pthm-cable/flapper/telemetry"
)

// Step advances the simulation by one external tick at the given playback
// speed. Obstacles move speedFactor times as far as at speed 1 while the
// agents are updated min(max_inner_steps, speedFactor) times.
// Returns GenerationEnded, without updating anything but obstacles and the
// clock, once no agent is alive. Such a step is not counted as a tick.
func (e *Engine) Step(speedFactor int) StepOutcome {
	if speedFactor <= 0 {
		panic(fmt.Sprintf("game: step speed factor must be positive, got %d", speedFactor))
	}

	if e.perf != nil {
		e.perf.StartTick()
		defer e.perf.EndTick()
	}

	e.clock += e.cfg.Simulation.TickMillis

	e.startPhase(telemetry.PhaseObstacles)
	e.updateObstacles(speedFactor)

	if e.alive == 0 {
		return GenerationEnded
	}

	e.tick++
	e.totalTicks++
	e.collector.RecordTick()

	e.startPhase(telemetry.PhaseAgents)
	updates := min(e.cfg.Simulation.MaxInnerSteps, speedFactor)
	for i := 0; i < updates && e.alive > 0; i++ {
		e.updateAgents()
	}
	if limit := e.cfg.Simulation.MaxGenerationTicks; limit > 0 && e.tick >= limit {
		e.retireSurvivors()
	}

	e.startPhase(telemetry.PhaseStats)
	e.updateRecords()

	return Continue
}

func (e *Engine) startPhase(phase string) {
	if e.perf != nil {
		e.perf.StartPhase(phase)
	}
}

// updateObstacles moves obstacles, drops the ones fully off-screen and
// releases the next course entry when the spawn timer is due.
func (e *Engine) updateObstacles(speedFactor int) {
	e.obstacles = systems.AdvanceObstacles(e.obstacles, float64(speedFactor))

	if e.spawner.Due(e.clock, speedFactor) {
		e.spawnObstacle()
	}
}

func (e *Engine) spawnObstacle() {
	if o := e.spawner.Spawn(e.clock); o != nil {
		e.obstacles = append(e.obstacles, o)
	}
}

// updateAgents runs one sense/decide/integrate pass over the living agents in
// population order, then resolves collisions and clears for each of them.
func (e *Engine) updateAgents() {
	e.collector.RecordUpdate()

	for _, a := range e.agents {
		if !a.Alive {
			continue
		}

		next := systems.NextObstacle(e.obstacles, a, e.cfg.Agent.LookBehind)
		if e.behavior.Decide(a, next) {
			e.collector.RecordFlap()
		}

		if e.physics.Integrate(a, e.tick) {
			e.recordDeath(a)
		}
		a.Score += e.cfg.Scoring.TickReward

		for _, o := range e.obstacles {
			if systems.Collides(o, a) && a.Kill(components.CauseObstacle, e.tick) {
				e.recordDeath(a)
			}
		}

		e.creditClears(a)
	}
}

// creditClears awards the clear bonus for every obstacle whose trailing edge
// has passed the agent. With shared credit only the first agent past an
// obstacle is rewarded; otherwise every agent is rewarded once per obstacle.
func (e *Engine) creditClears(a *components.Agent) {
	for _, o := range e.obstacles {
		if !systems.Behind(o, a) {
			continue
		}
		if e.cfg.Scoring.SharedClearCredit {
			if o.Passed {
				continue
			}
		} else if o.Index < a.NextClear {
			continue
		}

		o.Passed = true
		a.NextClear = o.Index + 1
		a.Cleared++
		a.Score += e.cfg.Scoring.ClearBonus
		e.collector.RecordClear()
	}
}

func (e *Engine) recordDeath(a *components.Agent) {
	e.alive--
	e.collector.RecordDeath(a.Cause)
}

// retireSurvivors ends the generation once the tick limit is reached.
func (e *Engine) retireSurvivors() {
	for _, a := range e.agents {
		if a.Kill(components.CauseTimeout, e.tick) {
			e.recordDeath(a)
		}
	}
}

// updateRecords raises the best-ever score and cleared count to the
// population maximum.
func (e *Engine) updateRecords() {
	for _, a := range e.agents {
		if a.Score > e.bestScore {
			e.bestScore = a.Score
		}
		if a.Cleared > e.bestCleared {
			e.bestCleared = a.Cleared
		}
	}
}

// MaxCleared returns the most obstacles cleared by one agent in the current generation.
func (e *Engine) MaxCleared() int {
	var best int
	for _, a := range e.agents {
		if a.Cleared > best {
			best = a.Cleared
		}
	}
	return best
}
