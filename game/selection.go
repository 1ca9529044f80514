package game

import (
	"math"

	"github.com/pthm-cable/flapper/neural"
	"github.com/pthm-cable/flapper/systems"
)

// maxPickDistance is how far outside an agent's body a pick still selects it.
const maxPickDistance = 20.0

// AgentAt returns the index of the living agent closest to (x, y), if one is
// within its radius plus maxPickDistance. Agents share a column, so ties go to
// the earliest in population order.
func (e *Engine) AgentAt(x, y float64) (int, bool) {
	best := -1
	bestDist := math.Inf(1)
	for i, a := range e.agents {
		if !a.Alive {
			continue
		}
		dist := math.Hypot(a.X-x, a.Y-y)
		if dist <= a.Radius+maxPickDistance && dist < bestDist {
			best = i
			bestDist = dist
		}
	}
	return best, best >= 0
}

// Inspection describes what one agent currently senses and how its network
// responds.
type Inspection struct {
	Agent       int
	Obstacle    int // course index of the sensed obstacle, -1 if none
	Sensors     systems.SensorInputs
	Activations *neural.Activations // nil when no obstacle is sensed
}

// Inspect evaluates agent i's network against its next obstacle without
// changing any state. Returns false if i is out of range.
func (e *Engine) Inspect(i int) (Inspection, bool) {
	if i < 0 || i >= len(e.agents) {
		return Inspection{}, false
	}
	a := e.agents[i]

	ins := Inspection{Agent: i, Obstacle: -1}
	next := systems.NextObstacle(e.obstacles, a, e.cfg.Agent.LookBehind)
	if next == nil {
		return ins, true
	}

	ins.Obstacle = next.Index
	ins.Sensors = systems.ComputeSensors(a, next, e.bounds)
	_, ins.Activations = a.Brain.InferWithActivations(ins.Sensors.AsArray())
	return ins, true
}
