package systems

import (
	"github.com/pthm-cable/flapper/components"
)

// FlapThreshold is the network output above which an agent flaps.
const FlapThreshold = 0.5

// BehaviorSystem turns sensor readings into actions through each agent's network.
type BehaviorSystem struct {
	physics *PhysicsSystem
	bounds  Bounds
}

// NewBehaviorSystem creates a new behavior system.
func NewBehaviorSystem(physics *PhysicsSystem, bounds Bounds) *BehaviorSystem {
	return &BehaviorSystem{physics: physics, bounds: bounds}
}

// Decide senses the next obstacle, asks the agent's network and flaps when the
// output exceeds FlapThreshold. With no obstacle ahead no decision is made and
// the agent coasts. Returns true if the agent flapped.
func (s *BehaviorSystem) Decide(a *components.Agent, next *components.Obstacle) bool {
	if !a.Alive || next == nil {
		return false
	}

	inputs := ComputeSensors(a, next, s.bounds)
	a.Decision = a.Brain.Infer(inputs.AsArray())

	if a.Decision > FlapThreshold {
		s.physics.Flap(a)
		return true
	}
	return false
}
