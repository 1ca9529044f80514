// Package systems contains the per-tick behaviour of the simulation:
// sensing, deciding, physics, collision, obstacle spawning and breeding.
package systems

import (
	"github.com/pthm-cable/flapper/components"
	"github.com/pthm-cable/flapper/config"
)

// Bounds represents the playfield.
type Bounds struct {
	Width, Height float64
}

// BoundsFromConfig returns the playfield described by cfg.
func BoundsFromConfig(cfg *config.Config) Bounds {
	return Bounds{Width: cfg.Screen.Width, Height: cfg.Screen.Height}
}

// PhysicsSystem applies gravity and flap impulses to agents.
type PhysicsSystem struct {
	gravity      float64
	flapStrength float64
	bounds       Bounds
}

// NewPhysicsSystem creates a new physics system.
func NewPhysicsSystem(cfg config.PhysicsConfig, bounds Bounds) *PhysicsSystem {
	return &PhysicsSystem{
		gravity:      cfg.Gravity,
		flapStrength: cfg.FlapStrength,
		bounds:       bounds,
	}
}

// Flap replaces the agent's velocity with the flap impulse.
func (s *PhysicsSystem) Flap(a *components.Agent) {
	a.Velocity = s.flapStrength
	a.Flaps++
}

// Integrate applies gravity to velocity and velocity to position.
// An agent whose body reaches the top or bottom of the playfield dies.
// Returns true if the agent died during this update.
func (s *PhysicsSystem) Integrate(a *components.Agent, tick int64) bool {
	if !a.Alive {
		return false
	}

	a.Velocity += s.gravity
	a.Y += a.Velocity

	switch {
	case a.Y >= s.bounds.Height-a.Radius:
		return a.Kill(components.CauseGround, tick)
	case a.Y <= a.Radius:
		return a.Kill(components.CauseCeiling, tick)
	}
	return false
}
