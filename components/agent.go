package components

import "github.com/pthm-cable/flapper/neural"

// Agent is one member of the population: a circular body in a fixed column,
// controlled by its own decision network.
type Agent struct {
	// Physical state
	X        float64 // fixed column
	Y        float64
	Velocity float64 // vertical, positive is down
	Radius   float64

	// Bookkeeping
	Alive     bool
	Score     int
	Cleared   int
	NextClear int // course index of the next obstacle this agent can be credited for
	Flaps     int
	Cause     DeathCause
	DeathTick int64

	// Decision is the last network output, 0 until the first decision.
	Decision float64

	// Fitness is only meaningful once the generation has ended.
	Fitness float64

	Brain *neural.Network
}

// NewAgent creates a living agent at rest at (x, y).
func NewAgent(x, y, radius float64, brain *neural.Network) *Agent {
	return &Agent{
		X:      x,
		Y:      y,
		Radius: radius,
		Alive:  true,
		Brain:  brain,
	}
}

// Kill marks the agent dead. Returns false if it was already dead.
func (a *Agent) Kill(cause DeathCause, tick int64) bool {
	if !a.Alive {
		return false
	}
	a.Alive = false
	a.Cause = cause
	a.DeathTick = tick
	return true
}

// Top returns the upper edge of the bounding circle.
func (a *Agent) Top() float64 { return a.Y - a.Radius }

// Bottom returns the lower edge of the bounding circle.
func (a *Agent) Bottom() float64 { return a.Y + a.Radius }

// Left returns the left edge of the bounding circle.
func (a *Agent) Left() float64 { return a.X - a.Radius }

// Right returns the right edge of the bounding circle.
func (a *Agent) Right() float64 { return a.X + a.Radius }
