package systems

import (
	"math"

	"github.com/pthm-cable/flapper/components"
	"github.com/pthm-cable/flapper/neural"
)

// Velocity normalization: (v + velocityOffset) / velocitySpan maps the usual
// flap/fall range to roughly [0,1].
const (
	velocityOffset = 10.0
	velocitySpan   = 20.0
)

// SensorInputs holds the computed sensor values for one agent.
type SensorInputs struct {
	Height    float64 // own y / screen height
	Velocity  float64 // (velocity + 10) / 20
	GapTop    float64 // gap top / screen height
	Distance  float64 // horizontal distance to obstacle / screen width
	GapOffset float64 // signed offset from gap center / screen height
}

// AsArray returns the sensor inputs in network input order.
func (s SensorInputs) AsArray() [neural.NumInputs]float64 {
	return [neural.NumInputs]float64{s.Height, s.Velocity, s.GapTop, s.Distance, s.GapOffset}
}

// ComputeSensors calculates the normalized feature vector of an agent relative
// to an obstacle. Non-finite features (degenerate bounds) are reported as zero.
func ComputeSensors(a *components.Agent, o *components.Obstacle, bounds Bounds) SensorInputs {
	return SensorInputs{
		Height:    finite(a.Y / bounds.Height),
		Velocity:  finite((a.Velocity + velocityOffset) / velocitySpan),
		GapTop:    finite(o.GapTop / bounds.Height),
		Distance:  finite((o.X - a.X) / bounds.Width),
		GapOffset: finite((a.Y - o.GapCenter()) / bounds.Height),
	}
}

// NextObstacle returns the first obstacle, in left-to-right order, whose
// trailing edge is still ahead of the agent's sensing point (agent.X - lookBehind).
// Returns nil if there is none.
func NextObstacle(obstacles []*components.Obstacle, a *components.Agent, lookBehind float64) *components.Obstacle {
	for _, o := range obstacles {
		if o.Right() > a.X-lookBehind {
			return o
		}
	}
	return nil
}

func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
