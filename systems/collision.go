package systems

import "github.com/pthm-cable/flapper/components"

// Collides reports whether the agent's bounding circle hits the barrier:
// the horizontal spans overlap and the body protrudes above the gap top or
// below the gap bottom. Comparisons are strict, so touching an edge is not a
// hit. Dead agents never collide.
func Collides(o *components.Obstacle, a *components.Agent) bool {
	if !a.Alive {
		return false
	}
	if a.Right() > o.X && a.Left() < o.Right() {
		if a.Top() < o.GapTop || a.Bottom() > o.GapBottom() {
			return true
		}
	}
	return false
}

// Behind reports whether the obstacle's trailing edge has passed the agent's column.
func Behind(o *components.Obstacle, a *components.Agent) bool {
	return o.Right() < a.X
}
