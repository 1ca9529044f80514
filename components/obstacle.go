package components

// Obstacle is a vertical barrier with a passable gap, scrolling left.
type Obstacle struct {
	Index  int     // position in the course it was spawned from
	X      float64 // left edge
	GapTop float64 // fixed at creation
	Gap    float64
	Width  float64
	Speed  float64

	// Passed is set once any agent has cleared the obstacle.
	// Collision ignores it.
	Passed bool
}

// Advance moves the obstacle left by Speed × speedFactor.
func (o *Obstacle) Advance(speedFactor float64) {
	o.X -= o.Speed * speedFactor
}

// GapBottom returns the lower edge of the gap.
func (o *Obstacle) GapBottom() float64 { return o.GapTop + o.Gap }

// GapCenter returns the vertical center of the gap.
func (o *Obstacle) GapCenter() float64 { return o.GapTop + o.Gap/2 }

// Right returns the trailing edge.
func (o *Obstacle) Right() float64 { return o.X + o.Width }

// OffScreen reports whether the obstacle is fully past the left edge.
func (o *Obstacle) OffScreen() bool { return o.Right() < 0 }
