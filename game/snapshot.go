package game

// AgentView is the read-only state of one agent.
type AgentView struct {
	X, Y     float64
	Velocity float64
	Radius   float64
	Alive    bool
	Score    int
	Cleared  int
	Decision float64 // last network output
}

// ObstacleView is the read-only state of one live obstacle.
type ObstacleView struct {
	Index     int
	X         float64
	GapTop    float64
	GapBottom float64
	Width     float64
	Passed    bool
}

// Snapshot is a copy of the engine state after a step, for presentation layers.
type Snapshot struct {
	Generation  int
	Tick        int64
	Alive       int
	Population  int
	BestScore   int // best ever on the current course
	BestCleared int // best ever on the current course
	MaxCleared  int // best in the current generation
	CourseSeed  int64
	CourseIndex int // next course entry to spawn

	Agents    []AgentView
	Obstacles []ObstacleView
}

// Snapshot returns a copy of the current state. It shares nothing with the engine.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Generation:  e.generation,
		Tick:        e.tick,
		Alive:       e.alive,
		Population:  len(e.agents),
		BestScore:   e.bestScore,
		BestCleared: e.bestCleared,
		MaxCleared:  e.MaxCleared(),
		CourseSeed:  e.course.Seed,
		CourseIndex: e.spawner.Cursor(),
		Agents:      make([]AgentView, len(e.agents)),
		Obstacles:   make([]ObstacleView, len(e.obstacles)),
	}

	for i, a := range e.agents {
		s.Agents[i] = AgentView{
			X:        a.X,
			Y:        a.Y,
			Velocity: a.Velocity,
			Radius:   a.Radius,
			Alive:    a.Alive,
			Score:    a.Score,
			Cleared:  a.Cleared,
			Decision: a.Decision,
		}
	}
	for i, o := range e.obstacles {
		s.Obstacles[i] = ObstacleView{
			Index:     o.Index,
			X:         o.X,
			GapTop:    o.GapTop,
			GapBottom: o.GapBottom(),
			Width:     o.Width,
			Passed:    o.Passed,
		}
	}

	return s
}
