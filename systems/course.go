package systems

import (
	"math/rand"

	"github.com/pthm-cable/flapper/components"
	"github.com/pthm-cable/flapper/config"
)

// CourseEntry is one pre-generated obstacle: where it enters and where its gap sits.
type CourseEntry struct {
	X      float64
	GapTop float64
}

// Course is the deterministic obstacle sequence shared by every generation
// until it is explicitly regenerated.
type Course struct {
	Seed    int64
	Entries []CourseEntry
}

// GenerateCourse builds a course from seed. The same seed and config always
// produce the same course. The first entry starts at the right edge of the
// screen; each following entry is Spacing further right. Gap tops are uniform
// integers in [GapTopMin, GapTopMax].
func GenerateCourse(seed int64, cfg *config.Config) *Course {
	rng := rand.New(rand.NewSource(seed))

	lo, hi := cfg.Derived.GapTopMin, cfg.Derived.GapTopMax
	entries := make([]CourseEntry, cfg.Obstacles.SequenceLength)
	x := cfg.Screen.Width
	for i := range entries {
		entries[i] = CourseEntry{
			X:      x,
			GapTop: float64(lo + rng.Intn(hi-lo+1)),
		}
		x += cfg.Obstacles.Spacing
	}

	return &Course{Seed: seed, Entries: entries}
}

// Len returns the number of entries in the course.
func (c *Course) Len() int { return len(c.Entries) }

// Equal reports whether two courses hold the same entries.
func (c *Course) Equal(other *Course) bool {
	if len(c.Entries) != len(other.Entries) {
		return false
	}
	for i := range c.Entries {
		if c.Entries[i] != other.Entries[i] {
			return false
		}
	}
	return true
}

// Spawner releases course entries as obstacles on a simulated-time timer.
type Spawner struct {
	course    *Course
	cursor    int
	lastSpawn float64 // simulated ms

	interval float64
	gap      float64
	width    float64
	speed    float64
}

// NewSpawner creates a spawner over course.
func NewSpawner(course *Course, cfg config.ObstaclesConfig) *Spawner {
	return &Spawner{
		course:   course,
		interval: cfg.SpawnIntervalMs,
		gap:      cfg.Gap,
		width:    cfg.Width,
		speed:    cfg.Speed,
	}
}

// Reset rewinds the cursor to the start of the course.
func (s *Spawner) Reset(now float64) {
	s.cursor = 0
	s.lastSpawn = now
}

// SetCourse swaps in a new course and rewinds.
func (s *Spawner) SetCourse(course *Course, now float64) {
	s.course = course
	s.Reset(now)
}

// Due reports whether more than interval/speedFactor simulated ms have passed
// since the last spawn.
func (s *Spawner) Due(now float64, speedFactor int) bool {
	return now-s.lastSpawn > s.interval/float64(speedFactor)
}

// Spawn creates an obstacle from the next unconsumed course entry.
// Returns nil once the course is exhausted; the timer only restarts on a spawn.
func (s *Spawner) Spawn(now float64) *components.Obstacle {
	if s.cursor >= s.course.Len() {
		return nil
	}
	entry := s.course.Entries[s.cursor]
	o := &components.Obstacle{
		Index:  s.cursor,
		X:      entry.X,
		GapTop: entry.GapTop,
		Gap:    s.gap,
		Width:  s.width,
		Speed:  s.speed,
	}
	s.cursor++
	s.lastSpawn = now
	return o
}

// Cursor returns the index of the next entry to spawn.
func (s *Spawner) Cursor() int { return s.cursor }

// Exhausted reports whether every entry has been spawned.
func (s *Spawner) Exhausted() bool { return s.cursor >= s.course.Len() }

// AdvanceObstacles moves every obstacle and returns a new slice holding only
// those still on screen. The input slice keeps its length and order.
func AdvanceObstacles(obstacles []*components.Obstacle, speedFactor float64) []*components.Obstacle {
	kept := make([]*components.Obstacle, 0, len(obstacles)+1)
	for _, o := range obstacles {
		o.Advance(speedFactor)
		if !o.OffScreen() {
			kept = append(kept, o)
		}
	}
	return kept
}
