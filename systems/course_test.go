package systems

import (
	"testing"

	"github.com/pthm-cable/flapper/components"
	"github.com/pthm-cable/flapper/config"
)

func TestGenerateCourseDeterministic(t *testing.T) {
	cfg := config.Default()

	a := GenerateCourse(42, cfg)
	b := GenerateCourse(42, cfg)
	if !a.Equal(b) {
		t.Error("same seed produced different courses")
	}

	c := GenerateCourse(43, cfg)
	if a.Equal(c) {
		t.Error("different seeds produced identical courses")
	}
}

func TestGenerateCourseLayout(t *testing.T) {
	cfg := config.Default()
	course := GenerateCourse(7, cfg)

	if course.Len() != cfg.Obstacles.SequenceLength {
		t.Fatalf("len = %d, want %d", course.Len(), cfg.Obstacles.SequenceLength)
	}
	if course.Seed != 7 {
		t.Errorf("seed = %d, want 7", course.Seed)
	}

	for i, e := range course.Entries {
		wantX := cfg.Screen.Width + float64(i)*cfg.Obstacles.Spacing
		if e.X != wantX {
			t.Errorf("entry %d x = %v, want %v", i, e.X, wantX)
		}
		if e.GapTop < 100 || e.GapTop > 350 || e.GapTop != float64(int(e.GapTop)) {
			t.Errorf("entry %d gap top = %v, want integer in [100,350]", i, e.GapTop)
		}
	}
}

func TestSpawnerTimer(t *testing.T) {
	cfg := config.Default()
	course := GenerateCourse(1, cfg)
	s := NewSpawner(course, cfg.Obstacles)
	s.Reset(0)

	first := s.Spawn(0)
	if first == nil || first.Index != 0 || first.X != course.Entries[0].X {
		t.Fatalf("first spawn = %+v", first)
	}
	if first.Gap != 150 || first.Width != 50 || first.Speed != 2 {
		t.Errorf("obstacle template = %+v", first)
	}

	if s.Due(1500, 1) {
		t.Error("spawn due at exactly the interval; the rule is strictly greater")
	}
	if !s.Due(1501, 1) {
		t.Error("spawn not due after the interval")
	}
	// Higher playback speed shortens the interval.
	if !s.Due(751, 2) {
		t.Error("spawn not due after interval/2 at speed 2")
	}

	second := s.Spawn(1501)
	if second.Index != 1 || second.GapTop != course.Entries[1].GapTop {
		t.Errorf("second spawn = %+v", second)
	}
	if s.Due(1600, 1) {
		t.Error("timer did not restart on spawn")
	}
}

func TestSpawnerExhausts(t *testing.T) {
	cfg := config.Default()
	cfg.Obstacles.SequenceLength = 2
	course := GenerateCourse(1, cfg)
	s := NewSpawner(course, cfg.Obstacles)
	s.Reset(0)

	if s.Spawn(0) == nil || s.Spawn(10) == nil {
		t.Fatal("expected two spawns")
	}
	if !s.Exhausted() {
		t.Error("spawner should be exhausted")
	}
	if o := s.Spawn(20); o != nil {
		t.Errorf("spawned %+v past the end of the course", o)
	}

	s.Reset(100)
	if s.Cursor() != 0 || s.Exhausted() {
		t.Error("Reset did not rewind the cursor")
	}
}

func TestAdvanceObstacles(t *testing.T) {
	obstacles := []*components.Obstacle{
		{Index: 0, X: -49, Width: 50, Speed: 2},
		{Index: 1, X: 100, Width: 50, Speed: 2},
		{Index: 2, X: 400, Width: 50, Speed: 2},
	}

	kept := AdvanceObstacles(obstacles, 1)
	if len(kept) != 2 || kept[0].Index != 1 || kept[1].Index != 2 {
		t.Fatalf("kept = %v", kept)
	}
	if kept[0].X != 98 || kept[1].X != 398 {
		t.Errorf("positions = %v, %v", kept[0].X, kept[1].X)
	}
	// Original slice unchanged in length and order
	if len(obstacles) != 3 || obstacles[0].Index != 0 {
		t.Error("input slice was modified")
	}

	kept = AdvanceObstacles(kept, 5)
	if kept[0].X != 88 {
		t.Errorf("speed factor not applied: x = %v", kept[0].X)
	}
}
