package systems

import (
	"testing"

	"github.com/pthm-cable/flapper/components"
)

func TestCollides(t *testing.T) {
	const radius = 15.0

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		// Gap is [100, 250]; obstacle spans x in [100, 150].
		{"centered in gap", 125, 175, false},
		{"touching gap top", 125, 100 + radius, false},
		{"one pixel into top barrier", 125, 100 + radius - 1, true},
		{"touching gap bottom", 125, 250 - radius, false},
		{"one pixel into bottom barrier", 125, 250 - radius + 1, true},
		{"above gap, left of obstacle", 100 - radius, 50, false},
		{"above gap, just overlapping left edge", 100 - radius + 1, 50, true},
		{"above gap, right of obstacle", 150 + radius, 50, false},
		{"above gap, just overlapping right edge", 150 + radius - 1, 50, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := &components.Obstacle{X: 100, GapTop: 100, Gap: 150, Width: 50}
			a := components.NewAgent(tc.x, tc.y, radius, nil)
			if got := Collides(o, a); got != tc.want {
				t.Errorf("Collides at (%v,%v) = %v, want %v", tc.x, tc.y, got, tc.want)
			}
		})
	}
}

func TestCollidesIgnoresDeadAgents(t *testing.T) {
	o := &components.Obstacle{X: 100, GapTop: 100, Gap: 150, Width: 50}
	a := components.NewAgent(125, 50, 15, nil)
	a.Kill(components.CauseGround, 1)

	if Collides(o, a) {
		t.Error("dead agent should not collide")
	}
}

func TestCollidesIgnoresPassedFlag(t *testing.T) {
	o := &components.Obstacle{X: 100, GapTop: 100, Gap: 150, Width: 50, Passed: true}
	a := components.NewAgent(125, 50, 15, nil)

	if !Collides(o, a) {
		t.Error("passed obstacles must still collide")
	}
}

// An agent at y=50 with radius 15 approaching an obstacle whose gap is
// [100,250] on a 600-high field hits the top barrier as soon as the spans overlap.
func TestApproachTopBarrier(t *testing.T) {
	o := &components.Obstacle{X: 300, GapTop: 100, Gap: 150, Width: 50, Speed: 2}
	a := components.NewAgent(100, 50, 15, nil)

	for step := 0; step < 200; step++ {
		if Collides(o, a) {
			if a.Right() <= o.X {
				t.Fatalf("collision reported before spans overlap: agent right %v, obstacle x %v", a.Right(), o.X)
			}
			if o.X > a.X {
				// Still entering: the hit is against the barrier, not inside the gap.
				return
			}
			t.Fatalf("collision registered only after the agent reached the obstacle (x=%v)", o.X)
		}
		o.Advance(1)
	}
	t.Fatal("agent above the gap never collided with the top barrier")
}

func TestBehind(t *testing.T) {
	a := components.NewAgent(100, 300, 15, nil)
	tests := []struct {
		x    float64
		want bool
	}{
		{60, false}, // trailing edge at 110
		{50, false}, // trailing edge exactly at agent column
		{49, true},
	}
	for _, tt := range tests {
		o := &components.Obstacle{X: tt.x, Width: 50}
		if got := Behind(o, a); got != tt.want {
			t.Errorf("Behind at x=%v = %v, want %v", tt.x, got, tt.want)
		}
	}
}
