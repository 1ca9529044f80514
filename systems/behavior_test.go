package systems

import (
	"testing"

	"github.com/pthm-cable/flapper/components"
	"github.com/pthm-cable/flapper/neural"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		output   float64
		obstacle bool
		wantFlap bool
	}{
		{"flaps above threshold", 0.9, true, true},
		{"holds below threshold", 0.49, true, false},
		{"no obstacle, no decision", 0.9, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			physics := testPhysics()
			s := NewBehaviorSystem(physics, Bounds{Width: 400, Height: 600})
			a := components.NewAgent(100, 300, 15, neural.Constant(tt.output))
			a.Velocity = 2

			var next *components.Obstacle
			if tt.obstacle {
				next = &components.Obstacle{X: 300, GapTop: 200, Gap: 150, Width: 50}
			}

			flapped := s.Decide(a, next)
			if flapped != tt.wantFlap {
				t.Fatalf("flapped = %v, want %v", flapped, tt.wantFlap)
			}
			if tt.wantFlap && a.Velocity != -5 {
				t.Errorf("velocity = %v, want flap strength -5", a.Velocity)
			}
			if !tt.wantFlap && a.Velocity != 2 {
				t.Errorf("velocity changed without a flap: %v", a.Velocity)
			}
			if tt.obstacle && a.Decision == 0 {
				t.Error("decision output not recorded")
			}
			if !tt.obstacle && a.Decision != 0 {
				t.Errorf("decision recorded without an obstacle: %v", a.Decision)
			}
		})
	}
}
