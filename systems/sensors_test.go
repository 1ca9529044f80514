package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/flapper/components"
)

func TestComputeSensors(t *testing.T) {
	a := components.NewAgent(100, 300, 15, nil)
	a.Velocity = -5
	o := &components.Obstacle{X: 300, GapTop: 120, Gap: 150, Width: 50}

	got := ComputeSensors(a, o, Bounds{Width: 400, Height: 600})
	want := SensorInputs{
		Height:    0.5,
		Velocity:  0.25,
		GapTop:    0.2,
		Distance:  0.5,
		GapOffset: (300 - 195) / 600.0,
	}

	if got != want {
		t.Errorf("ComputeSensors = %+v, want %+v", got, want)
	}

	arr := got.AsArray()
	if arr[0] != want.Height || arr[4] != want.GapOffset {
		t.Errorf("AsArray order wrong: %v", arr)
	}
}

func TestComputeSensorsDegenerate(t *testing.T) {
	a := components.NewAgent(100, 300, 15, nil)
	o := &components.Obstacle{X: 100, GapTop: 0, Gap: 0, Width: 50}

	// Zero-sized bounds would divide by zero.
	got := ComputeSensors(a, o, Bounds{})
	for i, v := range got.AsArray() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("feature %d = %v, want finite", i, v)
		}
	}
	if got.Height != 0 || got.Distance != 0 {
		t.Errorf("degenerate features = %+v, want zeros", got)
	}
}

func TestNextObstacle(t *testing.T) {
	a := components.NewAgent(100, 300, 15, nil)

	tests := []struct {
		name string
		xs   []float64
		want int // index, -1 for none
	}{
		{"none", nil, -1},
		{"single ahead", []float64{300}, 0},
		{"first still sensed inside look-behind", []float64{40, 400}, 0}, // trailing edge 90 > 80
		{"first at look-behind boundary", []float64{30, 400}, 1},         // trailing edge 80 is not > 80
		{"all behind", []float64{-40, 0}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var obstacles []*components.Obstacle
			for _, x := range tt.xs {
				obstacles = append(obstacles, &components.Obstacle{X: x, Width: 50})
			}
			got := NextObstacle(obstacles, a, 20)
			if tt.want < 0 {
				if got != nil {
					t.Errorf("got obstacle at x=%v, want none", got.X)
				}
				return
			}
			if got != obstacles[tt.want] {
				t.Errorf("got %v, want obstacle %d", got, tt.want)
			}
		})
	}
}
