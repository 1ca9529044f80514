package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/flapper/components"
	"github.com/pthm-cable/flapper/neural"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeFitnessStats(t *testing.T) {
	// Unsorted on purpose
	values := []float64{10, 1, 9, 2, 8, 3, 7, 4, 6, 5}
	best, mean, std, p50, p90 := ComputeFitnessStats(values)

	if best != 10 {
		t.Errorf("best = %v, want 10", best)
	}
	if math.Abs(mean-5.5) > 1e-9 {
		t.Errorf("mean = %v, want 5.5", mean)
	}
	if math.Abs(std-math.Sqrt(8.25)) > 1e-9 {
		t.Errorf("std = %v, want %v", std, math.Sqrt(8.25))
	}
	if math.Abs(p50-5.5) > 1e-9 {
		t.Errorf("p50 = %v, want 5.5", p50)
	}
	if math.Abs(p90-9.1) > 1e-9 {
		t.Errorf("p90 = %v, want 9.1", p90)
	}

	// Input is not reordered
	if values[0] != 10 || values[1] != 1 {
		t.Error("ComputeFitnessStats sorted its input")
	}
}

func TestComputeFitnessStatsEmpty(t *testing.T) {
	best, mean, std, p50, p90 := ComputeFitnessStats(nil)
	if best != 0 || mean != 0 || std != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func rankedAgents(fitness []float64, cleared []int) []*components.Agent {
	agents := make([]*components.Agent, len(fitness))
	for i := range agents {
		a := components.NewAgent(100, 300, 15, neural.Constant(0.5))
		a.Alive = false
		a.Fitness = fitness[i]
		a.Cleared = cleared[i]
		a.Score = int(fitness[i])
		agents[i] = a
	}
	return agents
}

func TestComputeGenerationStats(t *testing.T) {
	ranked := rankedAgents([]float64{1600, 600, 100, 40}, []int{2, 1, 0, 0})
	// Give one agent a different network so distance is non-zero.
	ranked[3].Brain = neural.Constant(0.9)

	s := ComputeGenerationStats(4, ranked)

	if s.Generation != 4 || s.Population != 4 {
		t.Errorf("generation/population = %d/%d", s.Generation, s.Population)
	}
	if s.BestFitness != 1600 {
		t.Errorf("best fitness = %v, want 1600", s.BestFitness)
	}
	if s.BestCleared != 2 {
		t.Errorf("best cleared = %d, want 2", s.BestCleared)
	}
	if s.BestScore != 1600 {
		t.Errorf("best score = %d, want 1600", s.BestScore)
	}
	if math.Abs(s.MeanCleared-0.75) > 1e-9 {
		t.Errorf("mean cleared = %v, want 0.75", s.MeanCleared)
	}
	if s.AliveAtEnd != 0 {
		t.Errorf("alive at end = %d, want 0", s.AliveAtEnd)
	}

	// Only B2 differs: |logit(0.9) - 0| / 57 averaged over 3 non-champions.
	want := math.Abs(math.Log(9)) / float64(neural.ParamCount()) / 3
	if math.Abs(s.ChampionDistance-want) > 1e-9 {
		t.Errorf("champion distance = %v, want %v", s.ChampionDistance, want)
	}
}

func TestComputeGenerationStatsEmpty(t *testing.T) {
	s := ComputeGenerationStats(1, nil)
	if s.Population != 0 || s.BestFitness != 0 || s.ChampionDistance != 0 {
		t.Errorf("unexpected stats for empty population: %+v", s)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector()
	for i := 0; i < 5; i++ {
		c.RecordTick()
	}
	c.RecordUpdate()
	c.RecordFlap()
	c.RecordFlap()
	c.RecordClear()
	c.RecordDeath(components.CauseGround)
	c.RecordDeath(components.CauseObstacle)
	c.RecordDeath(components.CauseObstacle)
	c.RecordDeath(components.CauseTimeout)
	c.RecordDeath(components.CauseNone) // ignored

	if c.Ticks() != 5 || c.Updates() != 1 {
		t.Errorf("ticks/updates = %d/%d, want 5/1", c.Ticks(), c.Updates())
	}

	s := c.Flush(3, rankedAgents([]float64{10}, []int{0}))

	if s.Ticks != 5 || s.Flaps != 2 || s.Clears != 1 {
		t.Errorf("ticks/flaps/clears = %d/%d/%d, want 5/2/1", s.Ticks, s.Flaps, s.Clears)
	}
	if s.DeathsGround != 1 || s.DeathsObstacle != 2 || s.DeathsCeiling != 0 || s.DeathsTimeout != 1 {
		t.Errorf("deaths = g%d c%d o%d t%d", s.DeathsGround, s.DeathsCeiling, s.DeathsObstacle, s.DeathsTimeout)
	}
	if s.Deaths() != 4 {
		t.Errorf("Deaths() = %d, want 4", s.Deaths())
	}

	// Counters reset after flush
	if c.Ticks() != 0 || c.Updates() != 0 {
		t.Error("collector not reset after flush")
	}
	if s2 := c.Flush(4, nil); s2.Flaps != 0 || s2.Deaths() != 0 {
		t.Errorf("second flush carried counts: %+v", s2)
	}
}
