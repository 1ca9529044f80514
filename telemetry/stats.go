package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/flapper/components"
	"github.com/pthm-cable/flapper/neural"
)

// GenerationStats holds aggregated statistics for one finished generation.
type GenerationStats struct {
	Generation int   `csv:"generation"`
	Ticks      int64 `csv:"ticks"` // steps that updated agents
	Population int   `csv:"population"`
	AliveAtEnd int   `csv:"alive_at_end"`

	// Fitness distribution
	BestFitness   float64 `csv:"best_fitness"`
	MeanFitness   float64 `csv:"mean_fitness"`
	MedianFitness float64 `csv:"median_fitness"`
	P90Fitness    float64 `csv:"p90_fitness"`
	FitnessStd    float64 `csv:"fitness_std"`

	// Progress
	BestScore       int     `csv:"best_score"`
	BestCleared     int     `csv:"best_cleared"`
	MeanCleared     float64 `csv:"mean_cleared"`
	BestEverScore   int     `csv:"best_ever_score"`
	BestEverCleared int     `csv:"best_ever_cleared"`

	// Events during the generation
	Flaps          int `csv:"flaps"`
	Clears         int `csv:"clears"`
	DeathsGround   int `csv:"deaths_ground"`
	DeathsCeiling  int `csv:"deaths_ceiling"`
	DeathsObstacle int `csv:"deaths_obstacle"`
	DeathsTimeout  int `csv:"deaths_timeout"`

	// Diversity: mean parameter distance of the population to the champion
	ChampionDistance float64 `csv:"champion_distance"`

	// Breeding of the next generation
	MeanMutationDelta float64 `csv:"mean_mutation_delta"`
	DiversityApplied  bool    `csv:"diversity_applied"`

	CourseSeed int64 `csv:"course_seed"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeFitnessStats calculates the distribution of fitness values.
// The standard deviation is the population (biased) one.
func ComputeFitnessStats(values []float64) (best, mean, std, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	best = sorted[n-1]
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return best, mean, std, p50, p90
}

// ComputeGenerationStats summarizes a ranked population whose Fitness values
// are set. ranked[0] is the champion.
func ComputeGenerationStats(generation int, ranked []*components.Agent) GenerationStats {
	s := GenerationStats{
		Generation: generation,
		Population: len(ranked),
	}
	if len(ranked) == 0 {
		return s
	}

	fitness := make([]float64, len(ranked))
	cleared := make([]float64, len(ranked))
	champion := ranked[0]
	var distSum float64
	for i, a := range ranked {
		fitness[i] = a.Fitness
		cleared[i] = float64(a.Cleared)
		if a.Alive {
			s.AliveAtEnd++
		}
		if a.Score > s.BestScore {
			s.BestScore = a.Score
		}
		if a.Cleared > s.BestCleared {
			s.BestCleared = a.Cleared
		}
		if i > 0 {
			distSum += neural.Distance(champion.Brain, a.Brain)
		}
	}

	s.BestFitness, s.MeanFitness, s.FitnessStd, s.MedianFitness, s.P90Fitness = ComputeFitnessStats(fitness)
	s.MeanCleared = stat.Mean(cleared, nil)
	if len(ranked) > 1 {
		s.ChampionDistance = distSum / float64(len(ranked)-1)
	}

	return s
}

// Deaths returns the total number of recorded deaths.
func (s GenerationStats) Deaths() int {
	return s.DeathsGround + s.DeathsCeiling + s.DeathsObstacle + s.DeathsTimeout
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int64("ticks", s.Ticks),
		slog.Int("population", s.Population),
		slog.Float64("best_fitness", s.BestFitness),
		slog.Float64("mean_fitness", s.MeanFitness),
		slog.Float64("median_fitness", s.MedianFitness),
		slog.Float64("p90_fitness", s.P90Fitness),
		slog.Float64("fitness_std", s.FitnessStd),
		slog.Int("best_score", s.BestScore),
		slog.Int("best_cleared", s.BestCleared),
		slog.Float64("mean_cleared", s.MeanCleared),
		slog.Int("best_ever_score", s.BestEverScore),
		slog.Int("best_ever_cleared", s.BestEverCleared),
		slog.Int("flaps", s.Flaps),
		slog.Int("clears", s.Clears),
		slog.Int("deaths_ground", s.DeathsGround),
		slog.Int("deaths_ceiling", s.DeathsCeiling),
		slog.Int("deaths_obstacle", s.DeathsObstacle),
		slog.Int("deaths_timeout", s.DeathsTimeout),
		slog.Float64("champion_distance", s.ChampionDistance),
		slog.Float64("mean_mutation_delta", s.MeanMutationDelta),
		slog.Bool("diversity_applied", s.DiversityApplied),
		slog.Int64("course_seed", s.CourseSeed),
	)
}

// LogStats logs the generation stats using logger.
func (s GenerationStats) LogStats(logger *slog.Logger) {
	logger.Info("generation",
		"generation", s.Generation,
		"ticks", s.Ticks,
		"best_fitness", s.BestFitness,
		"mean_fitness", s.MeanFitness,
		"p90_fitness", s.P90Fitness,
		"best_score", s.BestScore,
		"best_cleared", s.BestCleared,
		"mean_cleared", s.MeanCleared,
		"best_ever_cleared", s.BestEverCleared,
		"deaths_obstacle", s.DeathsObstacle,
		"deaths_ground", s.DeathsGround,
		"deaths_ceiling", s.DeathsCeiling,
		"champion_distance", s.ChampionDistance,
	)
}
