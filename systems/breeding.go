package systems

import (
	"math/rand"
	"sort"

	"github.com/pthm-cable/flapper/components"
	"github.com/pthm-cable/flapper/config"
	"github.com/pthm-cable/flapper/neural"
)

// Fitness returns score + cleared × clearedWeight.
func Fitness(a *components.Agent, clearedWeight float64) float64 {
	return float64(a.Score) + float64(a.Cleared)*clearedWeight
}

// RankByFitness assigns Fitness to every agent and returns a copy of the
// population sorted by descending fitness. Ties keep population order.
func RankByFitness(agents []*components.Agent, clearedWeight float64) []*components.Agent {
	ranked := make([]*components.Agent, len(agents))
	copy(ranked, agents)
	for _, a := range ranked {
		a.Fitness = Fitness(a, clearedWeight)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Fitness > ranked[j].Fitness
	})
	return ranked
}

// Tournament samples Size distinct members of a pool uniformly and keeps the fittest.
type Tournament struct {
	Size int
}

// Pick returns the index in pool of the tournament winner. Pools smaller than
// Size are sampled whole. The earliest sampled candidate wins ties.
func (t Tournament) Pick(rng *rand.Rand, pool []*components.Agent) int {
	if len(pool) == 0 {
		panic("systems: tournament over an empty pool")
	}
	k := t.Size
	if k > len(pool) || k < 1 {
		k = len(pool)
	}

	candidates := rng.Perm(len(pool))[:k]
	best := candidates[0]
	for _, idx := range candidates[1:] {
		if pool[idx].Fitness > pool[best].Fitness {
			best = idx
		}
	}
	return best
}

// Offspring is the result of one breeding pass.
type Offspring struct {
	Brains  []*neural.Network
	Parents []int // rank of each child's parent; elites are their own parent

	Elites            int
	PoolSize          int
	MeanMutationDelta float64
	DiversityApplied  bool
}

// BreedingSystem produces the next generation's networks from a ranked population.
type BreedingSystem struct {
	cfg        config.EvolutionConfig
	size       int
	tournament Tournament
}

// NewBreedingSystem creates a new breeding system for populations of size.
func NewBreedingSystem(cfg config.EvolutionConfig, size int) *BreedingSystem {
	return &BreedingSystem{
		cfg:        cfg,
		size:       size,
		tournament: Tournament{Size: cfg.TournamentSize},
	}
}

// Breed builds size networks for generation nextGeneration:
//  1. the top EliteCount networks are copied verbatim,
//  2. every other slot holds a mutated copy of a tournament winner drawn from
//     the top max(EliteCount, size × ElitePoolFraction) agents,
//  3. every DiversityInterval generations all networks, elites included, get
//     an extra low-rate mutation.
//
// ranked must be sorted by descending fitness (see RankByFitness).
func (s *BreedingSystem) Breed(rng *rand.Rand, ranked []*components.Agent, nextGeneration int) Offspring {
	if len(ranked) == 0 {
		panic("systems: breeding from an empty population")
	}

	elites := s.cfg.EliteCount
	if elites > len(ranked) {
		elites = len(ranked)
	}
	if elites > s.size {
		elites = s.size
	}
	poolSize := config.ElitePoolSize(len(ranked), s.cfg.ElitePoolFraction, s.cfg.EliteCount)
	pool := ranked[:poolSize]

	out := Offspring{
		Brains:   make([]*neural.Network, 0, s.size),
		Parents:  make([]int, 0, s.size),
		Elites:   elites,
		PoolSize: poolSize,
	}

	for i := 0; i < elites; i++ {
		out.Brains = append(out.Brains, ranked[i].Brain.Clone())
		out.Parents = append(out.Parents, i)
	}

	mutation := s.mutation(s.cfg.MutationRate)
	var deltaSum float64
	var mutated int
	for len(out.Brains) < s.size {
		parent := s.tournament.Pick(rng, pool)
		child := pool[parent].Brain.Clone()
		deltaSum += child.MutateInPlace(rng, mutation)
		mutated++
		out.Brains = append(out.Brains, child)
		out.Parents = append(out.Parents, parent)
	}
	if mutated > 0 {
		out.MeanMutationDelta = deltaSum / float64(mutated)
	}

	if s.cfg.DiversityInterval > 0 && nextGeneration%s.cfg.DiversityInterval == 0 {
		diversity := s.mutation(s.cfg.DiversityRate)
		for _, brain := range out.Brains {
			brain.MutateInPlace(rng, diversity)
		}
		out.DiversityApplied = true
	}

	return out
}

func (s *BreedingSystem) mutation(rate float64) neural.MutationParams {
	return neural.MutationParams{
		Rate:  rate,
		Sigma: s.cfg.MutationSigma,
		Limit: s.cfg.WeightLimit,
	}
}
