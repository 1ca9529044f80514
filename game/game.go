// Package game owns the simulation state and drives generations: stepping the
// population through the obstacle course and breeding the next generation.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/flapper/components"
	"github.com/pthm-cable/flapper/config"
	"github.com/pthm-cable/flapper/neural"
	"github.com/pthm-cable/flapper/systems"
	"github.com/pthm-cable/flapper/telemetry"
)

// StepOutcome reports what a Step did.
type StepOutcome uint8

const (
	// Continue means at least one agent was alive at the start of the step.
	Continue StepOutcome = iota
	// GenerationEnded means no agent is alive; call Evolve before stepping again.
	GenerationEnded
)

// String returns the display name for a StepOutcome.
func (o StepOutcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case GenerationEnded:
		return "generation_ended"
	default:
		return "unknown"
	}
}

// Options configures an Engine.
type Options struct {
	Seed       int64 // engine RNG: networks and selection
	CourseSeed int64 // obstacle course

	// NewBrain builds the networks of a fresh population (defaults to neural.Fresh).
	NewBrain func(rng *rand.Rand) *neural.Network

	Logger   *slog.Logger             // defaults to slog.Default()
	Perf     *telemetry.PerfCollector // optional step timing
	Output   *telemetry.OutputManager // optional CSV/plot output
	LogStats bool                     // log generation stats and bookmarks

	// OnGeneration, if set, receives the stats of every finished generation.
	OnGeneration func(telemetry.GenerationStats)
}

// Engine holds the complete simulation state. It is not safe for concurrent use.
type Engine struct {
	cfg    *config.Config
	rng    *rand.Rand
	logger *slog.Logger

	// Systems
	bounds   systems.Bounds
	physics  *systems.PhysicsSystem
	behavior *systems.BehaviorSystem
	breeding *systems.BreedingSystem
	spawner  *systems.Spawner
	course   *systems.Course

	newBrain func(rng *rand.Rand) *neural.Network

	// Population and course state
	agents    []*components.Agent
	obstacles []*components.Obstacle
	alive     int

	// Clock
	generation int
	tick       int64   // steps that updated agents in the current generation
	totalTicks int64   // steps that updated agents since the engine was created
	clock      float64 // simulated ms since the generation started

	// Records, retained across generations until the course is regenerated
	bestScore   int
	bestCleared int

	// Telemetry
	collector    *telemetry.Collector
	history      telemetry.History
	bookmarks    *telemetry.BookmarkDetector
	perf         *telemetry.PerfCollector
	output       *telemetry.OutputManager
	logStats     bool
	onGeneration func(telemetry.GenerationStats)
}

// New creates an engine with a fresh generation 1 on the course built from
// opts.CourseSeed. cfg is copied; later changes to it have no effect.
func New(cfg *config.Config, opts Options) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("game: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()
	cfg.ComputeDerived()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	newBrain := opts.NewBrain
	if newBrain == nil {
		newBrain = neural.Fresh
	}

	bounds := systems.BoundsFromConfig(cfg)
	physics := systems.NewPhysicsSystem(cfg.Physics, bounds)
	course := systems.GenerateCourse(opts.CourseSeed, cfg)

	e := &Engine{
		cfg:          cfg,
		rng:          rand.New(rand.NewSource(opts.Seed)),
		logger:       logger,
		bounds:       bounds,
		physics:      physics,
		behavior:     systems.NewBehaviorSystem(physics, bounds),
		breeding:     systems.NewBreedingSystem(cfg.Evolution, cfg.Population.Size),
		spawner:      systems.NewSpawner(course, cfg.Obstacles),
		course:       course,
		newBrain:     newBrain,
		collector:    telemetry.NewCollector(),
		bookmarks:    telemetry.NewBookmarkDetector(course.Len(), cfg.Telemetry.StagnationWindow),
		perf:         opts.Perf,
		output:       opts.Output,
		logStats:     opts.LogStats,
		onGeneration: opts.OnGeneration,
	}

	e.startFresh()

	e.logger.Info("engine created",
		"seed", opts.Seed,
		"course_seed", opts.CourseSeed,
		"population", cfg.Population.Size,
		"course_length", course.Len(),
	)

	return e, nil
}

// Config returns the engine's copy of the configuration.
func (e *Engine) Config() *config.Config { return e.cfg }

// Generation returns the current generation number, starting at 1.
func (e *Engine) Generation() int { return e.generation }

// Tick returns the number of steps that updated agents in the current generation.
func (e *Engine) Tick() int64 { return e.tick }

// TotalTicks returns the number of steps that updated agents since the engine was created.
func (e *Engine) TotalTicks() int64 { return e.totalTicks }

// BestScore returns the best score reached on the current course.
func (e *Engine) BestScore() int { return e.bestScore }

// BestCleared returns the most obstacles cleared by one agent on the current course.
func (e *Engine) BestCleared() int { return e.bestCleared }

// Alive returns the number of living agents.
func (e *Engine) Alive() int { return e.alive }

// Course returns the current obstacle course.
func (e *Engine) Course() *systems.Course { return e.course }

// History returns the stats of every generation finished on the current course.
func (e *Engine) History() *telemetry.History { return &e.history }

// Agents returns the population in spawn order. Callers must not modify it.
func (e *Engine) Agents() []*components.Agent { return e.agents }
