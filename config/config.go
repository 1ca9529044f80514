// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Simulation SimulationConfig `yaml:"simulation"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Agent      AgentConfig      `yaml:"agent"`
	Obstacles  ObstaclesConfig  `yaml:"obstacles"`
	Population PopulationConfig `yaml:"population"`
	Evolution  EvolutionConfig  `yaml:"evolution"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds the playfield dimensions.
type ScreenConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// SimulationConfig holds step pacing parameters.
type SimulationConfig struct {
	TickMillis    float64 `yaml:"tick_millis"`     // Simulated milliseconds per external step
	MaxInnerSteps int     `yaml:"max_inner_steps"` // Upper bound on agent updates per step

	// MaxGenerationTicks ends a generation after this many steps by retiring
	// the survivors (0 = unlimited).
	MaxGenerationTicks int64 `yaml:"max_generation_ticks"`
}

// PhysicsConfig holds agent physics parameters.
type PhysicsConfig struct {
	Gravity      float64 `yaml:"gravity"`       // Added to velocity every update
	FlapStrength float64 `yaml:"flap_strength"` // Velocity after a flap (negative is up)
}

// AgentConfig holds agent body and spawn parameters.
type AgentConfig struct {
	Radius     float64 `yaml:"radius"`
	SpawnX     float64 `yaml:"spawn_x"`
	SpawnY     float64 `yaml:"spawn_y"`
	LookBehind float64 `yaml:"look_behind"`
}

// ObstaclesConfig holds obstacle geometry and course generation parameters.
type ObstaclesConfig struct {
	Width           float64 `yaml:"width"`
	Gap             float64 `yaml:"gap"`
	Speed           float64 `yaml:"speed"`
	SpawnIntervalMs float64 `yaml:"spawn_interval_ms"`
	Spacing         float64 `yaml:"spacing"`    // Horizontal distance between sequence entries
	GapMargin       int     `yaml:"gap_margin"` // Minimum barrier height above and below the gap
	SequenceLength  int     `yaml:"sequence_length"`
}

// PopulationConfig holds population parameters.
type PopulationConfig struct {
	Size int `yaml:"size"`
}

// EvolutionConfig holds selection and mutation parameters.
type EvolutionConfig struct {
	EliteCount        int     `yaml:"elite_count"`         // Agents cloned verbatim
	ElitePoolFraction float64 `yaml:"elite_pool_fraction"` // Fraction of the ranked population eligible as parents
	TournamentSize    int     `yaml:"tournament_size"`
	MutationRate      float64 `yaml:"mutation_rate"`
	MutationSigma     float64 `yaml:"mutation_sigma"`
	WeightLimit       float64 `yaml:"weight_limit"`       // Parameters are clamped to [-limit, limit]
	DiversityInterval int     `yaml:"diversity_interval"` // Generations between diversity mutations (0 = off)
	DiversityRate     float64 `yaml:"diversity_rate"`
	ClearedWeight     float64 `yaml:"cleared_weight"` // Fitness per cleared obstacle
}

// ScoringConfig holds in-play score rewards.
type ScoringConfig struct {
	TickReward        int  `yaml:"tick_reward"`
	ClearBonus        int  `yaml:"clear_bonus"`
	SharedClearCredit bool `yaml:"shared_clear_credit"` // Only the first agent past an obstacle is credited; false credits every agent once
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow       int `yaml:"perf_window"`       // Steps averaged by the perf collector
	StagnationWindow int `yaml:"stagnation_window"` // Generations without a new record before a stagnation bookmark
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	GapTopMin int // Smallest gap top offset a course may use
	GapTopMax int // Largest gap top offset a course may use
	ElitePool int // Size of the parent pool for the configured population
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ComputeDerived()

	return cfg, nil
}

// Validate reports every value that would make the engine misbehave.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Screen.Width > 0 && c.Screen.Height > 0, "screen: dimensions must be positive, got %vx%v", c.Screen.Width, c.Screen.Height)
	check(c.Simulation.TickMillis > 0, "simulation.tick_millis must be positive, got %v", c.Simulation.TickMillis)
	check(c.Simulation.MaxInnerSteps >= 1, "simulation.max_inner_steps must be at least 1, got %d", c.Simulation.MaxInnerSteps)
	check(c.Simulation.MaxGenerationTicks >= 0, "simulation.max_generation_ticks must not be negative, got %d", c.Simulation.MaxGenerationTicks)
	check(c.Agent.Radius > 0, "agent.radius must be positive, got %v", c.Agent.Radius)
	check(c.Obstacles.Width > 0, "obstacles.width must be positive, got %v", c.Obstacles.Width)
	check(c.Obstacles.Gap > 0, "obstacles.gap must be positive, got %v", c.Obstacles.Gap)
	check(c.Obstacles.SpawnIntervalMs > 0, "obstacles.spawn_interval_ms must be positive, got %v", c.Obstacles.SpawnIntervalMs)
	check(c.Obstacles.SequenceLength >= 1, "obstacles.sequence_length must be at least 1, got %d", c.Obstacles.SequenceLength)
	check(c.Obstacles.GapMargin >= 0, "obstacles.gap_margin must not be negative, got %d", c.Obstacles.GapMargin)
	check(float64(c.Obstacles.GapMargin)*2+c.Obstacles.Gap <= c.Screen.Height,
		"obstacles: gap %v with margin %d does not fit a screen of height %v", c.Obstacles.Gap, c.Obstacles.GapMargin, c.Screen.Height)
	check(c.Population.Size >= 1, "population.size must be at least 1, got %d", c.Population.Size)
	check(c.Evolution.EliteCount >= 0, "evolution.elite_count must not be negative, got %d", c.Evolution.EliteCount)
	check(c.Evolution.ElitePoolFraction > 0 && c.Evolution.ElitePoolFraction <= 1,
		"evolution.elite_pool_fraction must be in (0,1], got %v", c.Evolution.ElitePoolFraction)
	check(c.Evolution.TournamentSize >= 1, "evolution.tournament_size must be at least 1, got %d", c.Evolution.TournamentSize)
	check(c.Evolution.MutationRate >= 0 && c.Evolution.MutationRate <= 1, "evolution.mutation_rate must be in [0,1], got %v", c.Evolution.MutationRate)
	check(c.Evolution.DiversityRate >= 0 && c.Evolution.DiversityRate <= 1, "evolution.diversity_rate must be in [0,1], got %v", c.Evolution.DiversityRate)
	check(c.Evolution.MutationSigma >= 0, "evolution.mutation_sigma must not be negative, got %v", c.Evolution.MutationSigma)
	check(c.Evolution.WeightLimit > 0, "evolution.weight_limit must be positive, got %v", c.Evolution.WeightLimit)
	check(c.Telemetry.StagnationWindow >= 0, "telemetry.stagnation_window must not be negative, got %d", c.Telemetry.StagnationWindow)
	check(c.Evolution.DiversityInterval >= 0, "evolution.diversity_interval must not be negative, got %d", c.Evolution.DiversityInterval)

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// ComputeDerived calculates values derived from loaded config.
// Call it again after changing fields in code.
func (c *Config) ComputeDerived() {
	c.Derived.GapTopMin = c.Obstacles.GapMargin
	c.Derived.GapTopMax = int(c.Screen.Height-c.Obstacles.Gap) - c.Obstacles.GapMargin
	c.Derived.ElitePool = ElitePoolSize(c.Population.Size, c.Evolution.ElitePoolFraction, c.Evolution.EliteCount)
}

// ElitePoolSize returns max(eliteCount, floor(size*fraction)), bounded by size.
func ElitePoolSize(size int, fraction float64, eliteCount int) int {
	pool := int(float64(size) * fraction)
	if pool < eliteCount {
		pool = eliteCount
	}
	if pool > size {
		pool = size
	}
	if pool < 1 && size > 0 {
		pool = 1
	}
	return pool
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
