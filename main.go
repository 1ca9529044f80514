package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/flapper/config"
	"github.com/pthm-cable/flapper/game"
	"github.com/pthm-cable/flapper/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed for networks and selection (0 = time-based)")
	courseSeed := flag.Int64("course-seed", 0, "Obstacle course seed (default: same as -seed)")
	generations := flag.Int("generations", 100, "Stop after N finished generations (0 = unlimited)")
	speed := flag.Int("speed", 1, "Playback speed factor passed to every step")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N steps in total (0 = unlimited)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config snapshot and plot")
	logStats := flag.Bool("log-stats", false, "Output generation stats via slog")
	plotFitness := flag.Bool("plot", true, "Write fitness.png to the output directory at exit")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *speed < 1 {
		slog.Error("speed must be at least 1", "speed", *speed)
		os.Exit(1)
	}

	// Set up seeds
	rngSeed, courseRngSeed := resolveSeeds(*seed, *courseSeed, flagSet("course-seed"), time.Now().UnixNano())

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer output.Close()

	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	engine, err := game.New(cfg, game.Options{
		Seed:       rngSeed,
		CourseSeed: courseRngSeed,
		Logger:     logger,
		Perf:       telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		Output:     output,
		LogStats:   *logStats,
	})
	if err != nil {
		slog.Error("failed to create engine", "error", err)
		output.Close()
		os.Exit(1)
	}

	slog.Info("starting headless run",
		"seed", rngSeed,
		"course_seed", courseRngSeed,
		"generations", *generations,
		"speed", *speed,
		"max_ticks", *maxTicks,
	)

	run(engine, *speed, *generations, *maxTicks)
	engine.LogState()

	if *plotFitness && output != nil && engine.History().Len() > 0 {
		if err := output.WritePlot(engine.History(), "flapper fitness"); err != nil {
			slog.Error("failed to write fitness plot", "error", err)
		}
	}
}

// resolveSeeds returns the engine and course seeds. A zero seed is replaced by
// now; the course seed follows the engine seed unless it was given explicitly,
// so an explicit course seed of 0 is honored.
func resolveSeeds(seed, courseSeed int64, courseSet bool, now int64) (int64, int64) {
	if seed == 0 {
		seed = now
	}
	if !courseSet {
		courseSeed = seed
	}
	return seed, courseSeed
}

// flagSet reports whether the named flag was given on the command line.
func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// run steps the engine until the generation or tick budget is spent.
func run(engine *game.Engine, speed, generations int, maxTicks int64) {
	finished := 0
	for {
		if maxTicks > 0 && engine.TotalTicks() >= maxTicks {
			slog.Info("max ticks reached", "ticks", engine.TotalTicks())
			return
		}

		if engine.Step(speed) != game.GenerationEnded {
			continue
		}

		stats := engine.Evolve()
		finished++
		if generations > 0 && finished >= generations {
			slog.Info("generation limit reached",
				"generations", finished,
				"best_cleared", stats.BestEverCleared,
				"best_score", stats.BestEverScore,
			)
			return
		}
	}
}
