// Package main provides CMA-ES optimization for finding evolution parameters
// that teach the population to clear the most obstacles.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/flapper/config"
)

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

// evalRecord is one row of optimize_log.csv. Parameter columns hold the
// clamped values the evaluation actually ran with.
type evalRecord struct {
	Eval              int     `csv:"eval"`
	Fitness           float64 `csv:"fitness"`
	MeanCleared       float64 `csv:"mean_cleared"`
	MeanScore         float64 `csv:"mean_score"`
	MutationRate      float64 `csv:"mutation_rate"`
	MutationSigma     float64 `csv:"mutation_sigma"`
	ElitePoolFraction float64 `csv:"elite_pool_fraction"`
	TournamentSize    int     `csv:"tournament_size"`
	DiversityRate     float64 `csv:"diversity_rate"`
	ElapsedSec        float64 `csv:"elapsed_sec"`
}

// newEvalRecord builds a log row from a config that had the evaluated
// parameters applied.
func newEvalRecord(eval int, fitness, meanCleared, meanScore float64, cfg *config.Config, elapsed time.Duration) evalRecord {
	return evalRecord{
		Eval:              eval,
		Fitness:           fitness,
		MeanCleared:       meanCleared,
		MeanScore:         meanScore,
		MutationRate:      cfg.Evolution.MutationRate,
		MutationSigma:     cfg.Evolution.MutationSigma,
		ElitePoolFraction: cfg.Evolution.ElitePoolFraction,
		TournamentSize:    cfg.Evolution.TournamentSize,
		DiversityRate:     cfg.Evolution.DiversityRate,
		ElapsedSec:        elapsed.Seconds(),
	}
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	generations := flag.Int("generations", 30, "Generations evolved per run")
	generationCap := flag.Int64("generation-ticks", 5000, "Steps after which a generation is cut off (0 = keep config value)")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if *generations < 1 {
		log.Fatal("--generations must be at least 1")
	}

	// Create output directory
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// Load base config
	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()
	if *generationCap == 0 && baseCfg.Simulation.MaxGenerationTicks == 0 {
		log.Fatal("generations must be capped: set --generation-ticks or simulation.max_generation_ticks")
	}

	// Create parameter vector
	params := NewParamVector()

	// Generate seeds for evaluation
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	// Create fitness evaluator
	evaluator := NewFitnessEvaluator(params, *generations, *generationCap, evalSeeds, baseCfg)

	// Set up CMA-ES
	dim := params.Dim()
	initX := params.Normalize(params.DefaultVector())

	// Create optimization problem
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			// Denormalize to get raw parameter values
			raw := params.Denormalize(x)
			return evaluator.Evaluate(raw)
		},
	}

	// CMA-ES settings
	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation
	}

	// Population size
	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	// Open log file
	logPath := filepath.Join(*outputDir, "optimize_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()
	headerWritten := false

	// Track evaluations and timing
	evalCount := 0
	var bestFitness float64 = 1e9
	var bestParams []float64
	startTime := time.Now()

	// Wrap the function to log evaluations
	originalFunc := problem.Func
	problem.Func = func(x []float64) float64 {
		fitness := originalFunc(x)
		evalCount++

		// Denormalize and clamp to get actual parameter values
		raw := params.Denormalize(x)
		clamped := params.Clamp(raw)
		if fitness < bestFitness {
			bestFitness = fitness
			bestParams = make([]float64, len(clamped))
			copy(bestParams, clamped)
		}

		elapsed := time.Since(startTime)
		applied := baseCfg.Clone()
		params.ApplyToConfig(applied, clamped)
		rows := []evalRecord{newEvalRecord(evalCount, fitness,
			evaluator.LastMeanCleared(), evaluator.LastMeanScore(), applied, elapsed)}

		var writeErr error
		if !headerWritten {
			writeErr = gocsv.Marshal(&rows, logFile)
			headerWritten = true
		} else {
			writeErr = gocsv.MarshalWithoutHeaders(&rows, logFile)
		}
		if writeErr != nil {
			log.Printf("failed to write log row: %v", writeErr)
		}

		// Calculate timing
		avgPerEval := elapsed / time.Duration(evalCount)
		remaining := time.Duration(*maxEvals-evalCount) * avgPerEval

		fmt.Printf("Eval %d/%d: cleared=%.1f score=%.0f (best=%.2f) | elapsed: %s, ETA: %s\n",
			evalCount, *maxEvals, evaluator.LastMeanCleared(), evaluator.LastMeanScore(), -bestFitness,
			formatDuration(elapsed), formatDuration(remaining))

		return fitness
	}

	// Run optimization
	fmt.Printf("Starting CMA-ES optimization with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, generations per run: %d\n", *seeds, *generations)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	// Use best params found (may be from any evaluation, not just final)
	if bestParams == nil {
		if result == nil {
			log.Fatal("no evaluations completed")
		}
		bestParams = params.Clamp(params.Denormalize(result.X))
	}

	totalTime := time.Since(startTime)
	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(totalTime))
	fmt.Printf("Best mean cleared: %.2f\n", -bestFitness)

	// Print best parameters
	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Path, bestParams[i])
	}

	// Save best config
	bestCfg := baseCfg.Clone()
	params.ApplyToConfig(bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}
