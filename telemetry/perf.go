package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the simulation step.
const (
	PhaseObstacles = "obstacles" // advance, despawn, spawn
	PhaseAgents    = "agents"    // decide, integrate, collide, clear
	PhaseStats     = "stats"     // best-ever bookkeeping
)

// PerfSample holds timing data for a single step.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	tickStart     time.Time
	phaseStart    time.Time
	lastPhase     string

	// Breeding runs once per generation and is tracked outside the step window.
	evolveStart time.Time
	evolveLast  time.Duration
	evolveTotal time.Duration
	evolveCount int
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of steps to average over (e.g., 60 for one simulated second).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartTick begins timing a new simulation step.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	// End previous phase if any
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndTick finishes timing the current step and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	// End final phase
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	sample := PerfSample{
		TickDuration: now.Sub(p.tickStart),
		Phases:       p.currentPhases,
	}

	p.samples[p.writeIndex] = sample
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// StartEvolve begins timing a breeding pass.
func (p *PerfCollector) StartEvolve() {
	p.evolveStart = time.Now()
}

// EndEvolve finishes timing the current breeding pass.
func (p *PerfCollector) EndEvolve() {
	p.evolveLast = time.Since(p.evolveStart)
	p.evolveTotal += p.evolveLast
	p.evolveCount++
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Step timing
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total step time
	PhasePct map[string]float64

	// Throughput
	TicksPerSecond float64

	// Breeding timing
	LastEvolveDuration time.Duration
	AvgEvolveDuration  time.Duration
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	// Breeding timing is always available (independent of step samples)
	var avgEvolve time.Duration
	if p.evolveCount > 0 {
		avgEvolve = p.evolveTotal / time.Duration(p.evolveCount)
	}

	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg:           make(map[string]time.Duration),
			PhasePct:           make(map[string]float64),
			LastEvolveDuration: p.evolveLast,
			AvgEvolveDuration:  avgEvolve,
		}
	}

	var totalTick time.Duration
	var minTick, maxTick time.Duration
	phaseSum := make(map[string]time.Duration)

	// Iterate over valid samples
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		totalTick += s.TickDuration

		if i == 0 || s.TickDuration < minTick {
			minTick = s.TickDuration
		}
		if s.TickDuration > maxTick {
			maxTick = s.TickDuration
		}

		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avgTick := totalTick / time.Duration(p.sampleCount)

	// Calculate phase averages and percentages
	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avgTick > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avgTick) * 100
		}
	}

	// Calculate throughput
	var ticksPerSec float64
	if avgTick > 0 {
		ticksPerSec = float64(time.Second) / float64(avgTick)
	}

	return PerfStats{
		AvgTickDuration:    avgTick,
		MinTickDuration:    minTick,
		MaxTickDuration:    maxTick,
		PhaseAvg:           phaseAvg,
		PhasePct:           phasePct,
		TicksPerSecond:     ticksPerSec,
		LastEvolveDuration: p.evolveLast,
		AvgEvolveDuration:  avgEvolve,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats(logger *slog.Logger) {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}

	if s.AvgEvolveDuration > 0 {
		attrs = append(attrs, "avg_evolve_us", s.AvgEvolveDuration.Microseconds())
	}

	for _, phase := range []string{PhaseObstacles, PhaseAgents, PhaseStats} {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}

	logger.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}

	if s.AvgEvolveDuration > 0 {
		attrs = append(attrs, slog.Int64("avg_evolve_us", s.AvgEvolveDuration.Microseconds()))
	}

	for phase, pct := range s.PhasePct {
		attrs = append(attrs, slog.Float64(phase+"_pct", pct))
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Generation   int     `csv:"generation"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	EvolveUS     int64   `csv:"evolve_us"`
	ObstaclesPct float64 `csv:"obstacles_pct"`
	AgentsPct    float64 `csv:"agents_pct"`
	StatsPct     float64 `csv:"stats_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(generation int) PerfStatsCSV {
	return PerfStatsCSV{
		Generation:   generation,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		EvolveUS:     s.LastEvolveDuration.Microseconds(),
		ObstaclesPct: s.PhasePct[PhaseObstacles],
		AgentsPct:    s.PhasePct[PhaseAgents],
		StatsPct:     s.PhasePct[PhaseStats],
	}
}
