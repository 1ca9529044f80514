package game

// LogState logs a one-line summary of the current world state.
func (e *Engine) LogState() {
	e.logger.Info("state",
		"generation", e.generation,
		"tick", e.tick,
		"total_ticks", e.totalTicks,
		"alive", e.alive,
		"population", len(e.agents),
		"obstacles", len(e.obstacles),
		"course_index", e.spawner.Cursor(),
		"max_cleared", e.MaxCleared(),
		"best_score", e.bestScore,
		"best_cleared", e.bestCleared,
	)
}
