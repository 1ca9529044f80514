package game

import "github.com/pthm-cable/flapper/telemetry"

// recordGeneration stores, logs and writes the stats of a finished generation
// and handles bookmarks.
func (e *Engine) recordGeneration(stats telemetry.GenerationStats) {
	e.history.Append(stats)

	var perfStats telemetry.PerfStats
	if e.perf != nil {
		perfStats = e.perf.Stats()
	}

	// Call stats callback if provided
	if e.onGeneration != nil {
		e.onGeneration(stats)
	}

	// Log stats if enabled (console output)
	if e.logStats {
		stats.LogStats(e.logger)
		if e.perf != nil {
			perfStats.LogStats(e.logger)
		}
	}

	// Write to CSV if output manager is enabled
	if e.output != nil {
		if err := e.output.WriteGeneration(stats); err != nil {
			e.logger.Error("failed to write generation", "error", err)
		}
		if e.perf != nil {
			if err := e.output.WritePerf(perfStats, stats.Generation); err != nil {
				e.logger.Error("failed to write perf", "error", err)
			}
		}
	}

	// Check for bookmarks
	for _, bm := range e.bookmarks.Check(stats) {
		if e.logStats {
			bm.LogBookmark(e.logger)
		}
		if e.output != nil {
			if err := e.output.WriteBookmark(bm); err != nil {
				e.logger.Error("failed to write bookmark", "error", err)
			}
		}
	}
}
