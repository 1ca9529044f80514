package telemetry

import "github.com/pthm-cable/flapper/components"

// Collector accumulates events within one generation and produces GenerationStats.
type Collector struct {
	ticks   int64
	updates int64

	flaps  int
	clears int
	deaths [len(causeSlots)]int
}

// causeSlots lists the death causes counted by the collector.
var causeSlots = [...]components.DeathCause{
	components.CauseGround,
	components.CauseCeiling,
	components.CauseObstacle,
	components.CauseTimeout,
}

// NewCollector creates a new stats collector.
func NewCollector() *Collector {
	return &Collector{}
}

// RecordTick records one step that updated agents.
func (c *Collector) RecordTick() {
	c.ticks++
}

// RecordUpdate records one pass of the agent update loop.
func (c *Collector) RecordUpdate() {
	c.updates++
}

// RecordFlap records a flap.
func (c *Collector) RecordFlap() {
	c.flaps++
}

// RecordClear records an agent being credited for an obstacle.
func (c *Collector) RecordClear() {
	c.clears++
}

// RecordDeath records a death event.
func (c *Collector) RecordDeath(cause components.DeathCause) {
	for i, slot := range causeSlots {
		if slot == cause {
			c.deaths[i]++
			return
		}
	}
}

// Ticks returns the number of external steps in the current generation.
func (c *Collector) Ticks() int64 {
	return c.ticks
}

// Updates returns the number of agent update passes in the current generation.
func (c *Collector) Updates() int64 {
	return c.updates
}

// Flush produces stats for the finished generation and resets counters.
// ranked must be sorted by descending fitness with Fitness set.
func (c *Collector) Flush(generation int, ranked []*components.Agent) GenerationStats {
	stats := ComputeGenerationStats(generation, ranked)
	stats.Ticks = c.ticks
	stats.Flaps = c.flaps
	stats.Clears = c.clears
	stats.DeathsGround = c.deaths[0]
	stats.DeathsCeiling = c.deaths[1]
	stats.DeathsObstacle = c.deaths[2]
	stats.DeathsTimeout = c.deaths[3]

	c.Reset()
	return stats
}

// Reset clears all counters.
func (c *Collector) Reset() {
	*c = Collector{}
}
