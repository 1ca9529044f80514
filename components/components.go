// Package components defines the entity types of the simulation: agents and obstacles.
// Behaviour that acts on them lives in the systems package.
package components

// DeathCause records why an agent stopped updating.
type DeathCause uint8

const (
	CauseNone     DeathCause = iota // Still alive
	CauseGround                     // Fell to the bottom of the playfield
	CauseCeiling                    // Flew off the top of the playfield
	CauseObstacle                   // Hit a barrier
	CauseTimeout                    // Still flying when the generation tick limit ran out
)

// String returns the display name for a DeathCause.
func (c DeathCause) String() string {
	names := DeathCauseNames()
	if int(c) < len(names) {
		return names[c]
	}
	return "unknown"
}

// DeathCauseNames returns the display names for all death causes.
// The order matches the DeathCause constants.
func DeathCauseNames() []string {
	return []string{"none", "ground", "ceiling", "obstacle", "timeout"}
}
