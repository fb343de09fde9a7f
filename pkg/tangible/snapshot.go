package tangible

import (
	"math"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"
)

// snapshotRadiusTolerance is the largest radius difference of similar snapshots.
const snapshotRadiusTolerance = 9.0

// MarkerSnapshot records a marker's center and radius together with the
// identity that follows the physical marker across replacements.
type MarkerSnapshot struct {
	Center r2.Vec
	Radius float64
	ID     uuid.UUID
}

// NewSnapshot creates a snapshot with a fresh identity.
func NewSnapshot(center r2.Vec, radius float64) MarkerSnapshot {
	return MarkerSnapshot{Center: center, Radius: radius, ID: uuid.New()}
}

// IsRadiusSimilar reports whether both radii are within measurement tolerance.
func (s MarkerSnapshot) IsRadiusSimilar(other MarkerSnapshot) bool {
	return math.Abs(s.Radius-other.Radius) < snapshotRadiusTolerance
}
