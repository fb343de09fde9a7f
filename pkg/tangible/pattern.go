package tangible

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teslashibe/go-tangible/pkg/geometry"
)

// Measurement tolerances for pattern comparison.
const (
	// radiusTolerance is the largest circumradius difference of similar patterns.
	radiusTolerance = 6.0

	// angleTolerance is the largest interior angle difference in degrees.
	angleTolerance = 9.0
)

// Pattern is the geometric signature of three markers.
// The snapshots are translated so the circumcenter is at the origin and
// ordered with a consistent winding. A Pattern is immutable.
type Pattern struct {
	snapshots [3]MarkerSnapshot
}

// NewPattern builds a pattern from exactly three snapshots.
func NewPattern(snaps ...MarkerSnapshot) (*Pattern, error) {
	if len(snaps) != 3 {
		return nil, ErrMarkerCount
	}

	center, err := geometry.Circumcenter(snaps[0].Center, snaps[1].Center, snaps[2].Center)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDegenerate, err)
	}

	p := &Pattern{}
	for i, s := range snaps {
		p.snapshots[i] = MarkerSnapshot{
			Center: r2.Sub(s.Center, center),
			Radius: s.Radius,
			ID:     s.ID,
		}
	}

	v1 := geometry.Vector(snaps[1].Center, snaps[0].Center)
	v2 := geometry.Vector(snaps[1].Center, snaps[2].Center)
	if geometry.AngleBetween(v1, v2, false) < 0 {
		p.snapshots[0], p.snapshots[2] = p.snapshots[2], p.snapshots[0]
	}
	return p, nil
}

// NewPatternFromPoints builds a pattern from bare coordinates, assigning
// fresh identities. Used to whitelist shapes that are not on screen.
func NewPatternFromPoints(points [3]r2.Vec) (*Pattern, error) {
	return NewPattern(
		NewSnapshot(points[0], 0),
		NewSnapshot(points[1], 0),
		NewSnapshot(points[2], 0),
	)
}

// patternOf snapshots three live markers.
func patternOf(markers ...*Marker) (*Pattern, error) {
	snaps := make([]MarkerSnapshot, len(markers))
	for i, m := range markers {
		snaps[i] = m.Snapshot()
	}
	return NewPattern(snaps...)
}

// Snapshots returns the canonical snapshots.
func (p *Pattern) Snapshots() [3]MarkerSnapshot {
	return p.snapshots
}

// Snapshot returns the canonical snapshot with the given identity.
func (p *Pattern) Snapshot(id uuid.UUID) (MarkerSnapshot, bool) {
	for _, s := range p.snapshots {
		if s.ID == id {
			return s, true
		}
	}
	return MarkerSnapshot{}, false
}

// Radius returns the circumradius of the pattern.
func (p *Pattern) Radius() float64 {
	return r2.Norm(p.snapshots[0].Center)
}

// Vector returns the displacement between two snapshots in pattern space.
func (p *Pattern) Vector(from, to uuid.UUID) (r2.Vec, bool) {
	f, ok := p.Snapshot(from)
	if !ok {
		return r2.Vec{}, false
	}
	t, ok := p.Snapshot(to)
	if !ok {
		return r2.Vec{}, false
	}
	return geometry.Vector(f.Center, t.Center), true
}

// AngleAt returns the interior angle in radians (0..π) at the snapshot with
// the given identity, or +Inf when it cannot be resolved.
func (p *Pattern) AngleAt(id uuid.UUID) float64 {
	base, ok := p.Snapshot(id)
	if !ok {
		return math.Inf(1)
	}

	var neighbours []MarkerSnapshot
	for _, s := range p.snapshots {
		if s.ID != id {
			neighbours = append(neighbours, s)
		}
	}
	if len(neighbours) != 2 || neighbours[0].ID == neighbours[1].ID {
		return math.Inf(1)
	}

	v1 := geometry.Vector(base.Center, neighbours[0].Center)
	v2 := geometry.Vector(base.Center, neighbours[1].Center)
	return geometry.AngleBetween(v1, v2, true)
}

// Angles returns the interior angles in degrees in canonical order.
func (p *Pattern) Angles() [3]float64 {
	var out [3]float64
	for i, s := range p.snapshots {
		out[i] = geometry.Degrees(p.AngleAt(s.ID))
	}
	return out
}

// IsRadiusSimilar compares the pattern's circumradius with radius.
func (p *Pattern) IsRadiusSimilar(radius float64) bool {
	return math.Abs(p.Radius()-radius) < radiusTolerance
}

// IsAngleSimilar compares the interior angle at id with degrees.
// An unknown id is never similar.
func (p *Pattern) IsAngleSimilar(id uuid.UUID, degrees float64) bool {
	return math.Abs(geometry.Degrees(p.AngleAt(id))-degrees) < angleTolerance
}

// IsSimilar reports whether other describes the same physical triangle.
// Canonical winding fixes the direction of travel but not the starting
// vertex, so each of the three cyclic alignments is tried in turn.
func (p *Pattern) IsSimilar(other *Pattern) bool {
	if p == nil || other == nil {
		return false
	}
	if !p.IsRadiusSimilar(other.Radius()) {
		return false
	}

	own := p.snapshots
	for range own {
		similar := true
		for i := range own {
			theirs := other.snapshots[i]
			angle := geometry.Degrees(other.AngleAt(theirs.ID))
			if !p.IsAngleSimilar(own[i].ID, angle) {
				similar = false
				break
			}
		}
		if similar {
			return true
		}
		own = [3]MarkerSnapshot{own[1], own[2], own[0]}
	}
	return false
}

// Equal is IsSimilar; patterns carry measurement noise and have no exact equality.
func (p *Pattern) Equal(other *Pattern) bool {
	return p.IsSimilar(other)
}
