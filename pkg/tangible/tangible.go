package tangible

import (
	"math"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teslashibe/go-tangible/pkg/geometry"
)

// MarkersPerTangible is the fixed number of markers of a tangible.
const MarkersPerTangible = 3

// TangibleStatus receives tangible lifecycle changes from the tangibles it composed.
type TangibleStatus interface {
	TangibleDidBecomeActive(t *Tangible)
	TangibleDidBecomeInactive(t *Tangible)
	TangibleLostMarker(t *Tangible, m *Marker)
	TangibleRecoveredMarker(t *Tangible, m *Marker)
}

// identifierLookup is implemented by status receivers that own a whitelist.
type identifierLookup interface {
	IdentifierFor(p *Pattern) (string, bool)
}

// Tangible is a physical object recognized from three markers.
//
// Its own position is kept in a tracked point (see AsMarker). That point is
// an ordinary Marker, so a tangible can fill a slot of an outer tangible.
type Tangible struct {
	point   *Marker
	markers [MarkersPerTangible]*Marker
	pattern *Pattern

	// circumcenter to markers[0] at creation
	initialCenterToMarker0 r2.Vec

	manager TangibleStatus
	sink    EventSink
}

// NewTangible composes a tangible from exactly three markers and takes
// ownership of them. ErrMarkerCount and ErrDegenerate are returned for
// unusable input.
func NewTangible(markers []*Marker) (*Tangible, error) {
	if len(markers) != MarkersPerTangible {
		return nil, ErrMarkerCount
	}

	pattern, err := patternOf(markers...)
	if err != nil {
		return nil, err
	}
	center, err := geometry.Circumcenter(markers[0].center, markers[1].center, markers[2].center)
	if err != nil {
		return nil, ErrDegenerate
	}

	toFirst := geometry.Vector(center, markers[0].center)
	t := &Tangible{
		pattern:                pattern,
		initialCenterToMarker0: toFirst,
		sink:                   NopSink{},
	}
	copy(t.markers[:], markers)

	t.point = NewMarker(center, r2.Norm(toFirst))
	t.point.useMean = false
	t.point.composite = t
	t.point.attached = markers[0].attached

	for _, m := range t.markers {
		m.tangible = t
		t.point.active = t.point.active || m.active
	}
	return t, nil
}

// AsMarker returns the tracked point of the tangible.
func (t *Tangible) AsMarker() *Marker { return t.point }

// ID returns the identity of the tracked point.
func (t *Tangible) ID() uuid.UUID { return t.point.id }

// Center returns the circumcenter of the markers.
func (t *Tangible) Center() r2.Vec { return t.point.center }

// PreviousCenter returns the center before the last move.
func (t *Tangible) PreviousCenter() r2.Vec { return t.point.previousCenter }

// Radius returns the distance from the center to the last moved marker.
func (t *Tangible) Radius() float64 { return t.point.radius }

// IsActive reports whether at least one marker is active.
func (t *Tangible) IsActive() bool { return t.point.active }

// IsAttached reports whether the tangible is present on the display surface.
func (t *Tangible) IsAttached() bool { return t.point.attached }

// Pattern returns the current pattern.
func (t *Tangible) Pattern() *Pattern { return t.pattern }

// Markers returns the markers in slot order.
func (t *Tangible) Markers() []*Marker {
	out := make([]*Marker, len(t.markers))
	copy(out, t.markers[:])
	return out
}

// ActiveMarkers returns the active markers in slot order.
func (t *Tangible) ActiveMarkers() []*Marker {
	return t.filter(true)
}

// InactiveMarkers returns the inactive markers in slot order.
func (t *Tangible) InactiveMarkers() []*Marker {
	return t.filter(false)
}

func (t *Tangible) filter(active bool) []*Marker {
	var out []*Marker
	for _, m := range t.markers {
		if m.active == active {
			out = append(out, m)
		}
	}
	return out
}

// Contains reports whether m fills one of the slots.
func (t *Tangible) Contains(m *Marker) bool {
	return t.slotOf(m) >= 0
}

func (t *Tangible) slotOf(m *Marker) int {
	for i, s := range t.markers {
		if s == m {
			return i
		}
	}
	return -1
}

// Frame returns the square the tangible occupies on the surface.
func (t *Tangible) Frame() r2.Box {
	return geometry.Square(t.point.center, t.point.radius)
}

// IsSimilar compares the patterns of two tangibles.
func (t *Tangible) IsSimilar(other *Tangible) bool {
	return t.pattern.IsSimilar(other.pattern)
}

func (t *Tangible) setUseMeanValues(use bool) {
	for _, m := range t.markers {
		m.SetUseMeanValues(use)
	}
}

// InitialOrientationVector returns Up rotated by how far the tangible has
// turned since it was composed.
func (t *Tangible) InitialOrientationVector() r2.Vec {
	current := geometry.Vector(t.point.center, t.markers[0].center)
	angle := geometry.Degrees(geometry.AngleBetween(t.initialCenterToMarker0, current, false))
	return geometry.RotateVector(geometry.Up, angle)
}

// OrientationVector returns the unit vector from the center to the marker with
// a distinguishable angle. ok is false for shapes without such a marker.
func (t *Tangible) OrientationVector() (v r2.Vec, ok bool) {
	m := t.MarkerWithAngleSimilarToNone()
	if m == nil {
		return r2.Vec{}, false
	}
	return geometry.Normalize(geometry.Vector(t.point.center, m.center)), true
}

// PatternIdentifier returns the whitelist identifier of a pattern similar to
// this tangible's, when its manager keeps a whitelist.
func (t *Tangible) PatternIdentifier() (string, bool) {
	lookup, ok := t.manager.(identifierLookup)
	if !ok {
		return "", false
	}
	return lookup.IdentifierFor(t.pattern)
}

// MarkerWithAngleSimilarToNone returns the first marker whose interior angle
// is not similar to the angle at either other marker, or nil.
func (t *Tangible) MarkerWithAngleSimilarToNone() *Marker {
	for _, m := range t.markers {
		angle := geometry.Degrees(t.pattern.AngleAt(m.id))
		distinct := true
		for _, other := range t.markers {
			if other == m {
				continue
			}
			if t.pattern.IsAngleSimilar(other.id, angle) {
				distinct = false
				break
			}
		}
		if distinct {
			return m
		}
	}
	return nil
}

// ReplaceInactiveMarker tries to put m in the slot of an inactive marker.
// On success m inherits the identity and position history of the marker it
// replaces, and the tangible treats m as recovered.
func (t *Tangible) ReplaceInactiveMarker(m *Marker) bool {
	target := t.replacementFor(m)
	if target == nil {
		return false
	}

	slot := t.slotOf(target)
	t.markers[slot] = m
	target.attached = false
	target.tangible = nil

	m.previousCenter = target.center
	m.id = target.id

	t.MarkerDidBecomeActive(m)
	m.tangible = t
	return true
}

func (t *Tangible) replacementFor(m *Marker) *Marker {
	active := t.ActiveMarkers()
	inactive := t.InactiveMarkers()

	switch len(active) {
	case 1:
		anchor := active[0]
		toNew := geometry.Distance(anchor.center, m.center)

		var best *Marker
		bestDistance := math.Inf(1)
		for _, candidate := range inactive {
			recorded, ok := t.pattern.Vector(anchor.id, candidate.id)
			if !ok {
				continue
			}
			snap, _ := t.pattern.Snapshot(candidate.id)
			if math.Abs(toNew-r2.Norm(recorded)) >= snap.Radius {
				continue
			}
			if d := geometry.Distance(candidate.center, m.center); d < bestDistance {
				best, bestDistance = candidate, d
			}
		}
		return best

	case 2:
		candidate, err := patternOf(active[0], active[1], m)
		if err != nil {
			return nil
		}
		if t.pattern.IsSimilar(candidate) {
			return inactive[0]
		}
	}
	return nil
}

// MarkerMoved recomputes the geometry after m moved.
func (t *Tangible) MarkerMoved(m *Marker) {
	inactive := t.InactiveMarkers()

	switch len(inactive) {
	case 2:
		// rigid translation; the shape is unchanged
		translate := r2.Sub(m.center, m.previousCenter)
		for _, im := range inactive {
			im.SetCenter(r2.Add(im.center, translate))
		}
		t.point.SetCenter(r2.Add(t.point.center, translate))

	case 1:
		lost := inactive[0]
		other := t.otherActive(m, lost)
		if other == nil {
			return
		}

		c1, c2 := geometry.CircleCenters(m.center, other.center, t.point.radius)
		center := geometry.Closest(t.point.center, c1, c2)

		recordedActive, ok := t.pattern.Vector(other.id, m.id)
		if !ok {
			return
		}
		currentActive := geometry.Vector(other.center, m.center)
		angle := geometry.Degrees(geometry.AngleBetween(recordedActive, currentActive, false))

		recordedLost, ok := t.pattern.Vector(m.id, lost.id)
		if !ok {
			return
		}
		estimate := r2.Add(m.center, geometry.RotateVector(recordedLost, angle))

		t.point.SetCenter(center)
		lost.SetCenter(geometry.ClosestOnCircle(center, t.point.radius, estimate))

	default:
		center, err := geometry.Circumcenter(t.markers[0].center, t.markers[1].center, t.markers[2].center)
		if err != nil {
			// collinear for now; keep the last good center
			center = t.point.center
		}
		t.point.SetCenter(center)
	}

	t.point.radius = geometry.Distance(t.point.center, m.center)

	if t.point.center != t.point.previousCenter {
		t.sink.TangibleMoved(t)
		if outer := t.point.tangible; outer != nil {
			outer.MarkerMoved(t.point)
		}
	}
}

func (t *Tangible) otherActive(moved, lost *Marker) *Marker {
	for _, s := range t.markers {
		if s != moved && s != lost {
			return s
		}
	}
	return nil
}

// MarkerDidBecomeActive re-derives the geometry with m and wakes the tangible
// up if it was inactive. A recovered-marker notification is always sent.
func (t *Tangible) MarkerDidBecomeActive(m *Marker) {
	t.MarkerMoved(m)

	if !t.point.active && len(t.InactiveMarkers()) != len(t.markers) {
		t.point.active = true
		t.point.attached = true
		if t.manager != nil {
			t.manager.TangibleDidBecomeActive(t)
		}
		t.sink.TangibleDidBecomeActive(t)

		if outer := t.point.tangible; outer != nil {
			outer.MarkerDidBecomeActive(t.point)
		}
		if mgr := t.point.manager; mgr != nil {
			mgr.MarkerDidBecomeActive(t.point)
		}
	}

	if t.manager != nil {
		t.manager.TangibleRecoveredMarker(t, m)
	}
	t.sink.TangibleRecoveredMarker(t, m)
}

// MarkerDidBecomeInactive records the loss of m. The pattern is rebuilt
// from the live positions when exactly one marker is inactive, and the
// tangible goes inactive once every marker is.
func (t *Tangible) MarkerDidBecomeInactive(m *Marker) {
	inactive := t.InactiveMarkers()
	if len(inactive) == 1 {
		if p, err := patternOf(t.markers[:]...); err == nil {
			t.pattern = p
		}
	}

	if t.manager != nil {
		t.manager.TangibleLostMarker(t, m)
	}
	t.sink.TangibleLostMarker(t, m)

	if len(inactive) != len(t.markers) {
		return
	}

	t.point.active = false
	t.point.attached = false
	for _, s := range t.markers {
		s.attached = false
	}
	if t.manager != nil {
		t.manager.TangibleDidBecomeInactive(t)
	}
	t.sink.TangibleDidBecomeInactive(t)

	if mgr := t.point.manager; mgr != nil {
		mgr.MarkerDidBecomeInactive(t.point)
	}
	if outer := t.point.tangible; outer != nil {
		outer.MarkerDidBecomeInactive(t.point)
	}
}
