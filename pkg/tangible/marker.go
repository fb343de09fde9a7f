package tangible

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"
)

// minPlaceholderRadius keeps an ended marker large enough to be hit again
// when radius smoothing is disabled.
const minPlaceholderRadius = 20.0

// MarkerStatus receives marker activation changes.
type MarkerStatus interface {
	MarkerDidBecomeActive(m *Marker)
	MarkerDidBecomeInactive(m *Marker)
}

// Marker is a single tracked touch contact.
//
// A marker does not own the tangible or manager it reports to; both
// references are cleared by their owners when the marker is handed over.
// The tracked point of a tangible is also a Marker, which lets a tangible
// take a slot in an outer tangible.
type Marker struct {
	center         r2.Vec
	previousCenter r2.Vec
	radius         float64
	active         bool
	attached       bool

	useMean bool
	mean    MeanCalculator

	id uuid.UUID

	tangible  *Tangible
	manager   MarkerStatus
	composite *Tangible
}

// NewMarker creates an inactive marker. Radius smoothing is enabled.
func NewMarker(center r2.Vec, radius float64) *Marker {
	return &Marker{
		center:         center,
		previousCenter: center,
		radius:         radius,
		useMean:        true,
		id:             uuid.New(),
	}
}

// ID returns the stable identity carried by the marker's snapshots.
func (m *Marker) ID() uuid.UUID { return m.id }

// Center returns the current position.
func (m *Marker) Center() r2.Vec { return m.center }

// PreviousCenter returns the position before the last center change.
func (m *Marker) PreviousCenter() r2.Vec { return m.previousCenter }

// Radius returns the (smoothed) contact radius.
func (m *Marker) Radius() float64 { return m.radius }

// IsActive reports whether the marker currently receives touch updates.
func (m *Marker) IsActive() bool { return m.active }

// IsAttached reports whether the marker is present on the display surface.
func (m *Marker) IsAttached() bool { return m.attached }

// Tangible returns the tangible this marker belongs to, if any.
func (m *Marker) Tangible() *Tangible { return m.tangible }

// Composite returns the tangible this marker is the tracked point of, if any.
func (m *Marker) Composite() *Tangible { return m.composite }

// Manager returns the marker status receiver, if any.
func (m *Marker) Manager() MarkerStatus { return m.manager }

// Snapshot describes the marker as it is now.
func (m *Marker) Snapshot() MarkerSnapshot {
	return MarkerSnapshot{Center: m.center, Radius: m.radius, ID: m.id}
}

// IsSimilar reports whether two markers have similar radii.
func (m *Marker) IsSimilar(other *Marker) bool {
	return m.Snapshot().IsRadiusSimilar(other.Snapshot())
}

// SetManager registers the receiver of activation changes.
func (m *Marker) SetManager(manager MarkerStatus) {
	m.manager = manager
}

// SetAttached marks the marker as present on or removed from the display surface.
func (m *Marker) SetAttached(attached bool) {
	m.attached = attached
}

// SetUseMeanValues switches radius smoothing on or off.
func (m *Marker) SetUseMeanValues(use bool) {
	m.useMean = use
	if m.composite != nil {
		m.composite.setUseMeanValues(use)
	}
}

// SetActive changes the active flag without notifying anyone.
func (m *Marker) SetActive(active bool) {
	m.active = active
}

// SetCenter moves the marker, remembering the old position.
func (m *Marker) SetCenter(center r2.Vec) {
	m.previousCenter = m.center
	m.center = center
}

// SetRadius updates the radius, smoothed by the running mean when enabled.
func (m *Marker) SetRadius(radius float64) {
	if m.useMean {
		radius = m.mean.Add(radius)
	}
	m.radius = radius
}

func (m *Marker) update(point r2.Vec, radius float64) {
	m.SetRadius(radius)
	m.SetCenter(point)
}

// Began handles touch-down: the marker becomes active and its tangible and
// manager are told, in that order.
func (m *Marker) Began(point r2.Vec, radius float64) {
	m.update(point, radius)

	m.active = true
	if m.tangible != nil {
		m.tangible.MarkerDidBecomeActive(m)
	}
	if m.manager != nil {
		m.manager.MarkerDidBecomeActive(m)
	}
}

// Moved handles touch-move: only the owning tangible is told.
func (m *Marker) Moved(point r2.Vec, radius float64) {
	m.update(point, radius)

	if m.tangible != nil {
		m.tangible.MarkerMoved(m)
	}
}

// Ended handles touch-up: the marker becomes inactive and its tangible and
// manager are told, in that order.
func (m *Marker) Ended(point r2.Vec, radius float64) {
	m.update(point, radius)

	if !m.useMean && m.radius < minPlaceholderRadius {
		m.radius = minPlaceholderRadius
	}

	m.active = false
	if m.tangible != nil {
		m.tangible.MarkerDidBecomeInactive(m)
	}
	if m.manager != nil {
		m.manager.MarkerDidBecomeInactive(m)
	}
}

// Cancelled is treated as Ended.
func (m *Marker) Cancelled(point r2.Vec, radius float64) {
	m.Ended(point, radius)
}
