// Package surface adapts raw touch streams to tangible markers.
//
// A Surface maps touch ids to markers, hit-tests new touches against the
// markers it still shows and delivers every transition to the manager under
// one lock. It plays the role of the display view that owns the markers.
package surface

import (
	"log/slog"
	"sync"

	"github.com/teslashibe/go-tangible/pkg/geometry"
	"github.com/teslashibe/go-tangible/pkg/tangible"
	"gonum.org/v1/gonum/spatial/r2"
)

// Surface serializes touch delivery to a manager.
type Surface struct {
	mu      sync.Mutex
	manager *tangible.Manager
	logger  *slog.Logger

	touches map[string]*tangible.Marker
	// markers still shown, oldest first
	shown []*tangible.Marker
}

// New creates a surface feeding manager.
func New(manager *tangible.Manager, logger *slog.Logger) *Surface {
	if logger == nil {
		logger = slog.Default()
	}
	return &Surface{
		manager: manager,
		logger:  logger.With("component", "surface"),
		touches: make(map[string]*tangible.Marker),
	}
}

// Began starts a touch. A detached-but-shown inactive marker under the point
// is reused so its tangible can recover it; otherwise a new marker is
// created and bound to the manager.
func (s *Surface) Began(touchID string, p r2.Vec, radius float64) (*tangible.Marker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.touches[touchID]; ok {
		return nil, ErrTouchInUse
	}

	s.prune()
	m := s.hitTest(p)
	if m == nil {
		m = tangible.NewMarker(p, radius)
		m.SetManager(s.manager)
		m.SetAttached(true)
		s.shown = append(s.shown, m)
		s.logger.Debug("marker created", "touch", touchID, "marker", m.ID())
	} else {
		s.logger.Debug("marker reused", "touch", touchID, "marker", m.ID())
	}

	s.touches[touchID] = m
	m.Began(p, radius)
	return m, nil
}

// Moved moves the marker bound to touchID.
func (s *Surface) Moved(touchID string, p r2.Vec, radius float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.touches[touchID]
	if !ok {
		return ErrUnknownTouch
	}
	m.Moved(p, radius)
	return nil
}

// Ended lifts touchID.
func (s *Surface) Ended(touchID string, p r2.Vec, radius float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.touches[touchID]
	if !ok {
		return ErrUnknownTouch
	}
	delete(s.touches, touchID)
	m.Ended(p, radius)
	s.prune()
	return nil
}

// Cancelled is treated as Ended.
func (s *Surface) Cancelled(touchID string, p r2.Vec, radius float64) error {
	return s.Ended(touchID, p, radius)
}

// Do runs fn with exclusive access to the manager.
func (s *Surface) Do(fn func(m *tangible.Manager)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.manager)
}

// Touches returns the number of live touches.
func (s *Surface) Touches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.touches)
}

// Shown returns the number of markers still on the surface.
func (s *Surface) Shown() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	return len(s.shown)
}

// hitTest returns the most recent inactive attached marker whose frame
// contains p.
func (s *Surface) hitTest(p r2.Vec) *tangible.Marker {
	for i := len(s.shown) - 1; i >= 0; i-- {
		m := s.shown[i]
		if m.IsActive() || !m.IsAttached() {
			continue
		}
		if geometry.Contains(geometry.Square(m.Center(), m.Radius()), p) {
			return m
		}
	}
	return nil
}

// prune drops markers that were taken off the surface.
func (s *Surface) prune() {
	kept := s.shown[:0]
	for _, m := range s.shown {
		if m.IsAttached() {
			kept = append(kept, m)
		}
	}
	for i := len(kept); i < len(s.shown); i++ {
		s.shown[i] = nil
	}
	s.shown = kept
}
