package tangible

import (
	"log/slog"

	"github.com/teslashibe/go-tangible/pkg/geometry"
)

// State is the collection a tangible is filed under.
type State int

const (
	// StateNone means the tangible is not tracked (never composed or inactive).
	StateNone State = iota
	StateComplete
	StateIncomplete
	StateBlocked
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateComplete:
		return "complete"
	case StateIncomplete:
		return "incomplete"
	case StateBlocked:
		return "blocked"
	default:
		return "none"
	}
}

// WhitelistEntry is a named pattern.
type WhitelistEntry struct {
	Identifier string
	Pattern    *Pattern
}

// Stats summarizes the manager collections.
type Stats struct {
	Unassigned  int `json:"unassigned"`
	Complete    int `json:"complete"`
	Incomplete  int `json:"incomplete"`
	Blocked     int `json:"blocked"`
	Whitelisted int `json:"whitelisted"`
}

// Manager routes markers into tangibles. It owns the pool of unassigned
// markers, the tangible collections and the whitelist.
//
// A Manager is not safe for concurrent use; deliver touch events from one
// goroutine or serialize them (see package surface).
type Manager struct {
	config *Config
	logger *slog.Logger
	sink   EventSink

	unassigned orderedSet[*Marker]
	complete   orderedSet[*Tangible]
	incomplete orderedSet[*Tangible]
	blocked    orderedSet[*Tangible]

	whitelist []WhitelistEntry
}

// NewManager creates a manager with the given options.
func NewManager(opts ...Option) (*Manager, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sink := cfg.Sink
	if sink == nil {
		sink = NopSink{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		config: cfg,
		logger: logger.With("component", "tangible"),
		sink:   sink,
	}, nil
}

// Config returns the manager policy.
func (m *Manager) Config() Config {
	return *m.config
}

// Whitelist registers pattern under identifier. The insert is refused when
// the identifier is taken or a similar pattern is already registered.
func (m *Manager) Whitelist(pattern *Pattern, identifier string) error {
	if identifier == "" {
		return &WhitelistError{Identifier: identifier, Err: ErrEmptyIdentifier}
	}
	if pattern == nil {
		return &WhitelistError{Identifier: identifier, Err: ErrMarkerCount}
	}
	for _, e := range m.whitelist {
		if e.Identifier == identifier {
			return &WhitelistError{Identifier: identifier, Err: ErrIdentifierInUse}
		}
		if pattern.IsSimilar(e.Pattern) {
			return &WhitelistError{Identifier: identifier, Err: ErrPatternWhitelisted}
		}
	}

	m.whitelist = append(m.whitelist, WhitelistEntry{Identifier: identifier, Pattern: pattern})
	m.logger.Debug("pattern whitelisted", "identifier", identifier, "radius", pattern.Radius())
	return nil
}

// Patterns returns the whitelist in insertion order.
func (m *Manager) Patterns() []WhitelistEntry {
	out := make([]WhitelistEntry, len(m.whitelist))
	copy(out, m.whitelist)
	return out
}

// IdentifierFor returns the identifier of the first whitelisted pattern
// similar to p.
func (m *Manager) IdentifierFor(p *Pattern) (string, bool) {
	for _, e := range m.whitelist {
		if p.IsSimilar(e.Pattern) {
			return e.Identifier, true
		}
	}
	return "", false
}

// IsPatternAllowed reports whether the whitelist admits p.
func (m *Manager) IsPatternAllowed(p *Pattern) bool {
	if m.config.PatternWhitelistDisabled {
		return true
	}
	_, ok := m.IdentifierFor(p)
	return ok
}

// IsSimilarToActive reports whether p is similar to the pattern of a complete
// or incomplete tangible.
func (m *Manager) IsSimilarToActive(p *Pattern) bool {
	for _, t := range m.complete.items {
		if t.pattern.IsSimilar(p) {
			return true
		}
	}
	for _, t := range m.incomplete.items {
		if t.pattern.IsSimilar(p) {
			return true
		}
	}
	return false
}

// WillAccept applies the accept policy to p.
func (m *Manager) WillAccept(p *Pattern) bool {
	if !m.IsPatternAllowed(p) {
		return false
	}
	switch m.config.AcceptPolicy {
	case AcceptUnique:
		return m.config.SimilarPatternsAllowed || !m.IsSimilarToActive(p)
	default:
		return m.IsSimilarToActive(p)
	}
}

// Compose builds a tangible from exactly three markers. A pattern refused by
// WillAccept still yields a tangible, filed as blocked and never reported to
// the event sink. Errors leave every collection untouched.
func (m *Manager) Compose(markers []*Marker) (*Tangible, error) {
	if len(markers) != MarkersPerTangible {
		return nil, ErrMarkerCount
	}
	t, err := NewTangible(markers)
	if err != nil {
		return nil, err
	}
	t.manager = m
	pattern := t.pattern

	if !m.WillAccept(pattern) {
		m.blocked.Add(t)
		m.logger.Debug("tangible blocked", "tangible", t.ID(), "radius", pattern.Radius())
		return t, nil
	}

	t.sink = m.sink
	if len(t.InactiveMarkers()) == 0 {
		m.complete.Add(t)
	} else {
		m.incomplete.Add(t)
	}
	m.logger.Debug("tangible composed", "tangible", t.ID(), "radius", pattern.Radius())
	m.sink.TangibleDidBecomeActive(t)
	return t, nil
}

// CompleteWith offers marker to the incomplete tangibles in order and
// returns the first one that took it.
func (m *Manager) CompleteWith(marker *Marker) *Tangible {
	for _, t := range m.incomplete.Items() {
		if t.ReplaceInactiveMarker(marker) {
			return t
		}
	}
	return nil
}

// MarkerDidBecomeActive routes a new marker: it completes an incomplete
// tangible, is ignored inside an incomplete or blocked tangible, composes a
// new tangible with two unassigned markers, or joins the unassigned pool.
func (m *Manager) MarkerDidBecomeActive(marker *Marker) {
	m.sink.MarkerDidBecomeActive(marker)

	if t := m.CompleteWith(marker); t != nil {
		marker.manager = nil
		m.logger.Debug("marker replaced inactive marker", "marker", marker.ID(), "tangible", t.ID())
		return
	}

	if m.insideTrackedTangible(marker) {
		m.logger.Debug("marker ignored inside tangible", "marker", marker.ID())
		return
	}

	if m.unassigned.Len() >= MarkersPerTangible-1 {
		combos := NewCombinations(marker, m.unassigned.Items(), MarkersPerTangible)
		for group, ok := combos.Next(); ok; group, ok = combos.Next() {
			if _, err := m.Compose(group); err != nil {
				continue
			}
			for _, g := range group {
				m.unassigned.Remove(g)
				g.manager = nil
			}
			return
		}
	}

	m.unassigned.Add(marker)
}

func (m *Manager) insideTrackedTangible(marker *Marker) bool {
	for _, set := range []*orderedSet[*Tangible]{&m.incomplete, &m.blocked} {
		for _, t := range set.items {
			if geometry.Contains(t.Frame(), marker.center) {
				return true
			}
		}
	}
	return false
}

// MarkerDidBecomeInactive drops marker from the pool and the surface.
func (m *Manager) MarkerDidBecomeInactive(marker *Marker) {
	m.unassigned.Remove(marker)
	marker.attached = false
	m.sink.MarkerDidBecomeInactive(marker)
}

// TangibleDidBecomeActive files t as complete or incomplete. Blocked
// tangibles stay blocked.
func (m *Manager) TangibleDidBecomeActive(t *Tangible) {
	if m.blocked.Has(t) {
		return
	}
	if len(t.InactiveMarkers()) == 0 {
		m.incomplete.Remove(t)
		m.complete.Add(t)
	} else {
		m.complete.Remove(t)
		m.incomplete.Add(t)
	}
}

// TangibleDidBecomeInactive forgets t.
func (m *Manager) TangibleDidBecomeInactive(t *Tangible) {
	m.complete.Remove(t)
	m.incomplete.Remove(t)
	m.blocked.Remove(t)
}

// TangibleLostMarker moves t to the incomplete collection.
func (m *Manager) TangibleLostMarker(t *Tangible, _ *Marker) {
	if m.blocked.Has(t) {
		return
	}
	m.complete.Remove(t)
	m.incomplete.Add(t)
}

// TangibleRecoveredMarker moves t to the complete collection once no marker
// is missing.
func (m *Manager) TangibleRecoveredMarker(t *Tangible, _ *Marker) {
	if m.blocked.Has(t) {
		return
	}
	if len(t.InactiveMarkers()) == 0 {
		m.incomplete.Remove(t)
		m.complete.Add(t)
	}
}

// Unassigned returns the markers not owned by any tangible.
func (m *Manager) Unassigned() []*Marker { return m.unassigned.Items() }

// CompleteTangibles returns tangibles with every marker active.
func (m *Manager) CompleteTangibles() []*Tangible { return m.complete.Items() }

// IncompleteTangibles returns tangibles missing at least one marker.
func (m *Manager) IncompleteTangibles() []*Tangible { return m.incomplete.Items() }

// BlockedTangibles returns tangibles refused by the accept policy.
func (m *Manager) BlockedTangibles() []*Tangible { return m.blocked.Items() }

// StateOf returns the collection t is filed under.
func (m *Manager) StateOf(t *Tangible) State {
	switch {
	case m.complete.Has(t):
		return StateComplete
	case m.incomplete.Has(t):
		return StateIncomplete
	case m.blocked.Has(t):
		return StateBlocked
	default:
		return StateNone
	}
}

// Stats returns the collection sizes.
func (m *Manager) Stats() Stats {
	return Stats{
		Unassigned:  m.unassigned.Len(),
		Complete:    m.complete.Len(),
		Incomplete:  m.incomplete.Len(),
		Blocked:     m.blocked.Len(),
		Whitelisted: len(m.whitelist),
	}
}
