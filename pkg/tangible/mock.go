package tangible

import "sync"

// Event names recorded by Recorder.
const (
	EventMarkerActive      = "marker_active"
	EventMarkerInactive    = "marker_inactive"
	EventTangibleActive    = "tangible_active"
	EventTangibleInactive  = "tangible_inactive"
	EventTangibleMoved     = "tangible_moved"
	EventTangibleLost      = "tangible_lost"
	EventTangibleRecovered = "tangible_recovered"
)

// RecordedEvent is one event captured by Recorder.
type RecordedEvent struct {
	Name     string
	Tangible *Tangible
	Marker   *Marker
}

// Recorder implements EventSink for testing by recording every call.
type Recorder struct {
	mu     sync.Mutex
	events []RecordedEvent
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(name string, t *Tangible, m *Marker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, RecordedEvent{Name: name, Tangible: t, Marker: m})
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []RecordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RecordedEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Count returns how many events with the given name were recorded.
func (r *Recorder) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Name == name {
			n++
		}
	}
	return n
}

// Reset clears the recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func (r *Recorder) MarkerDidBecomeActive(m *Marker)   { r.record(EventMarkerActive, nil, m) }
func (r *Recorder) MarkerDidBecomeInactive(m *Marker) { r.record(EventMarkerInactive, nil, m) }
func (r *Recorder) TangibleDidBecomeActive(t *Tangible) {
	r.record(EventTangibleActive, t, nil)
}
func (r *Recorder) TangibleDidBecomeInactive(t *Tangible) {
	r.record(EventTangibleInactive, t, nil)
}
func (r *Recorder) TangibleMoved(t *Tangible) { r.record(EventTangibleMoved, t, nil) }
func (r *Recorder) TangibleLostMarker(t *Tangible, m *Marker) {
	r.record(EventTangibleLost, t, m)
}
func (r *Recorder) TangibleRecoveredMarker(t *Tangible, m *Marker) {
	r.record(EventTangibleRecovered, t, m)
}
