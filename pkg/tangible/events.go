package tangible

// EventSink receives marker and tangible lifecycle events.
// Calls are synchronous and happen on the goroutine that delivered the touch.
type EventSink interface {
	MarkerDidBecomeActive(m *Marker)
	MarkerDidBecomeInactive(m *Marker)

	TangibleDidBecomeActive(t *Tangible)
	TangibleDidBecomeInactive(t *Tangible)
	TangibleMoved(t *Tangible)
	TangibleLostMarker(t *Tangible, m *Marker)
	TangibleRecoveredMarker(t *Tangible, m *Marker)
}

// NopSink ignores every event. Embed it to implement a subset of EventSink.
type NopSink struct{}

func (NopSink) MarkerDidBecomeActive(*Marker)              {}
func (NopSink) MarkerDidBecomeInactive(*Marker)            {}
func (NopSink) TangibleDidBecomeActive(*Tangible)          {}
func (NopSink) TangibleDidBecomeInactive(*Tangible)        {}
func (NopSink) TangibleMoved(*Tangible)                    {}
func (NopSink) TangibleLostMarker(*Tangible, *Marker)      {}
func (NopSink) TangibleRecoveredMarker(*Tangible, *Marker) {}

// SinkFuncs adapts a set of optional callbacks to EventSink.
// Nil callbacks are skipped.
type SinkFuncs struct {
	OnMarkerActive      func(m *Marker)
	OnMarkerInactive    func(m *Marker)
	OnTangibleActive    func(t *Tangible)
	OnTangibleInactive  func(t *Tangible)
	OnTangibleMoved     func(t *Tangible)
	OnTangibleLost      func(t *Tangible, m *Marker)
	OnTangibleRecovered func(t *Tangible, m *Marker)
}

func (s SinkFuncs) MarkerDidBecomeActive(m *Marker) {
	if s.OnMarkerActive != nil {
		s.OnMarkerActive(m)
	}
}

func (s SinkFuncs) MarkerDidBecomeInactive(m *Marker) {
	if s.OnMarkerInactive != nil {
		s.OnMarkerInactive(m)
	}
}

func (s SinkFuncs) TangibleDidBecomeActive(t *Tangible) {
	if s.OnTangibleActive != nil {
		s.OnTangibleActive(t)
	}
}

func (s SinkFuncs) TangibleDidBecomeInactive(t *Tangible) {
	if s.OnTangibleInactive != nil {
		s.OnTangibleInactive(t)
	}
}

func (s SinkFuncs) TangibleMoved(t *Tangible) {
	if s.OnTangibleMoved != nil {
		s.OnTangibleMoved(t)
	}
}

func (s SinkFuncs) TangibleLostMarker(t *Tangible, m *Marker) {
	if s.OnTangibleLost != nil {
		s.OnTangibleLost(t, m)
	}
}

func (s SinkFuncs) TangibleRecoveredMarker(t *Tangible, m *Marker) {
	if s.OnTangibleRecovered != nil {
		s.OnTangibleRecovered(t, m)
	}
}

// MultiSink fans every event out to several sinks in order.
type MultiSink []EventSink

func (ms MultiSink) MarkerDidBecomeActive(m *Marker) {
	for _, s := range ms {
		s.MarkerDidBecomeActive(m)
	}
}

func (ms MultiSink) MarkerDidBecomeInactive(m *Marker) {
	for _, s := range ms {
		s.MarkerDidBecomeInactive(m)
	}
}

func (ms MultiSink) TangibleDidBecomeActive(t *Tangible) {
	for _, s := range ms {
		s.TangibleDidBecomeActive(t)
	}
}

func (ms MultiSink) TangibleDidBecomeInactive(t *Tangible) {
	for _, s := range ms {
		s.TangibleDidBecomeInactive(t)
	}
}

func (ms MultiSink) TangibleMoved(t *Tangible) {
	for _, s := range ms {
		s.TangibleMoved(t)
	}
}

func (ms MultiSink) TangibleLostMarker(t *Tangible, m *Marker) {
	for _, s := range ms {
		s.TangibleLostMarker(t, m)
	}
}

func (ms MultiSink) TangibleRecoveredMarker(t *Tangible, m *Marker) {
	for _, s := range ms {
		s.TangibleRecoveredMarker(t, m)
	}
}
