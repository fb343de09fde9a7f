package web

import (
	"log/slog"

	"github.com/teslashibe/go-tangible/pkg/hub"
	"github.com/teslashibe/go-tangible/pkg/protocol"
	"github.com/teslashibe/go-tangible/pkg/tangible"
)

// stateLookup reports the collection a tangible is filed under.
type stateLookup interface {
	StateOf(t *tangible.Tangible) tangible.State
}

// Broadcaster is a tangible.EventSink that publishes every event to a hub.
// It runs inside the manager's callbacks, so it only reads state.
type Broadcaster struct {
	hub    *hub.Hub
	logger *slog.Logger
	states stateLookup
}

// NewBroadcaster creates a sink publishing to h.
func NewBroadcaster(h *hub.Hub, logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{hub: h, logger: logger.With("component", "broadcaster")}
}

// Attach lets the broadcaster report tangible collection states.
func (b *Broadcaster) Attach(m *tangible.Manager) {
	b.states = m
}

func (b *Broadcaster) tangibleState(t *tangible.Tangible) *protocol.TangibleState {
	state := tangible.StateNone
	if b.states != nil {
		state = b.states.StateOf(t)
	}
	ts := protocol.NewTangibleState(t, state)
	return &ts
}

func markerState(m *tangible.Marker) *protocol.MarkerState {
	ms := protocol.NewMarkerState(m)
	return &ms
}

func (b *Broadcaster) emit(msgType protocol.MessageType, data protocol.EventData) {
	msg, err := protocol.NewEventMessage(msgType, data)
	if err != nil {
		b.logger.Error("encode event", "type", msgType, "error", err)
		return
	}
	if err := b.hub.BroadcastMessage(msg); err != nil {
		b.logger.Error("broadcast event", "type", msgType, "error", err)
	}
}

func (b *Broadcaster) MarkerDidBecomeActive(m *tangible.Marker) {
	b.emit(protocol.TypeMarkerActive, protocol.EventData{Marker: markerState(m)})
}

func (b *Broadcaster) MarkerDidBecomeInactive(m *tangible.Marker) {
	b.emit(protocol.TypeMarkerInactive, protocol.EventData{Marker: markerState(m)})
}

func (b *Broadcaster) TangibleDidBecomeActive(t *tangible.Tangible) {
	b.emit(protocol.TypeTangibleActive, protocol.EventData{Tangible: b.tangibleState(t)})
}

func (b *Broadcaster) TangibleDidBecomeInactive(t *tangible.Tangible) {
	b.emit(protocol.TypeTangibleInactive, protocol.EventData{Tangible: b.tangibleState(t)})
}

func (b *Broadcaster) TangibleMoved(t *tangible.Tangible) {
	b.emit(protocol.TypeTangibleMoved, protocol.EventData{Tangible: b.tangibleState(t)})
}

func (b *Broadcaster) TangibleLostMarker(t *tangible.Tangible, m *tangible.Marker) {
	b.emit(protocol.TypeTangibleLost, protocol.EventData{Tangible: b.tangibleState(t), Marker: markerState(m)})
}

func (b *Broadcaster) TangibleRecoveredMarker(t *tangible.Tangible, m *tangible.Marker) {
	b.emit(protocol.TypeTangibleRecovered, protocol.EventData{Tangible: b.tangibleState(t), Marker: markerState(m)})
}

var _ tangible.EventSink = (*Broadcaster)(nil)
