// Package protocol defines the WebSocket message types exchanged between
// touch sources, the tangible server and event subscribers.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Touch source → Server messages
	TypeTouch MessageType = "touch" // Raw touch sample

	// Server → Subscriber messages
	TypeMarkerActive      MessageType = "marker_active"      // Touch joined the surface
	TypeMarkerInactive    MessageType = "marker_inactive"    // Touch left the surface
	TypeTangibleActive    MessageType = "tangible_active"    // Tangible recognized or woke up
	TypeTangibleInactive  MessageType = "tangible_inactive"  // All markers lifted
	TypeTangibleMoved     MessageType = "tangible_moved"     // Center changed
	TypeTangibleLost      MessageType = "tangible_lost"      // One marker lifted
	TypeTangibleRecovered MessageType = "tangible_recovered" // Marker back or replaced
	TypeError             MessageType = "error"              // Rejected input

	// Bidirectional
	TypePing MessageType = "ping" // Health check
	TypePong MessageType = "pong" // Health check response
)

// Message is the base wrapper for all WebSocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	return &msg, nil
}

// IsEvent reports whether t is a server → subscriber event type.
func (t MessageType) IsEvent() bool {
	switch t {
	case TypeMarkerActive, TypeMarkerInactive,
		TypeTangibleActive, TypeTangibleInactive, TypeTangibleMoved,
		TypeTangibleLost, TypeTangibleRecovered:
		return true
	}
	return false
}

// =============================================================================
// Touch Source → Server Message Types
// =============================================================================

// Phase is the lifecycle transition of a touch sample.
type Phase string

const (
	PhaseBegan     Phase = "began"
	PhaseMoved     Phase = "moved"
	PhaseEnded     Phase = "ended"
	PhaseCancelled Phase = "cancelled"
)

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	switch p {
	case PhaseBegan, PhaseMoved, PhaseEnded, PhaseCancelled:
		return true
	}
	return false
}

// TouchData is one touch sample in surface coordinates (y grows downward).
type TouchData struct {
	Phase   Phase   `json:"phase"`
	TouchID string  `json:"touch_id"` // Stable for the life of one contact
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Radius  float64 `json:"radius"` // Contact radius
}

// =============================================================================
// Server → Subscriber Message Types
// =============================================================================

// Point is a surface position or direction.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MarkerState describes one marker.
type MarkerState struct {
	ID     string  `json:"id"`
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
	Active bool    `json:"active"`
}

// TangibleState describes a tangible and its markers.
type TangibleState struct {
	ID                 string        `json:"id"`
	State              string        `json:"state"` // "complete", "incomplete", "blocked", "none"
	Identifier         string        `json:"identifier,omitempty"`
	Center             Point         `json:"center"`
	Radius             float64       `json:"radius"`
	Active             bool          `json:"active"`
	Orientation        *Point        `json:"orientation,omitempty"` // Unset for symmetric shapes
	InitialOrientation Point         `json:"initial_orientation"`
	Angles             [3]float64    `json:"angles"` // Interior angles in degrees
	Markers            []MarkerState `json:"markers"`
}

// EventData is the payload of every event message.
type EventData struct {
	Tangible *TangibleState `json:"tangible,omitempty"`
	Marker   *MarkerState   `json:"marker,omitempty"`
}

// ErrorData reports rejected input back to a touch source.
type ErrorData struct {
	Message string `json:"message"`
}

// =============================================================================
// Bidirectional Message Types
// =============================================================================

// PingData contains ping information
type PingData struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"ts"`
}

// PongData contains pong response
type PongData struct {
	ID        string `json:"id"`
	PingTS    int64  `json:"ping_ts"`
	PongTS    int64  `json:"pong_ts"`
	LatencyMs int64  `json:"latency_ms"`
}
