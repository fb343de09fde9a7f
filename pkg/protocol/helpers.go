package protocol

import (
	"fmt"
)

// =============================================================================
// Helper functions for creating messages
// =============================================================================

// NewTouchMessage creates a touch sample message
func NewTouchMessage(phase Phase, touchID string, x, y, radius float64) (*Message, error) {
	if !phase.Valid() {
		return nil, fmt.Errorf("unknown touch phase %q", phase)
	}
	return NewMessage(TypeTouch, TouchData{
		Phase:   phase,
		TouchID: touchID,
		X:       x,
		Y:       y,
		Radius:  radius,
	})
}

// NewEventMessage creates a marker or tangible event message
func NewEventMessage(msgType MessageType, data EventData) (*Message, error) {
	if !msgType.IsEvent() {
		return nil, fmt.Errorf("%q is not an event type", msgType)
	}
	return NewMessage(msgType, data)
}

// NewErrorMessage creates an error report message
func NewErrorMessage(err error) (*Message, error) {
	return NewMessage(TypeError, ErrorData{Message: err.Error()})
}

// NewPingMessage creates a ping message
func NewPingMessage(id string) (*Message, error) {
	return NewMessage(TypePing, PingData{
		ID:        id,
		Timestamp: 0, // Will be set by NewMessage
	})
}

// NewPongMessage creates a pong response message
func NewPongMessage(id string, pingTS, pongTS int64) (*Message, error) {
	return NewMessage(TypePong, PongData{
		ID:        id,
		PingTS:    pingTS,
		PongTS:    pongTS,
		LatencyMs: pongTS - pingTS,
	})
}

// =============================================================================
// Helper functions for parsing messages
// =============================================================================

// GetTouchData extracts and validates touch data from a message
func (m *Message) GetTouchData() (*TouchData, error) {
	var data TouchData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	if !data.Phase.Valid() {
		return nil, fmt.Errorf("unknown touch phase %q", data.Phase)
	}
	if data.TouchID == "" {
		return nil, fmt.Errorf("touch_id is required")
	}
	return &data, nil
}

// GetEventData extracts event data from a message
func (m *Message) GetEventData() (*EventData, error) {
	var data EventData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetErrorData extracts error data from a message
func (m *Message) GetErrorData() (*ErrorData, error) {
	var data ErrorData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPingData extracts ping data from a message
func (m *Message) GetPingData() (*PingData, error) {
	var data PingData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPongData extracts pong data from a message
func (m *Message) GetPongData() (*PongData, error) {
	var data PongData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}
