// Package hub provides a thread-safe websocket broadcast hub
// using the idiomatic Go channel-based fan-out pattern.
package hub

import "github.com/teslashibe/go-tangible/pkg/protocol"

// Message is a pre-encoded JSON frame queued for every client.
type Message struct {
	Type protocol.MessageType
	Data []byte
}

// NewMessage encodes a protocol message for broadcast.
func NewMessage(msg *protocol.Message) (Message, error) {
	data, err := msg.Bytes()
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msg.Type, Data: data}, nil
}
