package web

import "errors"

var (
	// ErrSourceInUse is sent to a source connecting with a taken id.
	ErrSourceInUse = errors.New("web: touch source id already connected")

	// ErrUnexpectedMessage is sent for message types a source may not send.
	ErrUnexpectedMessage = errors.New("web: unexpected message type")
)
