package journal

import "errors"

var (
	// ErrEmptySession is returned when a session id is missing.
	ErrEmptySession = errors.New("journal: empty session")

	// ErrInvalidSession is returned for session ids containing '/'.
	ErrInvalidSession = errors.New("journal: invalid session")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("journal: closed")
)
