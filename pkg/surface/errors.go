package surface

import "errors"

var (
	// ErrUnknownTouch is returned for a touch id without a Began.
	ErrUnknownTouch = errors.New("surface: unknown touch")

	// ErrTouchInUse is returned when Began repeats a live touch id.
	ErrTouchInUse = errors.New("surface: touch already began")
)
