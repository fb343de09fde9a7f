package tangible

import (
	"errors"
	"fmt"
)

// Sentinel errors for recoverable recognition failures.
var (
	// ErrMarkerCount is returned when a pattern or tangible is not built from exactly three markers.
	ErrMarkerCount = errors.New("tangible: exactly 3 markers required")

	// ErrDegenerate is returned when the markers do not span a triangle.
	ErrDegenerate = errors.New("tangible: degenerate marker triangle")

	// ErrPatternWhitelisted is returned when a similar pattern is already whitelisted.
	ErrPatternWhitelisted = errors.New("tangible: similar pattern already whitelisted")

	// ErrIdentifierInUse is returned when a whitelist identifier is already taken.
	ErrIdentifierInUse = errors.New("tangible: whitelist identifier already in use")

	// ErrEmptyIdentifier is returned when whitelisting without an identifier.
	ErrEmptyIdentifier = errors.New("tangible: whitelist identifier required")

	// ErrInvalidPolicy is returned by Config.Validate for an unknown accept policy.
	ErrInvalidPolicy = errors.New("tangible: unknown accept policy")
)

// WhitelistError carries the identifier a whitelist insert was attempted with.
type WhitelistError struct {
	Identifier string
	Err        error
}

// Error implements the error interface.
func (e *WhitelistError) Error() string {
	return fmt.Sprintf("tangible [%s]: %v", e.Identifier, e.Err)
}

// Unwrap returns the underlying error.
func (e *WhitelistError) Unwrap() error {
	return e.Err
}
