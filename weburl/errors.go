package weburl

import (
	"errors"
	"fmt"
)

// Parse errors.
var (
	// ErrMalformedInput is returned when the input cannot be parsed into a
	// URL: an unparsable scheme, authority, host, or port.
	ErrMalformedInput = errors.New("weburl: malformed input")

	// ErrInvalidBaseRelative is returned when a relative reference is given
	// without a usable base URL. It wraps ErrMalformedInput.
	ErrInvalidBaseRelative = fmt.Errorf("%w: relative URL without a usable base", ErrMalformedInput)
)

// Setter errors.
var (
	// ErrInvalidSetterValue is returned by Reparse when the rebuilt URL does
	// not parse or the component cannot be changed on this URL. URL setters
	// discard it and leave the URL unchanged.
	ErrInvalidSetterValue = errors.New("weburl: invalid setter value")
)

// Search params errors.
var (
	// ErrInvalidPair is returned when a name/value tuple does not have
	// exactly two elements.
	ErrInvalidPair = errors.New("weburl: search param tuple must have exactly two elements")
)

// SyntaxError reports a URL that failed to parse, with the raw input and
// the base used for resolution, if any.
type SyntaxError struct {
	Input string
	Base  string
	Err   error
}

func (e *SyntaxError) Error() string {
	if e.Base != "" {
		return fmt.Sprintf("%v: %q with base %q", e.Err, e.Input, e.Base)
	}
	return fmt.Sprintf("%v: %q", e.Err, e.Input)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// parseFailure is the internal failure value used by the parser. It carries
// a short reason that ends up in the wrapped error text.
func parseFailure(reason string) error {
	return fmt.Errorf("%w: %s", ErrMalformedInput, reason)
}
