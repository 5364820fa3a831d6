package urlpattern

import (
	"errors"
	"fmt"
)

// Compile errors.
var (
	// ErrInvalidPattern is returned when a component pattern cannot be
	// tokenized, parsed, or compiled into a regular expression.
	ErrInvalidPattern = errors.New("urlpattern: invalid pattern")

	// ErrNoBaseURL is returned when a relative pattern string is given
	// without a base URL.
	ErrNoBaseURL = errors.New("urlpattern: relative pattern requires a base URL")
)

// PatternError identifies the component whose pattern failed to compile.
type PatternError struct {
	Component string
	Pattern   string
	Err       error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("%v (%s pattern %q)", e.Err, e.Component, e.Pattern)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

func patternFailure(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidPattern}, args...)...)
}
