package inspect

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTextBody is returned by Body when a multipart message has no
	// text/plain part that could serve as its body.
	ErrNoTextBody = errors.New("message has no plain text body")

	// ErrContainerTextPlain is returned by Print when a part with sub-parts
	// reports a content type of text/plain. Parsed messages never do this.
	ErrContainerTextPlain = errors.New("a part with sub-parts claims to be text/plain")
)

// LoadError is returned when the message file cannot be read.
type LoadError struct {
	Path string // the path that was read, "-" for standard input
	Err  error  // the underlying I/O error
}

// Error returns the error message.
func (e *LoadError) Error() string {
	return fmt.Sprintf("unable to read %s: %v", e.Path, e.Err)
}

// Unwrap returns the I/O error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// ParseError is returned when the message could not be parsed at all.
// Malformed structure does not cause this; only I/O failures and size limits
// do.
type ParseError struct {
	Err error
}

// Error returns the error message.
func (e *ParseError) Error() string {
	return fmt.Sprintf("unable to parse message: %v", e.Err)
}

// Unwrap returns the parser error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
