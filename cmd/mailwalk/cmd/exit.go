package cmd

import (
	"errors"

	"github.com/zostay/mailwalk/inspect"
)

// Exit statuses, following sysexits.h.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitDataErr = 65 // EX_DATAERR
	ExitIOErr   = 74 // EX_IOERR
)

// ExitCode maps the error returned by Execute to the status the process exits
// with.
func ExitCode(err error) int {
	var (
		loadErr  *inspect.LoadError
		parseErr *inspect.ParseError
	)

	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &loadErr):
		return ExitIOErr
	case errors.As(err, &parseErr),
		errors.Is(err, inspect.ErrNoTextBody),
		errors.Is(err, inspect.ErrContainerTextPlain):
		return ExitDataErr
	default:
		return ExitFailure
	}
}
