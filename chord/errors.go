package chord

import (
	"errors"
	"fmt"
)

var (
	// ErrParse matches every *ParseError.
	ErrParse = errors.New("parse error")
	// ErrInvalidArgument is returned for well-formed but unusable values.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ParseError reports notation or key text that could not be resolved.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("can't parse %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
