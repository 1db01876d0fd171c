package startable

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned by New when no container is given.
var ErrInvalidArgument = errors.New("startable: invalid argument")

// MarkerTypeError reports a startable marker whose value is not a bool.
type MarkerTypeError struct {
	ID    string
	Type  string
	Value any
}

func (e *MarkerTypeError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("startable: marker %s must be a bool, got %T", IsStartablePropertyName, e.Value)
	}
	return fmt.Sprintf("startable: marker %s on %s (%s) must be a bool, got %T",
		IsStartablePropertyName, e.Type, e.ID, e.Value)
}
