package diagnostics

import (
	"fmt"

	"hegel/internal/source"
)

// HegelError is a diagnostic produced while building a module's type graph.
// It carries a human-readable message and the source span it refers to.
type HegelError struct {
	Message string
	Loc     source.Location
}

// NewError creates a new diagnostic for the given location.
func NewError(message string, loc source.Location) *HegelError {
	return &HegelError{Message: message, Loc: loc}
}

// Errorf creates a new diagnostic with a formatted message.
func Errorf(loc source.Location, format string, args ...any) *HegelError {
	return &HegelError{Message: fmt.Sprintf(format, args...), Loc: loc}
}

func (e *HegelError) Error() string {
	return fmt.Sprintf("%s at %s", e.Message, e.Loc)
}
