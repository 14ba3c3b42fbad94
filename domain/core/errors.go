package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrColumnNotFound = fmt.Errorf("%w: column", ErrNotFound)

	// Input-table errors
	ErrMatrixMalformed  = errors.New("malformed matrix file")
	ErrNoGeneColumn     = errors.New("no recognizable gene column")
	ErrEmptyMarkerPanel = errors.New("marker panel matched no expression columns")
)

func NewMatrixError(path string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrMatrixMalformed, path, reason)
}

// IsInputError reports whether the error stems from the shape or content of
// an input table rather than from the environment. Callers use it to pick an
// exit status.
func IsInputError(err error) bool {
	return errors.Is(err, ErrMatrixMalformed) ||
		errors.Is(err, ErrNoGeneColumn) ||
		errors.Is(err, ErrColumnNotFound) ||
		errors.Is(err, ErrEmptyMarkerPanel)
}
