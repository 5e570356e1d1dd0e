package native

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned by Open on platforms without dynamic loading.
var ErrUnsupported = errors.New("native engine loading is not supported on this platform")

// LoadError describes a library that could not be opened or lacks an export.
type LoadError struct {
	Path   string
	Symbol string // empty when the library itself failed to load
	Err    error
}

func (e *LoadError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("failed to load engine library %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("engine library %s: missing export %s: %v", e.Path, e.Symbol, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
