package payload

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a logical payload name is not bundled.
var ErrNotFound = errors.New("payload not found")

// NotFoundError names the payload that could not be located.
type NotFoundError struct {
	Name string
	// File is the file name the manifest mapped Name to, if any
	File string
}

func (e *NotFoundError) Error() string {
	if e.File != "" && e.File != e.Name {
		return fmt.Sprintf("%s is not found in embedded resources (file %s)", e.Name, e.File)
	}
	return fmt.Sprintf("%s is not found in embedded resources", e.Name)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
