package stage

import (
	"errors"
	"fmt"
)

// ErrInvalidUTF8 indicates a stage payload is not valid UTF-8 text.
var ErrInvalidUTF8 = errors.New("stage payload is not valid UTF-8")

// CapacityError indicates stage text does not fit the engine's fixed buffer.
type CapacityError struct {
	Stage    int
	Size     int
	Capacity int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("stage %d is %d bytes: exceeds engine buffer of %d bytes (including terminator)",
		e.Stage, e.Size, e.Capacity)
}
