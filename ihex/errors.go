package ihex

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingEOF indicates the input ended without an End Of File record.
	ErrMissingEOF = errors.New("missing end of file record")

	// ErrDataAfterEOF indicates records follow the End Of File record.
	ErrDataAfterEOF = errors.New("record after end of file")

	// ErrEmpty indicates the input holds no records.
	ErrEmpty = errors.New("empty file")
)

// RecordError wraps a failure with the line it occurred on.
type RecordError struct {
	Line int
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// ChecksumError indicates that a record checksum did not match its content.
type ChecksumError struct {
	Expected byte
	Actual   byte
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch: got 0x%02X, expected 0x%02X", e.Actual, e.Expected)
}
