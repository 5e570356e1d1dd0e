package serialbridge

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout indicates no byte arrived within the read timeout.
	ErrTimeout = errors.New("serial receive timeout")

	// ErrNotConfigured indicates transmit or receive before configure.
	ErrNotConfigured = errors.New("serial port not configured")

	// ErrClosed indicates the session was closed.
	ErrClosed = errors.New("serial port closed")
)

// PortOpenError indicates the requested serial port could not be opened or
// configured.
type PortOpenError struct {
	Port uint16
	Name string
	Baud uint16
	Err  error
}

func (e *PortOpenError) Error() string {
	return fmt.Sprintf("open serial port %s (port %d, %d baud): %v", e.Name, e.Port, e.Baud, e.Err)
}

func (e *PortOpenError) Unwrap() error {
	return e.Err
}

// ReadError is a receive that failed in the driver, as opposed to one that
// timed out.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("serial receive: %v", e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
