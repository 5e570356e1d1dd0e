package serialbridge

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// Port is an open serial device.
type Port interface {
	io.ReadWriteCloser

	// SetReadTimeout bounds each Read. A Read that times out returns 0, nil.
	SetReadTimeout(t time.Duration) error
}

// Opener opens a serial device at the given baud rate with 8 data bits, no
// parity and one stop bit.
type Opener func(name string, baud int) (Port, error)

// PortNamer maps the engine's numeric port to a platform device name.
type PortNamer func(port uint16) string

// SerialOpener opens a hardware port through go.bug.st/serial.
func SerialOpener(name string, baud int) (Port, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, err
	}
	return port, nil
}

// TemplatePortNamer formats the port number into template, for example
// "/dev/ttyUSB%d".
func TemplatePortNamer(template string) PortNamer {
	return func(port uint16) string {
		return fmt.Sprintf(template, port)
	}
}

// ListPorts returns the serial devices present on the host.
func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}
