package engine

import "github.com/SiGenixDave/FlashC167-R188TestBench/stage"

// ConfigureFunc opens the serial port for the engine.
type ConfigureFunc func(port, baud uint16)

// TransmitFunc sends one byte for the engine.
type TransmitFunc func(c byte)

// ReceiveFunc returns one received byte, or -1 when none is available.
type ReceiveFunc func() int32

// Engine is the native flashing engine.
type Engine interface {
	// RegisterConfigureCallback installs the port open hook
	RegisterConfigureCallback(fn ConfigureFunc)

	// RegisterTransmitCallback installs the byte transmit hook
	RegisterTransmitCallback(fn TransmitFunc)

	// RegisterReceiveCallback installs the byte receive hook
	RegisterReceiveCallback(fn ReceiveFunc)

	// CopyStage1, CopyStage2 and CopyStage3 take the stage text
	stage.Hooks

	// FlashMain runs a complete flashing session and returns its status code
	FlashMain(argc int32, argv []string) int32
}
