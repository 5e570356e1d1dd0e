// Package enginetest provides an in-process stand-in for the native flashing
// engine. It registers callbacks and stage buffers the same way the library does
// and then runs a scripted serial exchange.
package enginetest

import "github.com/SiGenixDave/FlashC167-R188TestBench/engine"

// Status codes returned by the scripted engine, mirroring the flash monitor.
const (
	StatusOK              int32 = 0
	StatusConnectFailed   int32 = 3
	StatusFlashTypeFailed int32 = 4
	StatusNotRegistered   int32 = 99
)

// Stage buffer sizes of the flash monitor.
const (
	DefaultCapacityStage1 = 100
	DefaultCapacityStage2 = 500
	DefaultCapacityStage3 = 20000
)

// Conn is the engine's view of the serial port during FlashMain.
type Conn struct {
	tx engine.TransmitFunc
	rx engine.ReceiveFunc
}

// Send transmits one byte.
func (c Conn) Send(b byte) { c.tx(b) }

// Recv returns one byte or -1.
func (c Conn) Recv() int32 { return c.rx() }

// Exchange is the scripted protocol run inside FlashMain.
type Exchange func(c Conn) int32

// Engine records everything the host hands over and runs Script once the port
// is configured.
type Engine struct {
	// Port and Baud are passed to the configure callback
	Port uint16
	Baud uint16

	// Script runs after configure; nil returns StatusOK
	Script Exchange

	// Capacities are the stage buffer sizes; zero disables the check
	Capacities [3]int

	// Stages holds the text received through the copy hooks
	Stages [3]string

	// StageSizes holds the size argument of each copy hook
	StageSizes [3]int32

	// Argc and Argv are what FlashMain received
	Argc int32
	Argv []string

	// Registrations counts calls to the three register hooks
	Registrations int

	configure engine.ConfigureFunc
	transmit  engine.TransmitFunc
	receive   engine.ReceiveFunc
}

var _ engine.Engine = (*Engine)(nil)

// New returns an engine with the flash monitor's buffer sizes.
func New(port, baud uint16, script Exchange) *Engine {
	return &Engine{
		Port:       port,
		Baud:       baud,
		Script:     script,
		Capacities: [3]int{DefaultCapacityStage1, DefaultCapacityStage2, DefaultCapacityStage3},
	}
}

func (e *Engine) RegisterConfigureCallback(fn engine.ConfigureFunc) {
	e.configure = fn
	e.Registrations++
}

func (e *Engine) RegisterTransmitCallback(fn engine.TransmitFunc) {
	e.transmit = fn
	e.Registrations++
}

func (e *Engine) RegisterReceiveCallback(fn engine.ReceiveFunc) {
	e.receive = fn
	e.Registrations++
}

func (e *Engine) CopyStage1(buf []byte, size int32) { e.copyStage(0, buf, size) }
func (e *Engine) CopyStage2(buf []byte, size int32) { e.copyStage(1, buf, size) }
func (e *Engine) CopyStage3(buf []byte, size int32) { e.copyStage(2, buf, size) }

func (e *Engine) copyStage(i int, buf []byte, size int32) {
	e.Stages[i] = string(buf[:size])
	e.StageSizes[i] = size
}

// StageCapacities reports the fixed stage buffer sizes.
func (e *Engine) StageCapacities() [3]int {
	return e.Capacities
}

// FlashMain configures the port and runs the script.
func (e *Engine) FlashMain(argc int32, argv []string) int32 {
	e.Argc = argc
	e.Argv = append([]string(nil), argv...)

	if e.configure == nil || e.transmit == nil || e.receive == nil {
		return StatusNotRegistered
	}

	e.configure(e.Port, e.Baud)
	if e.Script == nil {
		return StatusOK
	}
	return e.Script(Conn{tx: e.transmit, rx: e.receive})
}

// EchoScript sends each command byte and waits for the target to echo it,
// allowing up to retries empty receives per byte. A missing echo fails with
// StatusConnectFailed for the first command and StatusFlashTypeFailed after.
func EchoScript(commands []byte, retries int) Exchange {
	return func(c Conn) int32 {
		for i, cmd := range commands {
			c.Send(cmd)
			if !waitForEcho(c, cmd, retries) {
				if i == 0 {
					return StatusConnectFailed
				}
				return StatusFlashTypeFailed
			}
		}
		return StatusOK
	}
}

func waitForEcho(c Conn, want byte, retries int) bool {
	for n := 0; n <= retries; n++ {
		got := c.Recv()
		if got == -1 {
			continue
		}
		return got == int32(want)
	}
	return false
}
