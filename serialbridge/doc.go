// Package serialbridge emulates a serial port for the native flashing engine.
//
// # Overview
//
// The engine drives a half-duplex, byte-oriented protocol through three C-style
// hooks and knows nothing about Go errors:
//
//	configure(port, baud)   open COM<port> at baud, 8N1, 20ms read timeout
//	transmit(byte)          write one byte
//	receive() int           read one byte, or -1 when nothing arrived
//
// Bridge owns the single serial session behind those hooks. Its Go methods
// return proper errors; Callbacks converts them to the engine's conventions at
// the boundary, and that is the only place the -1 sentinel exists.
//
// # Usage
//
//	b := serialbridge.New(serialbridge.WithLogger(log))
//	defer b.Close()
//
//	cb := b.Callbacks()
//	engine.RegisterConfigureCallback(cb.Configure)
//	engine.RegisterTransmitCallback(cb.Transmit)
//	engine.RegisterReceiveCallback(cb.Receive)
//
//	status := engine.FlashMain(argc, argv)
//	if err := b.Err(); err != nil {
//	    // the port could not be opened
//	}
//
// # Sessions
//
// At most one session exists. Configure closes any previous one before opening
// the next. Close is a no-op when nothing is open. Closing from another goroutine
// while the engine is running aborts the flash: pending and later receives yield
// -1 and transmits fail.
//
// The bridge performs no buffering, framing or retries. Flow control and retry
// policy belong to the engine.
package serialbridge
