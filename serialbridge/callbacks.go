package serialbridge

// Callbacks is the function table handed to the engine. It is built once and
// never reassigned.
type Callbacks struct {
	// Configure opens the session. A failure is recorded and returned by
	// Bridge.Err after the engine returns.
	Configure func(port, baud uint16)

	// Transmit writes one byte. Failures are dropped; the engine detects them
	// through missing replies.
	Transmit func(c byte)

	// Receive returns the byte value 0-255, or NoByte on timeout or error.
	Receive func() int32
}

// Callbacks returns the engine-facing table for b.
func (b *Bridge) Callbacks() Callbacks {
	return Callbacks{
		Configure: func(port, baud uint16) {
			if err := b.Configure(port, baud); err != nil {
				b.config.Logger.Error("serial configure failed", "error", err)
				b.fail(err)
			}
		},
		Transmit: func(c byte) {
			if err := b.Transmit(c); err != nil {
				b.config.Logger.Debug("serial transmit failed", "error", err)
			}
		},
		Receive: func() int32 {
			c, err := b.Receive()
			if err != nil {
				return NoByte
			}
			return int32(c)
		},
	}
}
