package serialbridge

import (
	"time"

	"github.com/SiGenixDave/FlashC167-R188TestBench/logging"
)

// DefaultReadTimeout bounds every single-byte receive.
const DefaultReadTimeout = 20 * time.Millisecond

// Traffic counts bytes moved through the bridge.
type Traffic struct {
	Transmitted uint64
	Received    uint64
	Timeouts    uint64
	ReadErrors  uint64
}

// TrafficCallback is called after every transmitted or received byte, every
// timeout and every failed read. Implementations should return quickly; the
// engine is waiting.
type TrafficCallback func(Traffic)

// Config holds the bridge configuration.
type Config struct {
	// Opener opens the device (default SerialOpener)
	Opener Opener

	// PortNamer builds the device name (default DefaultPortName)
	PortNamer PortNamer

	// ReadTimeout bounds each receive (default 20ms)
	ReadTimeout time.Duration

	// Logger is used for logging operations (optional)
	Logger logging.Logger

	// TrafficCallback reports byte counts (optional)
	TrafficCallback TrafficCallback
}

func defaultConfig() Config {
	return Config{
		Opener:      SerialOpener,
		PortNamer:   DefaultPortName,
		ReadTimeout: DefaultReadTimeout,
		Logger:      logging.Nop(),
	}
}

// Option is a functional option for configuring the Bridge.
type Option func(*Config)

// WithOpener replaces the device opener, typically with a mock in tests.
func WithOpener(opener Opener) Option {
	return func(c *Config) {
		if opener != nil {
			c.Opener = opener
		}
	}
}

// WithPortNamer replaces the port naming scheme.
//
// Example:
//
//	b := serialbridge.New(serialbridge.WithPortNamer(
//	    serialbridge.TemplatePortNamer("/dev/ttyUSB%d"),
//	))
func WithPortNamer(namer PortNamer) Option {
	return func(c *Config) {
		if namer != nil {
			c.PortNamer = namer
		}
	}
}

// WithReadTimeout sets the per-byte receive timeout.
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.ReadTimeout = timeout
		}
	}
}

// WithLogger sets a logger for bridge operations.
func WithLogger(logger logging.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithTrafficCallback sets a callback to track serial traffic.
func WithTrafficCallback(callback TrafficCallback) Option {
	return func(c *Config) {
		c.TrafficCallback = callback
	}
}
