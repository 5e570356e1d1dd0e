package engine

import (
	"time"

	"github.com/SiGenixDave/FlashC167-R188TestBench/logging"
	"github.com/SiGenixDave/FlashC167-R188TestBench/stage"
)

// Run phases.
const (
	PhaseRegistering = "registering"
	PhaseStaging     = "staging"
	PhaseFlashing    = "flashing"
	PhaseComplete    = "complete"
)

// Progress reports where a run is.
type Progress struct {
	// Phase is one of the Phase constants
	Phase string

	// Variant is the stage 2 variant, known from the staging phase on
	Variant stage.Variant

	// Status is the engine status code, set in the complete phase
	Status int32

	// ElapsedTime is the time since Run started
	ElapsedTime time.Duration
}

// ProgressCallback is called at each phase change.
type ProgressCallback func(Progress)

// Config holds the runner configuration.
type Config struct {
	// ProgressCallback is called at phase changes (optional)
	ProgressCallback ProgressCallback

	// Logger is used for logging operations (optional)
	Logger logging.Logger
}

func defaultConfig() Config {
	return Config{
		Logger: logging.Nop(),
	}
}

// Option is a functional option for configuring the Runner.
type Option func(*Config)

// WithProgressCallback sets a callback function to track run phases.
//
// Example:
//
//	run := engine.New(lib, bridge, loader,
//	    engine.WithProgressCallback(func(p engine.Progress) {
//	        fmt.Printf("[%s] %s\n", p.Phase, p.Variant)
//	    }),
//	)
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for the runner.
func WithLogger(logger logging.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}
