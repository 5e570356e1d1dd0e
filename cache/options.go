package cache

import (
	"io/fs"

	"github.com/SiGenixDave/FlashC167-R188TestBench/logging"
)

// Config holds the cache configuration.
type Config struct {
	// Loader tries to load payloads in memory (optional). Without one every
	// payload goes to disk.
	Loader ModuleLoader

	// Logger is used for logging operations (optional)
	Logger logging.Logger

	// Dir is the base directory for relative file names; empty means the
	// working directory
	Dir string

	// FileMode is the permission used for materialized files
	FileMode fs.FileMode
}

func defaultConfig() Config {
	return Config{
		Logger:   logging.Nop(),
		FileMode: 0o644,
	}
}

// Option is a functional option for configuring the Cache.
type Option func(*Config)

// WithLoader sets the in-memory module loader.
//
// Example:
//
//	c := cache.New(store, cache.WithLoader(ihex.Loader{}))
func WithLoader(loader ModuleLoader) Option {
	return func(c *Config) {
		c.Loader = loader
	}
}

// WithLogger sets a logger for cache operations.
func WithLogger(logger logging.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithDir resolves relative file names against dir.
func WithDir(dir string) Option {
	return func(c *Config) {
		c.Dir = dir
	}
}

// WithFileMode sets the permission bits of written files.
func WithFileMode(mode fs.FileMode) Option {
	return func(c *Config) {
		if mode != 0 {
			c.FileMode = mode
		}
	}
}
