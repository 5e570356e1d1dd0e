package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/SiGenixDave/FlashC167-R188TestBench/payload"
)

// Module is a payload loaded in memory.
type Module interface {
	// Identity is the module's full self-reported name, the cache key
	Identity() string
}

// ModuleLoader interprets payload bytes as an in-memory module. An error means the
// payload must be materialized on disk instead.
type ModuleLoader interface {
	Load(name string, data []byte) (Module, error)
}

// Source locates payloads by logical name. *payload.Store satisfies it.
type Source interface {
	Open(name string) (*payload.Payload, error)
}

// Result describes what Load did.
type Result struct {
	// Name is the logical payload name
	Name string

	// Digest is the payload content hash
	Digest payload.Digest

	// InMemory is true when the payload was registered as a module
	InMemory bool

	// Identity is the module identity when InMemory is true
	Identity string

	// Path is the on-disk artifact when InMemory is false
	Path string

	// Written is true when Path was (re)written by this call
	Written bool
}

// Stats counts cache outcomes since creation.
type Stats struct {
	Modules int
	Writes  int
	Skipped int
}

// Cache owns the in-memory module table and the on-disk artifacts.
//
// Cache is safe for concurrent use.
type Cache struct {
	src    Source
	config Config

	mu      sync.Mutex
	modules map[string]Module
	stats   Stats
}

// New creates a Cache reading payloads from src.
func New(src Source, opts ...Option) *Cache {
	if src == nil {
		panic("source cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Cache{
		src:     src,
		config:  cfg,
		modules: make(map[string]Module),
	}
}

// Load makes the payload named logicalName available, either as an in-memory
// module or as the file fileName whose content hash equals the payload's.
func (c *Cache) Load(logicalName, fileName string) (Result, error) {
	p, err := c.src.Open(logicalName)
	if err != nil {
		return Result{}, err
	}

	res := Result{Name: logicalName}

	if c.config.Loader != nil {
		mod, err := c.config.Loader.Load(logicalName, p.Data)
		if err == nil && mod != nil {
			res.InMemory = true
			res.Identity = mod.Identity()
			res.Digest = p.Digest()
			c.register(mod)
			c.config.Logger.Debug("payload loaded in memory",
				"name", logicalName,
				"identity", res.Identity,
			)
			return res, nil
		}
		c.config.Logger.Debug("in-memory load failed, materializing on disk",
			"name", logicalName,
			"reason", err,
		)
	}

	res.Digest = p.Digest()
	res.Path = c.resolve(fileName)

	c.mu.Lock()
	defer c.mu.Unlock()

	current, err := fileDigest(res.Path)
	if err != nil {
		return Result{}, fmt.Errorf("hash %s: %w", res.Path, err)
	}

	if current.Equal(res.Digest) {
		c.stats.Skipped++
		c.config.Logger.Debug("artifact up to date",
			"name", logicalName,
			"path", res.Path,
			"sha1", res.Digest.Hex(),
		)
		return res, nil
	}

	if err := writeFile(res.Path, p.Data, c.config.FileMode); err != nil {
		return Result{}, fmt.Errorf("write %s: %w", res.Path, err)
	}
	c.stats.Writes++
	res.Written = true

	c.config.Logger.Info("artifact written",
		"name", logicalName,
		"path", res.Path,
		"sha1", res.Digest.Hex(),
		"previous_sha1", current.Hex(),
	)
	return res, nil
}

// Module returns the in-memory module registered under identity.
func (c *Cache) Module(identity string) (Module, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.modules[identity]
	return m, ok
}

// Len returns the number of in-memory modules.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.modules)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// register keeps the first module seen for an identity.
func (c *Cache) register(mod Module) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := mod.Identity()
	if _, ok := c.modules[id]; ok {
		return
	}
	c.modules[id] = mod
	c.stats.Modules++
}

func (c *Cache) resolve(fileName string) string {
	if c.config.Dir == "" || filepath.IsAbs(fileName) {
		return fileName
	}
	return filepath.Join(c.config.Dir, fileName)
}

// fileDigest hashes the file at path. A missing file yields the zero digest.
func fileDigest(path string) (payload.Digest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return payload.Digest{}, nil
		}
		return payload.Digest{}, err
	}
	return payload.DigestOf(data), nil
}

// writeFile replaces path with data through a temporary file in the same
// directory. If the rename is refused, as it is on Windows while the old library
// is mapped by another process, it overwrites in place.
func writeFile(path string, data []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return os.WriteFile(path, data, mode)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return os.WriteFile(path, data, mode)
	}
	return nil
}
