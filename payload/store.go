package payload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"gopkg.in/yaml.v3"
)

// ManifestFile is the optional name map at the root of a payload file system.
const ManifestFile = "manifest.yaml"

// Payload is a bundled binary blob. Data must not be modified.
type Payload struct {
	Name string
	Data []byte

	digestOnce sync.Once
	digest     Digest
}

// Digest computes the content hash on first use.
func (p *Payload) Digest() Digest {
	p.digestOnce.Do(func() {
		p.digest = DigestOf(p.Data)
	})
	return p.digest
}

// Manifest maps logical payload names to file names.
type Manifest struct {
	Payloads map[string]string `yaml:"payloads"`
}

// Store locates payloads by logical name.
type Store struct {
	fsys     fs.FS
	manifest Manifest

	mu     sync.Mutex
	loaded map[string]*Payload
}

// Option configures a Store.
type Option func(*Store)

// WithManifest replaces whatever manifest.yaml the file system carries.
func WithManifest(m Manifest) Option {
	return func(s *Store) {
		s.manifest = m
	}
}

// New creates a Store over fsys, reading manifest.yaml when present.
func New(fsys fs.FS, opts ...Option) (*Store, error) {
	if fsys == nil {
		return nil, errors.New("payload: file system cannot be nil")
	}

	s := &Store{
		fsys:   fsys,
		loaded: make(map[string]*Payload),
	}

	raw, err := fs.ReadFile(fsys, ManifestFile)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &s.manifest); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", ManifestFile, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read %s: %w", ManifestFile, err)
	}

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Names returns the logical names the manifest declares, sorted.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.manifest.Payloads))
	for name := range s.manifest.Payloads {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open returns the payload registered under name. A missing payload yields a
// *NotFoundError, which matches ErrNotFound.
func (s *Store) Open(name string) (*Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.loaded[name]; ok {
		return p, nil
	}

	file := name
	if mapped, ok := s.manifest.Payloads[name]; ok && mapped != "" {
		file = mapped
	}

	raw, err := fs.ReadFile(s.fsys, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return nil, &NotFoundError{Name: name, File: file}
		}
		return nil, fmt.Errorf("failed to read payload %s: %w", name, err)
	}

	data, err := decode(file, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode payload %s: %w", name, err)
	}

	p := &Payload{Name: name, Data: data}
	s.loaded[name] = p
	return p, nil
}

func decode(file string, raw []byte) ([]byte, error) {
	switch strings.ToLower(path.Ext(file)) {
	case ".zst":
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return dec.DecodeAll(raw, nil)
	case ".xz":
		r, err := xz.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		return io.ReadAll(r)
	default:
		return raw, nil
	}
}
