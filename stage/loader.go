package stage

import (
	"fmt"
	"unicode/utf8"

	"github.com/SiGenixDave/FlashC167-R188TestBench/ihex"
	"github.com/SiGenixDave/FlashC167-R188TestBench/logging"
	"github.com/SiGenixDave/FlashC167-R188TestBench/payload"
)

// StageSet is the text of the three stages for one run.
type StageSet struct {
	Variant Variant
	Stage1  string
	Stage2  string
	Stage3  string
}

// Texts returns the stages in order.
func (s *StageSet) Texts() [3]string {
	return [3]string{s.Stage1, s.Stage2, s.Stage3}
}

// Source locates payloads by logical name. *payload.Store satisfies it.
type Source interface {
	Open(name string) (*payload.Payload, error)
}

// Hooks receives the stage buffers. The engine's copy entry points implement it.
type Hooks interface {
	CopyStage1(buf []byte, size int32)
	CopyStage2(buf []byte, size int32)
	CopyStage3(buf []byte, size int32)
}

// CapacityDeclarer is implemented by hooks whose buffers have a fixed size. Each
// capacity includes room for a NUL terminator.
type CapacityDeclarer interface {
	StageCapacities() [3]int
}

// Loader reads and hands off stage files.
type Loader struct {
	src      Source
	validate bool
	logger   logging.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithValidation checks every stage is well-formed Intel HEX in Prepare.
func WithValidation(validate bool) Option {
	return func(l *Loader) {
		l.validate = validate
	}
}

// WithLogger sets a logger for stage operations.
func WithLogger(logger logging.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a Loader reading stage payloads from src.
func NewLoader(src Source, opts ...Option) *Loader {
	if src == nil {
		panic("source cannot be nil")
	}
	l := &Loader{src: src, logger: logging.Nop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Prepare decodes stage 1, the stage 2 variant chosen by the flags and stage 3.
func (l *Loader) Prepare(useMVB, useIPACK2 bool) (*StageSet, error) {
	return l.PrepareVariant(SelectVariant(useMVB, useIPACK2))
}

// PrepareVariant decodes the stages for an already resolved variant.
func (l *Loader) PrepareVariant(v Variant) (*StageSet, error) {
	names := [3]string{Stage1Name, v.PayloadName(), Stage3Name}

	var texts [3]string
	for i, name := range names {
		text, err := l.decode(name)
		if err != nil {
			return nil, fmt.Errorf("stage %d: %w", i+1, err)
		}
		texts[i] = text
	}

	l.logger.Debug("stages prepared",
		"variant", v.String(),
		"stage1_bytes", len(texts[0]),
		"stage2_bytes", len(texts[1]),
		"stage3_bytes", len(texts[2]),
	)

	return &StageSet{
		Variant: v,
		Stage1:  texts[0],
		Stage2:  texts[1],
		Stage3:  texts[2],
	}, nil
}

func (l *Loader) decode(name string) (string, error) {
	p, err := l.src.Open(name)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(p.Data) {
		return "", fmt.Errorf("%s: %w", name, ErrInvalidUTF8)
	}
	text := string(p.Data)

	if l.validate {
		if err := ihex.Validate(text); err != nil {
			return "", fmt.Errorf("%s: %w", name, err)
		}
	}
	return text, nil
}

// Handoff copies each stage into a buffer of exactly its length and passes it to
// the matching hook, stage 1 first.
func Handoff(set *StageSet, hooks Hooks) error {
	if set == nil {
		return fmt.Errorf("stage set cannot be nil")
	}
	texts := set.Texts()

	if d, ok := hooks.(CapacityDeclarer); ok {
		caps := d.StageCapacities()
		for i, text := range texts {
			if caps[i] > 0 && len(text)+1 > caps[i] {
				return &CapacityError{Stage: i + 1, Size: len(text), Capacity: caps[i]}
			}
		}
	}

	copyFns := [3]func([]byte, int32){hooks.CopyStage1, hooks.CopyStage2, hooks.CopyStage3}
	for i, text := range texts {
		buf := make([]byte, len(text))
		copy(buf, text)
		copyFns[i](buf, int32(len(buf)))
	}
	return nil
}
