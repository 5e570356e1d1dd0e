package stage

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/SiGenixDave/FlashC167-R188TestBench/payload"
)

// recordingHooks captures every buffer handed over.
type recordingHooks struct {
	bufs  [3][]byte
	sizes [3]int32
	calls []int
}

func (h *recordingHooks) record(i int, buf []byte, size int32) {
	h.bufs[i] = buf
	h.sizes[i] = size
	h.calls = append(h.calls, i+1)
}

func (h *recordingHooks) CopyStage1(buf []byte, size int32) { h.record(0, buf, size) }
func (h *recordingHooks) CopyStage2(buf []byte, size int32) { h.record(1, buf, size) }
func (h *recordingHooks) CopyStage3(buf []byte, size int32) { h.record(2, buf, size) }

// fixedHooks adds the engine's fixed buffer sizes.
type fixedHooks struct {
	recordingHooks
	caps [3]int
}

func (h *fixedHooks) StageCapacities() [3]int { return h.caps }

func newStore(t *testing.T, files map[string]string) *payload.Store {
	t.Helper()
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	store, err := payload.New(fsys)
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func allStages(t *testing.T) *payload.Store {
	return newStore(t, map[string]string{
		"STAGE1":   "abc",
		"STAGE2":   "standard",
		"STAGE2MV": "mvb",
		"STAGE2IP": "ipack2",
		"STAGE3":   "third stage ✓",
	})
}

func TestPrepareAndHandoff(t *testing.T) {
	l := NewLoader(allStages(t))

	set, err := l.Prepare(false, false)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if set.Stage1 != "abc" {
		t.Errorf("Stage1 = %q, want %q", set.Stage1, "abc")
	}

	hooks := &recordingHooks{}
	if err := Handoff(set, hooks); err != nil {
		t.Fatalf("Handoff() error = %v", err)
	}

	if hooks.sizes[0] != 3 {
		t.Errorf("stage 1 size = %d, want 3", hooks.sizes[0])
	}
	for i, text := range set.Texts() {
		if int(hooks.sizes[i]) != len(text) || len(hooks.bufs[i]) != len(text) {
			t.Errorf("stage %d: size %d, buffer %d, text %d bytes", i+1, hooks.sizes[i], len(hooks.bufs[i]), len(text))
		}
		if string(hooks.bufs[i]) != text {
			t.Errorf("stage %d buffer = %q, want %q", i+1, hooks.bufs[i], text)
		}
	}
	if len(hooks.calls) != 3 || hooks.calls[0] != 1 || hooks.calls[1] != 2 || hooks.calls[2] != 3 {
		t.Errorf("hook order = %v, want [1 2 3]", hooks.calls)
	}
}

func TestPrepareVariants(t *testing.T) {
	tests := []struct {
		name      string
		useMVB    bool
		useIPACK2 bool
		variant   Variant
		stage2    string
	}{
		{name: "standard", variant: Standard, stage2: "standard"},
		{name: "mvb", useMVB: true, variant: MVB, stage2: "mvb"},
		{name: "ipack2", useIPACK2: true, variant: IPACK2, stage2: "ipack2"},
		{name: "both flags resolve to mvb", useMVB: true, useIPACK2: true, variant: MVB, stage2: "mvb"},
	}

	l := NewLoader(allStages(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := l.Prepare(tt.useMVB, tt.useIPACK2)
			if err != nil {
				t.Fatalf("Prepare() error = %v", err)
			}
			if set.Variant != tt.variant {
				t.Errorf("Variant = %v, want %v", set.Variant, tt.variant)
			}
			if set.Stage2 != tt.stage2 {
				t.Errorf("Stage2 = %q, want %q", set.Stage2, tt.stage2)
			}
		})
	}
}

func TestVariantFromArgs(t *testing.T) {
	tests := []struct {
		args []string
		want Variant
	}{
		{args: []string{"1", "19200", "app.hex", "out.txt"}, want: Standard},
		{args: []string{"1", "mvb", "out.txt"}, want: MVB},
		{args: []string{"1", "Ipack2", "out.txt"}, want: IPACK2},
		{args: []string{"IPACK2", "MVB", "out.txt"}, want: MVB},
		{args: []string{"MVBX", "out.txt"}, want: Standard},
		{args: nil, want: Standard},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			if got := VariantFromArgs(tt.args); got != tt.want {
				t.Errorf("VariantFromArgs(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestUTF8RoundTrip(t *testing.T) {
	l := NewLoader(allStages(t))
	for _, v := range []Variant{Standard, MVB, IPACK2} {
		set, err := l.PrepareVariant(v)
		if err != nil {
			t.Fatal(err)
		}
		for i, text := range set.Texts() {
			if string([]byte(text)) != text {
				t.Errorf("%v stage %d does not round-trip", v, i+1)
			}
		}
	}
}

func TestPrepareErrors(t *testing.T) {
	t.Run("missing stage", func(t *testing.T) {
		l := NewLoader(newStore(t, map[string]string{"STAGE1": "a", "STAGE3": "c"}))
		_, err := l.Prepare(false, true)
		if !errors.Is(err, payload.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if !strings.Contains(err.Error(), "STAGE2IP") {
			t.Errorf("error should name STAGE2IP: %v", err)
		}
	})

	t.Run("invalid utf-8", func(t *testing.T) {
		l := NewLoader(newStore(t, map[string]string{
			"STAGE1": "a", "STAGE2": "\xff\xfe", "STAGE3": "c",
		}))
		if _, err := l.Prepare(false, false); !errors.Is(err, ErrInvalidUTF8) {
			t.Errorf("expected ErrInvalidUTF8, got %v", err)
		}
	})

	t.Run("validation", func(t *testing.T) {
		eof := ":00000001FF\n"
		files := map[string]string{"STAGE1": eof, "STAGE2": eof, "STAGE3": eof}

		if _, err := NewLoader(newStore(t, files), WithValidation(true)).Prepare(false, false); err != nil {
			t.Errorf("valid hex rejected: %v", err)
		}

		files["STAGE3"] = ":0400000001020304FF\n" + eof
		_, err := NewLoader(newStore(t, files), WithValidation(true)).Prepare(false, false)
		if err == nil || !strings.Contains(err.Error(), "stage 3") {
			t.Errorf("expected stage 3 checksum error, got %v", err)
		}
	})
}

func TestHandoffCapacity(t *testing.T) {
	set := &StageSet{Stage1: "abc", Stage2: strings.Repeat("x", 499), Stage3: "z"}

	ok := &fixedHooks{caps: [3]int{100, 500, 20000}}
	if err := Handoff(set, ok); err != nil {
		t.Fatalf("Handoff() error = %v", err)
	}

	set.Stage2 += "x"
	tooSmall := &fixedHooks{caps: [3]int{100, 500, 20000}}
	err := Handoff(set, tooSmall)

	var ce *CapacityError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CapacityError, got %v", err)
	}
	if ce.Stage != 2 || ce.Size != 500 || ce.Capacity != 500 {
		t.Errorf("CapacityError = %+v", ce)
	}
	if len(tooSmall.calls) != 0 {
		t.Error("no hook may run when a stage does not fit")
	}
}
