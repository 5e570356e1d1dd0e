package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() does not validate: %v", err)
	}
	if cfg.Serial.ReadTimeout.Std() != 20*time.Millisecond {
		t.Errorf("ReadTimeout = %s, want 20ms", cfg.Serial.ReadTimeout.Std())
	}
	if cfg.Engine.Library != "FlashSourcesDLL" {
		t.Errorf("Engine.Library = %s", cfg.Engine.Library)
	}
	if !cfg.Payloads.ValidateStages {
		t.Error("stage validation should default to on")
	}
}

func TestParse(t *testing.T) {
	doc := `
log_level: debug
serial:
  port_template: /dev/ttyUSB%d
  read_timeout: 50ms
payloads:
  dir: ./payloads
engine:
  file_name: engine.so
result:
  pause: true
`
	cfg, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %s", cfg.LogLevel)
	}
	if cfg.Serial.PortTemplate != "/dev/ttyUSB%d" {
		t.Errorf("PortTemplate = %s", cfg.Serial.PortTemplate)
	}
	if cfg.Serial.ReadTimeout.Std() != 50*time.Millisecond {
		t.Errorf("ReadTimeout = %s", cfg.Serial.ReadTimeout.Std())
	}
	if cfg.Payloads.Dir != "./payloads" || !cfg.Payloads.ValidateStages {
		t.Errorf("Payloads = %+v", cfg.Payloads)
	}
	// unset keys keep their defaults
	if cfg.Engine.Library != "FlashSourcesDLL" || cfg.Engine.FileName != "engine.so" {
		t.Errorf("Engine = %+v", cfg.Engine)
	}
	if !cfg.Result.Pause {
		t.Error("Result.Pause not set")
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("empty document should yield defaults, got %+v", cfg)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "unknown key",
			doc:     "serial:\n  baud: 9600\n",
			wantErr: "field baud not found",
		},
		{
			name:    "bad duration",
			doc:     "serial:\n  read_timeout: soon\n",
			wantErr: "invalid duration",
		},
		{
			name:    "zero timeout",
			doc:     "serial:\n  read_timeout: 0s\n",
			wantErr: "read_timeout must be positive",
		},
		{
			name:    "template without verb",
			doc:     "serial:\n  port_template: /dev/ttyUSB0\n",
			wantErr: "exactly one %d",
		},
		{
			name:    "template with two verbs",
			doc:     "serial:\n  port_template: /dev/tty%d%d\n",
			wantErr: "exactly one %d",
		},
		{
			name:    "bad level",
			doc:     "log_level: loud\n",
			wantErr: "invalid log_level",
		},
		{
			name:    "empty library",
			doc:     "engine:\n  library: \"\"\n",
			wantErr: "engine.library",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("explicit file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("log_level: error\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg, err := Load(path)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.LogLevel != "error" {
			t.Errorf("LogLevel = %s, want error", cfg.LogLevel)
		}
	})

	t.Run("explicit file missing", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Error("expected error for a missing explicit config file")
		}
	})

	t.Run("no default file", func(t *testing.T) {
		chdir(t, t.TempDir())
		cfg, err := Load("")
		if err != nil {
			t.Fatal(err)
		}
		if cfg != Default() {
			t.Errorf("expected defaults, got %+v", cfg)
		}
	})

	t.Run("invalid file names path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("nope: 1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := Load(path)
		if err == nil || !strings.Contains(err.Error(), path) {
			t.Errorf("error should name the file, got %v", err)
		}
	})
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
