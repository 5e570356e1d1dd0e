package ihex

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const twoRecordImage = ":0400000001020304F2\n" +
	":0400040005060708DE\n" +
	":00000001FF\n"

func TestParseReader(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		segments  []Segment
		start     uint32
		records   int
		wantErr   bool
		errMsg    string
		errTarget error
	}{
		{
			name:     "contiguous data merges",
			input:    twoRecordImage,
			segments: []Segment{{Address: 0, Data: []byte{1, 2, 3, 4, 5, 6, 7, 8}}},
			records:  3,
		},
		{
			name: "extended linear address",
			input: ":020000040800F2\n" +
				":0400000001020304F2\n" +
				":0400000508000000EF\n" +
				":00000001FF\n",
			segments: []Segment{{Address: 0x08000000, Data: []byte{1, 2, 3, 4}}},
			start:    0x08000000,
			records:  4,
		},
		{
			name: "extended segment address",
			input: ":020000021000EC\n" +
				":0400000001020304F2\n" +
				":0400000300003800C1\n" +
				":00000001FF\n",
			segments: []Segment{{Address: 0x10000, Data: []byte{1, 2, 3, 4}}},
			start:    0x3800,
			records:  4,
		},
		{
			name:  "crlf and blank lines",
			input: "\r\n:0B0010006164647265737320676170A7\r\n\r\n:00000001FF\r\n",
			segments: []Segment{{
				Address: 0x0010,
				Data:    []byte("address gap"),
			}},
			records: 2,
		},
		{
			name:      "empty file",
			input:     "",
			wantErr:   true,
			errTarget: ErrEmpty,
		},
		{
			name:      "missing eof",
			input:     ":0400000001020304F2\n",
			wantErr:   true,
			errTarget: ErrMissingEOF,
		},
		{
			name:      "data after eof",
			input:     ":00000001FF\n:0400000001020304F2\n",
			wantErr:   true,
			errTarget: ErrDataAfterEOF,
			errMsg:    "line 2",
		},
		{
			name:    "missing start code",
			input:   "0400000001020304F2\n",
			wantErr: true,
			errMsg:  "must start with ':'",
		},
		{
			name:    "too short",
			input:   ":0000\n",
			wantErr: true,
			errMsg:  "record too short",
		},
		{
			name:    "invalid hex",
			input:   ":ZZ00000001020304F2\n",
			wantErr: true,
			errMsg:  "invalid hex data",
		},
		{
			name:    "length mismatch",
			input:   ":0800000001020304EE\n",
			wantErr: true,
			errMsg:  "data length mismatch",
		},
		{
			name:    "checksum mismatch",
			input:   ":0400000001020304FF\n:00000001FF\n",
			wantErr: true,
			errMsg:  "checksum mismatch",
		},
		{
			name:    "unknown record type",
			input:   ":00000006FA\n",
			wantErr: true,
			errMsg:  "unsupported unknown record type 0x06",
		},
		{
			name:    "eof with data",
			input:   ":01000001AA54\n",
			wantErr: true,
			errMsg:  "end of file record carries 1 bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := ParseReader(strings.NewReader(tt.input))

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errTarget != nil && !errors.Is(err, tt.errTarget) {
					t.Errorf("error = %v, want %v", err, tt.errTarget)
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("error = %v, want substring %q", err, tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(img.Records) != tt.records {
				t.Errorf("Records count = %d, want %d", len(img.Records), tt.records)
			}
			if img.StartAddress != tt.start {
				t.Errorf("StartAddress = 0x%08X, want 0x%08X", img.StartAddress, tt.start)
			}
			if len(img.Segments) != len(tt.segments) {
				t.Fatalf("Segments count = %d, want %d", len(img.Segments), len(tt.segments))
			}
			for i, seg := range img.Segments {
				if seg.Address != tt.segments[i].Address {
					t.Errorf("Segment[%d].Address = 0x%08X, want 0x%08X", i, seg.Address, tt.segments[i].Address)
				}
				if !bytes.Equal(seg.Data, tt.segments[i].Data) {
					t.Errorf("Segment[%d].Data = %v, want %v", i, seg.Data, tt.segments[i].Data)
				}
			}
		})
	}
}

func TestChecksumError(t *testing.T) {
	_, err := ParseBytes([]byte(":0400000001020304FF\n:00000001FF\n"))

	var ce *ChecksumError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ChecksumError, got %v", err)
	}
	if ce.Expected != 0xF2 || ce.Actual != 0xFF {
		t.Errorf("ChecksumError = %+v", ce)
	}

	var re *RecordError
	if !errors.As(err, &re) || re.Line != 1 {
		t.Errorf("expected RecordError on line 1, got %v", err)
	}
}

func TestCalculateChecksum(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected byte
	}{
		{name: "eof record", data: []byte{0x00, 0x00, 0x00, 0x01}, expected: 0xFF},
		{name: "zeros", data: []byte{0x00, 0x00, 0x00}, expected: 0x00},
		{name: "data record", data: []byte{0x04, 0x00, 0x00, 0x00, 0x01, 0x02, 0x03, 0x04}, expected: 0xF2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := calculateChecksum(tt.data); got != tt.expected {
				t.Errorf("calculateChecksum() = 0x%02X, want 0x%02X", got, tt.expected)
			}
		})
	}
}

func TestImageIdentity(t *testing.T) {
	a, err := ParseBytes([]byte(twoRecordImage))
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseBytes([]byte(twoRecordImage))
	if err != nil {
		t.Fatal(err)
	}
	c, err := ParseBytes([]byte(":00000001FF\n"))
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(a.Identity(), "ihex/b") {
		t.Errorf("Identity() = %s, want ihex/ prefixed CIDv1", a.Identity())
	}
	if a.Identity() != b.Identity() {
		t.Error("same content must yield the same identity")
	}
	if a.Identity() == c.Identity() {
		t.Error("different content must yield different identities")
	}
	if a.Size() != 8 {
		t.Errorf("Size() = %d, want 8", a.Size())
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(twoRecordImage); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if err := Validate("abc"); err == nil {
		t.Error("expected error for non-hex text")
	}
}

func TestLoader(t *testing.T) {
	mod, err := Loader{}.Load("STAGE1", []byte(twoRecordImage))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, ok := mod.(*Image); !ok {
		t.Errorf("Load() returned %T, want *Image", mod)
	}

	// PE header of a native library
	if _, err := (Loader{}).Load("FlashSourcesDLL", []byte{'M', 'Z', 0x90, 0x00}); err == nil {
		t.Error("expected native library to fail in-memory load")
	}
}
