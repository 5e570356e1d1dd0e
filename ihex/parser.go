package ihex

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/SiGenixDave/FlashC167-R188TestBench/payload"
)

// Constants for Intel HEX parsing.
const (
	// StartCode begins every record
	StartCode = ':'

	// MinimumRecordLength is the shortest record in hex characters after the
	// start code: count(2) + address(4) + type(2) + checksum(2)
	MinimumRecordLength = 10

	// RecordHeaderSize is count + address + type in bytes
	RecordHeaderSize = 4

	// DefaultRecordCapacity is the initial capacity for the records slice
	DefaultRecordCapacity = 256
)

// Parse parses an Intel HEX file from the given path.
func Parse(path string) (*Image, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return ParseBytes(raw)
}

// ParseReader parses an Intel HEX image from any io.Reader.
func ParseReader(r io.Reader) (*Image, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseBytes(raw)
}

// ParseBytes parses an Intel HEX image held in memory.
func ParseBytes(raw []byte) (*Image, error) {
	img := &Image{
		Records: make([]*Record, 0, DefaultRecordCapacity),
		Digest:  payload.DigestOf(raw),
	}

	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 1024), 1024*1024)

	var (
		base    uint32
		sawEOF  bool
		lineNum int
	)

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines
		if line == "" {
			continue
		}

		if sawEOF {
			return nil, &RecordError{Line: lineNum, Err: ErrDataAfterEOF}
		}

		rec, err := parseRecord(line)
		if err != nil {
			return nil, &RecordError{Line: lineNum, Err: err}
		}
		img.Records = append(img.Records, rec)

		switch rec.Type {
		case RecordData:
			img.addData(base+uint32(rec.Address), rec.Data)
		case RecordEOF:
			sawEOF = true
		case RecordExtendedSegmentAddress:
			base = uint32(rec.Data[0])<<12 | uint32(rec.Data[1])<<4
		case RecordExtendedLinearAddress:
			base = uint32(rec.Data[0])<<24 | uint32(rec.Data[1])<<16
		case RecordStartSegmentAddress:
			cs := uint32(rec.Data[0])<<8 | uint32(rec.Data[1])
			ip := uint32(rec.Data[2])<<8 | uint32(rec.Data[3])
			img.StartAddress = cs<<4 + ip
		case RecordStartLinearAddress:
			img.StartAddress = uint32(rec.Data[0])<<24 | uint32(rec.Data[1])<<16 |
				uint32(rec.Data[2])<<8 | uint32(rec.Data[3])
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if len(img.Records) == 0 {
		return nil, ErrEmpty
	}
	if !sawEOF {
		return nil, ErrMissingEOF
	}

	return img, nil
}

// Validate checks that text is a well-formed Intel HEX image.
func Validate(text string) error {
	_, err := ParseBytes([]byte(text))
	return err
}

// addData appends to the last segment when contiguous, otherwise starts a new one.
func (img *Image) addData(addr uint32, data []byte) {
	if len(data) == 0 {
		return
	}
	if n := len(img.Segments); n > 0 {
		last := &img.Segments[n-1]
		if last.Address+uint32(len(last.Data)) == addr {
			last.Data = append(last.Data, data...)
			return
		}
	}
	seg := Segment{Address: addr, Data: make([]byte, len(data))}
	copy(seg.Data, data)
	img.Segments = append(img.Segments, seg)
}

// parseRecord parses a single record line.
//
// Record format:
//
//	:[ByteCount(1 byte)][Address(2 bytes)][Type(1 byte)][Data(N bytes)][Checksum(1 byte)]
//
// The address is big-endian.
func parseRecord(line string) (*Record, error) {
	if line[0] != StartCode {
		return nil, fmt.Errorf("record must start with ':'")
	}
	line = line[1:]

	if len(line) < MinimumRecordLength {
		return nil, fmt.Errorf("record too short: got %d characters, minimum is %d", len(line), MinimumRecordLength)
	}

	data, err := hex.DecodeString(line)
	if err != nil {
		return nil, fmt.Errorf("invalid hex data: %w", err)
	}

	count := int(data[0])
	expectedLen := RecordHeaderSize + count + 1
	if len(data) != expectedLen {
		return nil, fmt.Errorf("data length mismatch: got %d bytes, expected %d (header=%d + data=%d + checksum=1)",
			len(data), expectedLen, RecordHeaderSize, count)
	}

	checksum := data[len(data)-1]
	if calculated := calculateChecksum(data[:len(data)-1]); checksum != calculated {
		return nil, &ChecksumError{Expected: calculated, Actual: checksum}
	}

	rec := &Record{
		Type:     RecordType(data[3]),
		Address:  uint16(data[1])<<8 | uint16(data[2]),
		Data:     make([]byte, count),
		Checksum: checksum,
	}
	copy(rec.Data, data[RecordHeaderSize:RecordHeaderSize+count])

	if err := checkLength(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func checkLength(rec *Record) error {
	want := -1
	switch rec.Type {
	case RecordData:
		return nil
	case RecordEOF:
		want = 0
	case RecordExtendedSegmentAddress, RecordExtendedLinearAddress:
		want = 2
	case RecordStartSegmentAddress, RecordStartLinearAddress:
		want = 4
	default:
		return fmt.Errorf("unsupported %s", rec.Type)
	}
	if len(rec.Data) != want {
		return fmt.Errorf("%s record carries %d bytes, expected %d", rec.Type, len(rec.Data), want)
	}
	return nil
}

// calculateChecksum computes the 8-bit two's complement checksum.
func calculateChecksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return ^sum + 1
}
