package ihex

import (
	"fmt"

	"github.com/ipfs/go-cid"

	"github.com/SiGenixDave/FlashC167-R188TestBench/payload"
)

// RecordType identifies an Intel HEX record.
type RecordType byte

// Record types.
const (
	RecordData                   RecordType = 0x00
	RecordEOF                    RecordType = 0x01
	RecordExtendedSegmentAddress RecordType = 0x02
	RecordStartSegmentAddress    RecordType = 0x03
	RecordExtendedLinearAddress  RecordType = 0x04
	RecordStartLinearAddress     RecordType = 0x05
)

func (t RecordType) String() string {
	switch t {
	case RecordData:
		return "data"
	case RecordEOF:
		return "end of file"
	case RecordExtendedSegmentAddress:
		return "extended segment address"
	case RecordStartSegmentAddress:
		return "start segment address"
	case RecordExtendedLinearAddress:
		return "extended linear address"
	case RecordStartLinearAddress:
		return "start linear address"
	default:
		return fmt.Sprintf("unknown record type 0x%02X", byte(t))
	}
}

// Record is a single decoded line.
type Record struct {
	// Type is the record type
	Type RecordType

	// Address is the 16-bit load offset field
	Address uint16

	// Data is the record payload
	Data []byte

	// Checksum is the record checksum (already verified)
	Checksum byte
}

// Segment is a run of contiguous data bytes at an absolute address.
type Segment struct {
	Address uint32
	Data    []byte
}

// Image is a parsed Intel HEX file.
type Image struct {
	// Records holds every record in file order, including the EOF record
	Records []*Record

	// Segments holds the data records merged by absolute address
	Segments []Segment

	// StartAddress comes from a type 03 or 05 record; zero when absent
	StartAddress uint32

	// Digest is the content hash of the source text
	Digest payload.Digest
}

// Size returns the total number of data bytes.
func (img *Image) Size() int {
	n := 0
	for _, seg := range img.Segments {
		n += len(seg.Data)
	}
	return n
}

// Identity returns the module identity the cache registers the image under,
// "ihex/" followed by a CIDv1 of the source text.
func (img *Image) Identity() string {
	if img.Digest.IsZero() {
		return "ihex/" + cid.Undef.String()
	}
	return "ihex/" + cid.NewCidV1(cid.Raw, img.Digest.Multihash()).String()
}
