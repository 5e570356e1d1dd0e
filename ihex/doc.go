// Package ihex parses Intel HEX images such as the stage files consumed by the
// C167 flash monitor.
//
// # Intel HEX Format
//
// Every record is one line of hex characters after a ':' start code:
//
//	:[ByteCount(2)][Address(4)][RecordType(2)][Data(2*ByteCount)][Checksum(2)]
//
// Supported record types:
//
//	00 = Data
//	01 = End Of File
//	02 = Extended Segment Address (base = value << 4)
//	03 = Start Segment Address (CS:IP)
//	04 = Extended Linear Address (base = value << 16)
//	05 = Start Linear Address (EIP)
//
// The checksum is the two's complement of the sum of all preceding record bytes.
//
// Example record:
//
//	:0400000001020304F2
//	  04 = Byte count
//	  0000 = Address
//	  00 = Data record
//	  01020304 = Data
//	  F2 = Checksum
//
// # Usage
//
// Parse an image from disk:
//
//	img, err := ihex.Parse("stage3.hex")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, seg := range img.Segments {
//	    fmt.Printf("0x%06X: %d bytes\n", seg.Address, len(seg.Data))
//	}
//
// Check stage text without keeping the image:
//
//	if err := ihex.Validate(stageText); err != nil {
//	    log.Fatal(err)
//	}
//
// # Module Loading
//
// Loader turns a well-formed image into an in-memory module for package cache.
// Anything else, such as a native shared library, fails to load and is written
// to disk by the cache instead.
package ihex
