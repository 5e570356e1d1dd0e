// Package payload reads the binary payloads bundled with the flashing tool.
//
// # Overview
//
// A payload is a named, immutable byte sequence: one of the stage hex files
// (STAGE1, STAGE2, STAGE2MV, STAGE2IP, STAGE3) or the auxiliary native engine
// library. Payloads live in any fs.FS, normally the embedded bundle from package
// bundle, and are addressed by logical name.
//
// # Manifest
//
// When the file system carries a manifest.yaml, logical names map to file names:
//
//	payloads:
//	  STAGE1: stage1.hex
//	  STAGE3: stage3.hex.zst
//	  FlashSourcesDLL: FlashSourcesDLL.dll
//
// Without a manifest the logical name is the file name.
//
// # Compression
//
// Files ending in .zst or .xz are decompressed on read; the payload is the
// decoded content and its digest is computed over the decoded bytes.
//
// # Usage
//
//	store, err := payload.New(bundle.FS())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	p, err := store.Open("STAGE1")
//	if errors.Is(err, payload.ErrNotFound) {
//	    log.Fatal(err)
//	}
//	fmt.Println(p.Name, len(p.Data), p.Digest().Hex())
package payload
