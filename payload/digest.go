package payload

import (
	"bytes"
	"encoding/hex"
	"strings"

	"github.com/multiformats/go-multihash"
)

// DigestSize is the size of the content hash in bytes (160 bits).
const DigestSize = 20

// Digest is the SHA-1 content hash of a payload, kept in multihash form so it can
// be turned into a content identifier without re-hashing.
type Digest struct {
	mh multihash.Multihash
}

// DigestOf hashes data.
func DigestOf(data []byte) Digest {
	sum, err := multihash.Sum(data, multihash.SHA1, -1)
	if err != nil {
		// sha1 is registered by go-multihash itself; Sum only fails for
		// unknown codes or invalid lengths.
		panic("payload: sha1 multihash: " + err.Error())
	}
	return Digest{mh: sum}
}

// Multihash returns the digest in multihash encoding.
func (d Digest) Multihash() multihash.Multihash {
	return d.mh
}

// Sum returns the raw 20-byte SHA-1 value.
func (d Digest) Sum() []byte {
	if len(d.mh) == 0 {
		return nil
	}
	decoded, err := multihash.Decode(d.mh)
	if err != nil {
		return nil
	}
	return decoded.Digest
}

// Hex returns the digest as 40 uppercase hex characters.
func (d Digest) Hex() string {
	return strings.ToUpper(hex.EncodeToString(d.Sum()))
}

// IsZero reports whether d was never computed.
func (d Digest) IsZero() bool {
	return len(d.mh) == 0
}

// Equal reports whether both digests cover identical content.
func (d Digest) Equal(other Digest) bool {
	return !d.IsZero() && bytes.Equal(d.mh, other.mh)
}

func (d Digest) String() string {
	return d.Hex()
}
