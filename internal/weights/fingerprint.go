package weights

import (
	"encoding/binary"
	"math"

	"github.com/zeebo/blake3"
)

// fingerprintDomain separates vector digests from other blake3 uses.
var fingerprintDomain = []byte("weighbridge-vector-v1")

// Fingerprint returns the blake3 digest of the vector's canonical encoding.
// Identical vectors always produce identical fingerprints.
func Fingerprint(v Vector) [32]byte {
	h := blake3.New()
	h.Write(fingerprintDomain)

	var buf [16]byte
	for i, id := range v.IDs {
		binary.BigEndian.PutUint64(buf[:8], uint64(int64(id)))
		binary.BigEndian.PutUint64(buf[8:], math.Float64bits(v.Shares[i]))
		h.Write(buf[:])
	}

	var out [32]byte
	h.Sum(out[:0])

	return out
}
