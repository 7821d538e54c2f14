// Package hash computes the two fingerprints the engine compares files
// by: a full-content cryptographic hash for exact matching and an N×N
// average hash for perceptual image matching.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentFingerprint is the hex-encoded SHA-256 of a file's full content.
// Equal fingerprints imply byte-identical content.
type ContentFingerprint string

// HashContent computes the content fingerprint over the entire byte
// sequence. Deterministic and pure; the empty sequence hashes to the
// standard SHA-256 empty-input constant rather than erroring.
func HashContent(data []byte) ContentFingerprint {
	sum := sha256.Sum256(data)
	return ContentFingerprint(hex.EncodeToString(sum[:]))
}
