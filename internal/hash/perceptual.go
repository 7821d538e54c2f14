package hash

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math/bits"
	"strings"

	"github.com/corona10/goimagehash"
	_ "golang.org/x/image/webp"
)

// DefaultGridSize is the downsample grid edge; the fingerprint carries
// grid² bits.
const DefaultGridSize = 8

// ErrUndecodable marks image bytes that could not be rasterized. The
// caller excludes that file from the perceptual pass and continues.
var ErrUndecodable = errors.New("undecodable image")

// PerceptualFingerprint is an N²-bit average-hash fingerprint: one bit
// per grid cell, set when the cell's luma exceeds the image mean.
type PerceptualFingerprint struct {
	words []uint64
	nbits int
}

// NewPerceptualFingerprint builds a fingerprint from raw words. Unused
// high bits in the last word must be zero.
func NewPerceptualFingerprint(words []uint64, nbits int) *PerceptualFingerprint {
	return &PerceptualFingerprint{words: words, nbits: nbits}
}

// Bits returns the fingerprint length in bits.
func (f *PerceptualFingerprint) Bits() int {
	return f.nbits
}

// String renders the fingerprint as hex words, for logs and debugging.
func (f *PerceptualFingerprint) String() string {
	var sb strings.Builder
	for _, w := range f.words {
		fmt.Fprintf(&sb, "%016x", w)
	}
	return sb.String()
}

// PerceptualHasher computes average-hash fingerprints for images,
// tolerant of re-encoding and resizing.
type PerceptualHasher struct {
	grid int
}

// NewPerceptualHasher creates a hasher with the given grid edge;
// non-positive values fall back to DefaultGridSize.
func NewPerceptualHasher(grid int) *PerceptualHasher {
	if grid <= 0 {
		grid = DefaultGridSize
	}
	return &PerceptualHasher{grid: grid}
}

// GridSize returns the configured grid edge.
func (h *PerceptualHasher) GridSize() int {
	return h.grid
}

// HashImage decodes content and computes its fingerprint: downsample to
// grid×grid, convert cells to luma (0.299R + 0.587G + 0.114B), then set
// one bit per cell whose luma exceeds the mean. Bytes that do not
// decode as an image return ErrUndecodable.
func (h *PerceptualHasher) HashImage(content []byte) (*PerceptualFingerprint, error) {
	img, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	ext, err := goimagehash.ExtAverageHash(img, h.grid, h.grid)
	if err != nil {
		return nil, fmt.Errorf("failed to compute average hash: %w", err)
	}
	return &PerceptualFingerprint{words: ext.GetHash(), nbits: ext.Bits()}, nil
}

// HammingDistance counts differing bit positions between two
// fingerprints. Defined only for equal lengths; callers gate on Bits.
func HammingDistance(a, b *PerceptualFingerprint) int {
	dist := 0
	for i := range a.words {
		dist += bits.OnesCount64(a.words[i] ^ b.words[i])
	}
	return dist
}

// Similarity is the ratio of matching bit positions, in [0,1].
// Mismatched lengths (or missing fingerprints) compare as 0.
func Similarity(a, b *PerceptualFingerprint) float64 {
	if a == nil || b == nil || a.nbits == 0 || a.nbits != b.nbits {
		return 0
	}
	return float64(a.nbits-HammingDistance(a, b)) / float64(a.nbits)
}
