package hash

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"
)

// grayPNG encodes an 8-bit grayscale image of the given size, filled by
// fill(x, y).
func grayPNG(t *testing.T, w, h int, fill func(x, y int) uint8) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Pix[y*img.Stride+x] = fill(x, y)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

// topBottom is black on the top half, white on the bottom.
func topBottom(_, y int) uint8 {
	if y < 4 {
		return 0
	}
	return 255
}

func TestPerceptualHasher_FingerprintLength(t *testing.T) {
	h := NewPerceptualHasher(DefaultGridSize)

	// Same scene at different resolutions: always exactly N² bits.
	for _, size := range []int{8, 32, 64} {
		content := grayPNG(t, size, size, func(_, y int) uint8 {
			if y < size/2 {
				return 0
			}
			return 255
		})
		fp, err := h.HashImage(content)
		if err != nil {
			t.Fatalf("HashImage(%dx%d): %v", size, size, err)
		}
		if fp.Bits() != 64 {
			t.Errorf("%dx%d source: got %d bits, want 64", size, size, fp.Bits())
		}
	}
}

func TestPerceptualHasher_Deterministic(t *testing.T) {
	h := NewPerceptualHasher(0) // falls back to the default grid
	content := grayPNG(t, 8, 8, topBottom)

	a, err := h.HashImage(content)
	if err != nil {
		t.Fatal(err)
	}
	b, err := h.HashImage(content)
	if err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Errorf("identical bytes produced different fingerprints: %s vs %s", a, b)
	}
	if got := Similarity(a, b); got != 1.0 {
		t.Errorf("Similarity(a, a) = %v, want 1.0", got)
	}
}

func TestPerceptualHasher_ThreeBitDifference(t *testing.T) {
	h := NewPerceptualHasher(8)

	// 8x8 sources map one pixel per grid cell. B flips three dark cells
	// to bright; the mean shifts but stays well between 0 and 255, so
	// exactly those three bits differ.
	a, err := h.HashImage(grayPNG(t, 8, 8, topBottom))
	if err != nil {
		t.Fatal(err)
	}
	b, err := h.HashImage(grayPNG(t, 8, 8, func(x, y int) uint8 {
		if y == 0 && x < 3 {
			return 255
		}
		return topBottom(x, y)
	}))
	if err != nil {
		t.Fatal(err)
	}

	if dist := HammingDistance(a, b); dist != 3 {
		t.Errorf("HammingDistance = %d, want 3", dist)
	}
	want := 61.0 / 64.0
	if got := Similarity(a, b); got != want {
		t.Errorf("Similarity = %v, want %v", got, want)
	}
}

func TestPerceptualHasher_Undecodable(t *testing.T) {
	h := NewPerceptualHasher(8)
	_, err := h.HashImage([]byte("this is not an image"))
	if !errors.Is(err, ErrUndecodable) {
		t.Errorf("expected ErrUndecodable, got %v", err)
	}
}

func TestSimilarity_MismatchedLengths(t *testing.T) {
	h8 := NewPerceptualHasher(8)
	h16 := NewPerceptualHasher(16)
	content := grayPNG(t, 32, 32, func(_, y int) uint8 {
		if y < 16 {
			return 0
		}
		return 255
	})

	a, err := h8.HashImage(content)
	if err != nil {
		t.Fatal(err)
	}
	b, err := h16.HashImage(content)
	if err != nil {
		t.Fatal(err)
	}
	if got := Similarity(a, b); got != 0 {
		t.Errorf("Similarity across grid sizes = %v, want 0", got)
	}
	if got := Similarity(a, nil); got != 0 {
		t.Errorf("Similarity with missing fingerprint = %v, want 0", got)
	}
}

func TestHammingDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     uint64
		expected int
	}{
		{"identical", 0, 0, 0},
		{"one bit", 1, 0, 1},
		{"two bits", 3, 0, 2},
		{"all bits", 0xFFFFFFFFFFFFFFFF, 0, 64},
		{"half bits", 0xAAAAAAAAAAAAAAAA, 0x5555555555555555, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fa := NewPerceptualFingerprint([]uint64{tt.a}, 64)
			fb := NewPerceptualFingerprint([]uint64{tt.b}, 64)
			if got := HammingDistance(fa, fb); got != tt.expected {
				t.Errorf("HammingDistance(%x, %x) = %d, want %d", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}
