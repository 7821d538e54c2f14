package hash

import "testing"

func TestHashContent(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected ContentFingerprint
	}{
		{
			"empty input hashes to the SHA-256 constant",
			[]byte{},
			"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			"nil input equals empty input",
			nil,
			"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			"known vector",
			[]byte("abc"),
			"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HashContent(tt.input); got != tt.expected {
				t.Errorf("HashContent(%q) = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestHashContent_Deterministic(t *testing.T) {
	data := []byte("the same bytes every time")
	if HashContent(data) != HashContent(data) {
		t.Error("identical bytes produced different fingerprints")
	}
}

func TestHashContent_SingleBitDifference(t *testing.T) {
	a := make([]byte, 1000)
	b := make([]byte, 1000)
	b[500] ^= 0x01

	if HashContent(a) == HashContent(b) {
		t.Error("single-bit difference produced equal fingerprints")
	}
}
