package text

import (
	"math"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Photo.JPG", "photojpg"},
		{"vacation(1).jpg", "vacation1jpg"},
		{"IMG_2024-01-01.png", "img20240101png"},
		{"résumé.doc", "rsumdoc"},
		{"###", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeName(tt.input); got != tt.expected {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected int
	}{
		{"both empty", "", "", 0},
		{"left empty", "", "abc", 3},
		{"right empty", "abc", "", 3},
		{"equal", "abc", "abc", 0},
		{"kitten sitting", "kitten", "sitting", 3},
		{"flaw lawn", "flaw", "lawn", 2},
		{"single insert", "vacationjpg", "vacation1jpg", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Levenshtein(tt.a, tt.b); got != tt.expected {
				t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"identical names", "photo.jpg", "photo.jpg", 1.0},
		{"both normalize empty", "###", "!!!", 1.0},
		{"vacation copies", "vacation.jpg", "vacation(1).jpg", 1.0 - 1.0/12.0},
		{"disjoint", "a.txt", "z.png", 1.0 - 4.0/4.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"vacation.jpg", "vacation(1).jpg"},
		{"a.txt", "b.txt"},
		{"report-final.pdf", "report-final-v2.pdf"},
	}
	for _, p := range pairs {
		if Similarity(p[0], p[1]) != Similarity(p[1], p[0]) {
			t.Errorf("Similarity(%q, %q) is not symmetric", p[0], p[1])
		}
	}
}

func TestSimilarity_SelfIsOne(t *testing.T) {
	for _, name := range []string{"a", "vacation.jpg", "IMG_0001.HEIC"} {
		if got := Similarity(name, name); got != 1.0 {
			t.Errorf("Similarity(%q, %q) = %v, want 1.0", name, name, got)
		}
	}
}
