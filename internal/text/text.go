// Package text scores file-name similarity with a normalized Levenshtein
// edit distance.
package text

import "strings"

// NormalizeName lowercases a file name and strips every character
// outside [a-z0-9]. Note this also removes the dot before the
// extension, so "photo.jpg" and "photojpg" normalize identically.
func NormalizeName(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Levenshtein computes the classic dynamic-programming edit distance
// between two strings: insertion, deletion and substitution each cost 1.
func Levenshtein(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	len1 := len(r1)
	len2 := len(r2)

	if len1 == 0 {
		return len2
	}
	if len2 == 0 {
		return len1
	}

	matrix := make([][]int, len1+1)
	for i := range matrix {
		matrix[i] = make([]int, len2+1)
	}
	for i := 0; i <= len1; i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len2; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len1; i++ {
		for j := 1; j <= len2; j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len1][len2]
}

// Similarity scores two file names in [0,1]:
// 1 − levenshtein(normalize(a), normalize(b)) / max(len(a'), len(b')).
// Symmetric; two names that both normalize to empty score 1.0.
func Similarity(a, b string) float64 {
	na := NormalizeName(a)
	nb := NormalizeName(b)

	maxLen := max(len([]rune(na)), len([]rune(nb)))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(Levenshtein(na, nb))/float64(maxLen)
}
