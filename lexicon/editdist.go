package lexicon

import (
	"strings"
	"unicode"
)

// Tokens splits a normalized phoneme string on the separator and whitespace.
func Tokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || unicode.IsSpace(r)
	})
}

// PhonemeEditDistance computes the Levenshtein edit distance between two phoneme sequences.
func PhonemeEditDistance(a, b []string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	// Use single-row DP to save memory.
	prev := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		cur := make([]int, lb+1)
		cur[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev = cur
	}
	return prev[lb]
}
