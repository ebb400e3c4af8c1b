package kokoro

import (
	"strings"
	"unicode"
)

// StripAnnotations removes ASCII-only parentheticals such as "(Japanese)"
// that eSpeak NG emits when it switches voice mid-text, then trims the
// result. Whitespace around a removed annotation collapses to one run.
func StripAnnotations(s string) string {
	if !strings.Contains(s, "(") {
		return strings.TrimSpace(s)
	}

	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true // nothing emitted yet counts as a boundary
	for i := 0; i < len(s); {
		if s[i] == '(' {
			if end, ok := annotationEnd(s, i); ok {
				i = end
				if lastSpace {
					for i < len(s) && isASCIISpace(s[i]) {
						i++
					}
				}
				continue
			}
		}
		// Multi-byte runes never contain ASCII bytes, so copying byte-wise
		// keeps UTF-8 sequences intact.
		b.WriteByte(s[i])
		lastSpace = isASCIISpace(s[i])
		i++
	}
	return strings.TrimSpace(b.String())
}

// annotationEnd reports the index just past the ")" closing an annotation
// that starts at s[open]. Only ASCII letters and spaces are allowed inside,
// and at least one letter is required.
func annotationEnd(s string, open int) (int, bool) {
	letters := 0
	for j := open + 1; j < len(s); j++ {
		c := s[j]
		switch {
		case c == ')':
			return j + 1, letters > 0
		case c == ' ':
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
			letters++
		default:
			return 0, false
		}
	}
	return 0, false
}

func isASCIISpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

// RewriteSyllabic turns a syllabic consonant "n̩" into "ᵊn". Matches are
// taken left to right without overlap; stray marks are dropped. A mark may
// itself serve as the base of the next one, in which case only "ᵊ" remains.
func RewriteSyllabic(s string) string {
	if !strings.ContainsRune(s, syllabicMark) {
		return s
	}

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 2)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if !unicode.IsSpace(r) && i+1 < len(runes) && runes[i+1] == syllabicMark {
			b.WriteRune(schwaGlide)
			if r != syllabicMark {
				b.WriteRune(r)
			}
			i++
			continue
		}
		if r != syllabicMark {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// removeInnerHyphens drops a "-" when both neighbours in the input are
// lowercase phoneme letters. Hyphens next to whitespace, stress or length
// marks, reserved capitals or other IPA letters stay.
func removeInnerHyphens(s string) string {
	if !strings.Contains(s, "-") {
		return s
	}

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range runes {
		if r == '-' && i > 0 && i+1 < len(runes) && isPhonemeRune(runes[i-1]) && isPhonemeRune(runes[i+1]) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isPhonemeRune reports whether r is in a-z or the IPA block ɑ..ɿ.
func isPhonemeRune(r rune) bool {
	return ('a' <= r && r <= 'z') || ('\u0251' <= r && r <= '\u027f')
}
