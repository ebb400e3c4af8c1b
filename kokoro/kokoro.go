// Package kokoro rewrites eSpeak NG phoneme output into the symbol set the
// Kokoro synthesizer was trained on.
//
// Normalization is a fixed pipeline:
//
//  1. strip voice-switch annotations and surrounding whitespace
//  2. move syllabic-consonant marks to a preceding schwa glide
//  3. apply the rule table chosen by the language class
//  4. apply the class finisher (nasal vowels, length marks, diphthongs)
//
// Every function in this package is pure and safe for concurrent use.
package kokoro

import "github.com/ieee0824/phonorm/language"

// Normalize converts raw eSpeak NG phonemes for the given class.
func Normalize(raw string, c language.Class) string {
	if raw == "" {
		return ""
	}
	s := StripAnnotations(raw)
	s = RewriteSyllabic(s)

	table, steps := plan(c)
	s = table.Apply(s)
	s = finish(s, steps)
	return finish(s, commonFinish)
}

// NormalizeLanguage is Normalize with the class derived from l.
func NormalizeLanguage(raw string, l language.Language) string {
	return Normalize(raw, language.Classify(l))
}
