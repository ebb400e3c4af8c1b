package kokoro

import (
	"strings"

	"github.com/ieee0824/phonorm/language"
)

// step is one cleanup directive applied after the rule table.
type step func(string) string

func replace(old, new string) step {
	return func(s string) string { return strings.ReplaceAll(s, old, new) }
}

func remove(old string) step { return replace(old, "") }

var (
	usFinish = []step{
		replace("o^ʊ", "O"),
		replace("ɜːɹ", "ɜɹ"),
		replace("ɜː", "ɜɹ"),
		replace("ɪə", "iə"),
		remove(lengthMark),
		replace("o", "ɔ"),
	}

	gbFinish = []step{
		replace("e^ə", "ɛː"),
		replace("iə", "ɪə"),
		replace("ə^ʊ", "Q"),
		replace("o", "ɔ"),
	}

	// Nasal vowels map to the synthesizer's reserved letters B, C, D and E.
	multiFinish = []step{
		replace("œ"+nasalTilde, "B"),
		replace("ɔ"+nasalTilde, "C"),
		replace("ɑ"+nasalTilde, "D"),
		replace("ɛ"+nasalTilde, "E"),
		remove(dentalMark),
		remove(tieBar),
		removeInnerHyphens,
		remove(nasalTilde),
	}

	// commonFinish runs last for every class.
	commonFinish = []step{
		remove(dentalMark),
		remove(tieBar),
		remove(joinMarker),
	}
)

// plan returns the table and finisher for a class.
func plan(c language.Class) (*Table, []step) {
	switch c {
	case language.EnglishGB:
		return FullTable, gbFinish
	case language.MultiLanguage:
		return SafeTable, multiFinish
	default:
		return FullTable, usFinish
	}
}

func finish(s string, steps []step) string {
	for _, f := range steps {
		s = f(s)
	}
	return s
}
