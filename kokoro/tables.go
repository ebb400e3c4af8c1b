package kokoro

import "strings"

// Symbols shared by the rule tables and finishers.
const (
	joinMarker   = "^"      // eSpeak NG diphthong/affricate join
	syllabicMark = '\u0329' // combining vertical line below
	schwaGlide   = 'ᵊ'
	tieBar       = "\u0361"
	dentalMark   = "\u032a" // combining bridge below
	nasalTilde   = "\u0303" // combining tilde
	lengthMark   = "ː"
)

// fullRules is the English mapping table, declared longest pattern first.
var fullRules = []Rule{
	{"ʔˌn\u0329", "tn"},

	{"ʔn\u0329", "tn"},
	{"a^ɪ", "I"},
	{"a^ʊ", "W"},
	{"d^ʒ", "ʤ"},
	{"e^ɪ", "A"},
	{"t^ʃ", "ʧ"},
	{"ɔ^ɪ", "Y"},
	{"ə^l", "ᵊl"},

	{"ʔn", "tn"},
	{"ʲo", "jo"},
	{"ʲə", "jə"},

	{"ʔ", "t"},
	{"e", "A"},
	{"ʲ", ""},
	{"ɚ", "əɹ"},
	{"r", "ɹ"},
	{"x", "k"},
	{"ç", "k"},
	{"ɐ", "ə"},
	{"ɬ", "l"},
	{nasalTilde, ""},
}

var (
	// FullTable holds the English-specific rewrites.
	FullTable = MustTable(fullRules...)

	// SafeTable is the part of FullTable that only collapses joined
	// diphthongs and affricates, valid for every supported language.
	SafeTable = FullTable.Filter(func(r Rule) bool {
		return strings.Contains(r.Pattern, joinMarker)
	})
)
