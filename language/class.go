package language

// Class selects which rewrite rules apply to a language's phonemes.
type Class int

const (
	EnglishUS     Class = iota // default, also used when no language is set
	EnglishGB                  // British English
	MultiLanguage              // every other supported language
)

// Classify maps a language to its processing class.
func Classify(l Language) Class {
	switch l {
	case None, EnUS:
		return EnglishUS
	case EnGB:
		return EnglishGB
	default:
		return MultiLanguage
	}
}

func (c Class) String() string {
	switch c {
	case EnglishUS:
		return "english-us"
	case EnglishGB:
		return "english-gb"
	case MultiLanguage:
		return "multi-language"
	}
	return "unknown"
}
