package language

import (
	"errors"
	"fmt"
	"strings"
)

// Language is an eSpeak NG language tag.
type Language string

const (
	None Language = "" // no language selected yet

	EnUS Language = "en-us"
	EnGB Language = "en-gb"
	ES   Language = "es"    // Spanish
	FR   Language = "fr"    // French
	HI   Language = "hi"    // Hindi
	IT   Language = "it"    // Italian
	PtBR Language = "pt-br" // Brazilian Portuguese
	ZH   Language = "cmn"   // Mandarin, eSpeak NG names it "cmn"
	JA   Language = "ja"    // Japanese
)

// ErrUnsupported is returned by Parse for tags outside the supported set.
var ErrUnsupported = errors.New("unsupported language")

// All returns the supported languages in declaration order.
func All() []Language {
	return []Language{EnUS, EnGB, ES, FR, HI, IT, PtBR, ZH, JA}
}

// aliases maps spellings accepted by Parse to canonical tags.
var aliases = map[string]Language{
	"zh":    ZH,
	"en":    EnUS,
	"fr-fr": FR,
	"pt":    PtBR,
}

// Parse resolves a user supplied tag. Matching is case-insensitive and
// accepts "_" in place of "-".
func Parse(s string) (Language, error) {
	tag := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	if tag == "" {
		return None, nil
	}
	for _, l := range All() {
		if string(l) == tag {
			return l, nil
		}
	}
	if l, ok := aliases[tag]; ok {
		return l, nil
	}
	return None, fmt.Errorf("%w: %q", ErrUnsupported, s)
}

// Class returns the processing class of l.
func (l Language) Class() Class {
	return Classify(l)
}

// String returns the tag, or "none" when no language is set.
func (l Language) String() string {
	if l == None {
		return "none"
	}
	return string(l)
}
