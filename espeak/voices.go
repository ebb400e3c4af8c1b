package espeak

import (
	"bufio"
	"io"
	"sort"
	"strings"
)

// Voice is one entry of `espeak-ng --voices`.
type Voice struct {
	Language   string // e.g. "en-us"
	Gender     string // age/gender column, e.g. "--/M"
	Name       string // e.g. "English_(America)"
	Identifier string // voice file, e.g. "gmw/en-US"
}

// parseVoices reads the table printed by `espeak-ng --voices`:
//
//	Pty Language       Age/Gender VoiceName          File                 Other Languages
//	 5  en-us           --/M      English_(America)  gmw/en-US            (en 2)
//
// The header and malformed rows are skipped. Results are sorted by language.
func parseVoices(r io.Reader) ([]Voice, error) {
	var voices []Voice
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(cleanField(scanner.Text()))
		if len(fields) < 5 || fields[0] == "Pty" {
			continue
		}
		voices = append(voices, Voice{
			Language:   fields[1],
			Gender:     fields[2],
			Name:       fields[3],
			Identifier: fields[4],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(voices, func(i, j int) bool {
		return voices[i].Language < voices[j].Language
	})
	return voices, nil
}

// cleanField drops the priority bytes the engine prefixes to language names.
func cleanField(s string) string {
	return strings.NewReplacer("\x05", "", "\x02", "").Replace(s)
}
