package lexicon

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ieee0824/phonorm/language"
)

// Entry is one reference transcription.
type Entry struct {
	Line     int               // 1-based line in the source file
	Text     string            // input text
	Language language.Language // voice used to phonemize Text
	Expected string            // normalized phonemes
}

// Dictionary holds reference transcriptions in file order.
type Dictionary struct {
	Entries []Entry
}

// NewDictionary creates an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{}
}

// Add appends an entry.
func (d *Dictionary) Add(e Entry) {
	d.Entries = append(d.Entries, e)
}

// Load reads reference transcriptions from a tab-separated file.
// Format: text<TAB>language<TAB>expected phonemes
func Load(r io.Reader) (*Dictionary, error) {
	d := NewDictionary()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "\t", 3)
		if len(parts) < 3 {
			return nil, fmt.Errorf("line %d: expected 3 tab-separated fields, got %d", lineNum, len(parts))
		}

		lang, err := language.Parse(parts[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if lang == language.None {
			return nil, fmt.Errorf("line %d: empty language", lineNum)
		}

		d.Add(Entry{
			Line:     lineNum,
			Text:     parts[0],
			Language: lang,
			Expected: strings.TrimSpace(parts[2]),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return d, nil
}

// LoadFile is a convenience wrapper that opens a file path.
func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// ByLanguage returns the entries for one language.
func (d *Dictionary) ByLanguage(l language.Language) []Entry {
	var out []Entry
	for _, e := range d.Entries {
		if e.Language == l {
			out = append(out, e)
		}
	}
	return out
}
