package lexicon

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Compound is an underscore-joined keyword phrase split into its parts, e.g.
// "falling_teeth" -> ["falling", "teeth"].
type Compound struct {
	Keyword string
	Parts   []string
}

// Lexicon is the static keyword -> interpretation knowledge base. It is
// immutable after load and safe for concurrent readers.
type Lexicon struct {
	entries   map[string]string
	singles   []string
	singleSet map[string]struct{}
	compounds []Compound
}

// Load reads a JSON object of {keyword: interpretation} pairs from path.
func Load(path string) (*Lexicon, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon %s: %w", path, err)
	}
	var entries map[string]string
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse lexicon %s: %w", path, err)
	}
	return New(entries), nil
}

// New builds a lexicon from an already-parsed entry map.
func New(entries map[string]string) *Lexicon {
	lex := &Lexicon{
		entries:   make(map[string]string, len(entries)),
		singleSet: make(map[string]struct{}),
	}
	for keyword, interpretation := range entries {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword == "" {
			continue
		}
		lex.entries[keyword] = interpretation
		if strings.Contains(keyword, "_") {
			lex.compounds = append(lex.compounds, Compound{
				Keyword: keyword,
				Parts:   strings.Split(keyword, "_"),
			})
		} else {
			lex.singles = append(lex.singles, keyword)
			lex.singleSet[keyword] = struct{}{}
		}
	}
	sort.Strings(lex.singles)
	sort.Slice(lex.compounds, func(i, j int) bool {
		return lex.compounds[i].Keyword < lex.compounds[j].Keyword
	})
	return lex
}

func (l *Lexicon) Len() int {
	return len(l.entries)
}

// Interpretation returns the text for a raw (underscored) keyword.
func (l *Lexicon) Interpretation(keyword string) (string, bool) {
	text, ok := l.entries[keyword]
	return text, ok
}

// Singles returns the single-token keywords in sorted order. Callers must
// not modify the returned slice.
func (l *Lexicon) Singles() []string {
	return l.singles
}

// HasSingle reports whether word is a single-token keyword.
func (l *Lexicon) HasSingle(word string) bool {
	_, ok := l.singleSet[word]
	return ok
}

// Compounds returns the compound keywords in sorted order. Callers must not
// modify the returned slice.
func (l *Lexicon) Compounds() []Compound {
	return l.compounds
}

// Each calls fn for every (keyword, interpretation) pair in sorted keyword
// order.
func (l *Lexicon) Each(fn func(keyword, interpretation string)) {
	keys := make([]string, 0, len(l.entries))
	for k := range l.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fn(k, l.entries[k])
	}
}

// DisplayKeyword converts an underscored keyword to its display form.
func DisplayKeyword(keyword string) string {
	return strings.ReplaceAll(keyword, "_", " ")
}
