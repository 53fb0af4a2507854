package spans

import (
	"strings"
	"unicode/utf8"
)

// Span is a half-open [Start, End) range of rune offsets into a sentence.
// A span of {-1, -1} means the text was not found.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// NotFound is returned when an entity cannot be located in its sentence.
var NotFound = Span{Start: -1, End: -1}

// Slice returns the runes of s covered by the span.
func (sp Span) Slice(s string) string {
	if sp.Start < 0 {
		return ""
	}
	r := []rune(s)
	if sp.End > len(r) {
		return ""
	}
	return string(r[sp.Start:sp.End])
}

// FindAll returns every non-overlapping occurrence of sub in text, left to right.
func FindAll(text, sub string) []Span {
	if sub == "" {
		return nil
	}
	var out []Span
	subRunes := utf8.RuneCountInString(sub)
	byteOff, runeOff := 0, 0
	for {
		i := strings.Index(text[byteOff:], sub)
		if i < 0 {
			return out
		}
		start := runeOff + utf8.RuneCountInString(text[byteOff:byteOff+i])
		out = append(out, Span{Start: start, End: start + subRunes})
		byteOff += i + len(sub)
		runeOff = start + subRunes
	}
}

// Locator assigns occurrences of entity text within one sentence so that
// repeated entities claim distinct spans in left-to-right order.
type Locator struct {
	used map[string]map[Span]bool
}

// NewLocator returns a Locator for a single sentence.
func NewLocator() *Locator {
	return &Locator{used: make(map[string]map[Span]bool)}
}

// Locate returns the first occurrence of text not yet claimed in sentence.
// Once every occurrence has been claimed the first one is returned again.
func (l *Locator) Locate(sentence, text string) Span {
	occ := FindAll(sentence, text)
	if len(occ) == 0 {
		return NotFound
	}
	used := l.used[text]
	if used == nil {
		used = make(map[Span]bool)
		l.used[text] = used
	}
	for _, sp := range occ {
		if !used[sp] {
			used[sp] = true
			return sp
		}
	}
	return occ[0]
}
