// Package spans rebuilds entity spans from token-level IOB tags and maps them
// back onto the raw sentence text.
package spans

import (
	"fmt"
	"strings"
)

// Entity is a contiguous run of B-/I- tagged tokens.
type Entity struct {
	Text       string   `json:"text"`
	Type       string   `json:"type"`
	TokenStart int      `json:"token_start"`
	TokenEnd   int      `json:"token_end"`
	Tokens     []string `json:"-"`
}

// GroupStats counts tags that could not be attached to an entity.
type GroupStats struct {
	Orphans int
}

// IOB returns the entity's tags, e.g. "B-FOOD I-FOOD".
func (e Entity) IOB() string {
	n := e.TokenEnd - e.TokenStart + 1
	return iobFor(e.Type, n)
}

func iobFor(typ string, n int) string {
	if n <= 1 {
		return "B-" + typ
	}
	tags := make([]string, n)
	tags[0] = "B-" + typ
	for i := 1; i < n; i++ {
		tags[i] = "I-" + typ
	}
	return strings.Join(tags, " ")
}

// IOBForWords tags a pre-annotated entity by its whitespace-separated words.
func IOBForWords(typ, text string) string {
	return iobFor(typ, len(strings.Fields(text)))
}

// Group walks a tag sequence and collects its entities in order.
// An I- tag that does not continue an open entity of the same type closes
// the open entity and is dropped.
func Group(tokens, tags []string) ([]Entity, GroupStats, error) {
	var stats GroupStats
	if len(tokens) != len(tags) {
		return nil, stats, fmt.Errorf("token/tag length mismatch: %d tokens, %d tags", len(tokens), len(tags))
	}

	var (
		entities []Entity
		cur      *Entity
	)
	flush := func() {
		if cur == nil {
			return
		}
		cur.Text = strings.Join(cur.Tokens, " ")
		entities = append(entities, *cur)
		cur = nil
	}

	for i, tag := range tags {
		prefix, typ := splitTag(tag)
		switch prefix {
		case "B":
			flush()
			cur = &Entity{Type: typ, TokenStart: i, TokenEnd: i, Tokens: []string{tokens[i]}}
		case "I":
			if cur != nil && cur.Type == typ {
				cur.Tokens = append(cur.Tokens, tokens[i])
				cur.TokenEnd = i
				continue
			}
			flush()
			stats.Orphans++
		default:
			flush()
		}
	}
	flush()
	return entities, stats, nil
}

// Encode renders entities back into a tag sequence of length n.
func Encode(entities []Entity, n int) []string {
	tags := make([]string, n)
	for i := range tags {
		tags[i] = "O"
	}
	for _, e := range entities {
		for i := e.TokenStart; i <= e.TokenEnd && i < n; i++ {
			if i == e.TokenStart {
				tags[i] = "B-" + e.Type
			} else {
				tags[i] = "I-" + e.Type
			}
		}
	}
	return tags
}

// splitTag returns ("B", "FOOD") for "B-FOOD". Anything else is "O".
func splitTag(tag string) (string, string) {
	if len(tag) > 2 && tag[1] == '-' && (tag[0] == 'B' || tag[0] == 'I') {
		return tag[:1], tag[2:]
	}
	return "O", ""
}
