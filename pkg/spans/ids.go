package spans

import "fmt"

// Sequence hands out prefixed, zero-padded identifiers: ENT_00001, ENT_00002...
type Sequence struct {
	prefix string
	n      int
}

// NewSequence returns a sequence whose first id is prefix_00001.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

// Next advances the sequence and returns the new id.
func (s *Sequence) Next() string {
	s.n++
	return format(s.prefix, s.n)
}

// At returns the id for position n without advancing.
func (s *Sequence) At(n int) string {
	return format(s.prefix, n)
}

// Count returns how many ids have been issued.
func (s *Sequence) Count() int { return s.n }

// Registry maps entity text to a stable id in first-seen order.
type Registry struct {
	prefix string
	ids    map[string]int
}

// NewRegistry creates an empty registry issuing prefix_NNNNN ids.
func NewRegistry(prefix string) *Registry {
	return &Registry{prefix: prefix, ids: make(map[string]int)}
}

// ID returns the id for text, assigning the next one if text is new.
func (r *Registry) ID(text string) string {
	n, ok := r.ids[text]
	if !ok {
		n = len(r.ids) + 1
		r.ids[text] = n
	}
	return format(r.prefix, n)
}

// Len returns the number of distinct texts seen.
func (r *Registry) Len() int { return len(r.ids) }

func format(prefix string, n int) string {
	return fmt.Sprintf("%s_%05d", prefix, n)
}
