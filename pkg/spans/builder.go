package spans

// Annotation is a pre-located entity as shipped by span-annotated corpora.
type Annotation struct {
	Entity string `json:"entity"`
	Type   string `json:"type"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

// Builder accumulates output rows across sentences, sharing entity and
// unique-entity numbering for a whole dataset.
type Builder struct {
	entities *Sequence
	unique   *Registry
	rows     []Row

	Orphans  int
	NotFound int
}

// NewBuilder returns a Builder issuing ENT_ and UENT_ ids.
func NewBuilder() *Builder {
	return &Builder{
		entities: NewSequence("ENT"),
		unique:   NewRegistry("UENT"),
	}
}

// AddTagged groups a token/tag sequence into entities, locates each one in
// sentence and appends a row per entity.
func (b *Builder) AddTagged(sentenceID, sentence string, tokens, tags []string) ([]Row, error) {
	entities, gs, err := Group(tokens, tags)
	if err != nil {
		return nil, err
	}
	b.Orphans += gs.Orphans

	loc := NewLocator()
	start := len(b.rows)
	for _, e := range entities {
		sp := loc.Locate(sentence, e.Text)
		if sp == NotFound {
			b.NotFound++
		}
		b.rows = append(b.rows, Row{
			EntityID:       b.entities.Next(),
			UniqueEntityID: b.unique.ID(e.Text),
			SentenceID:     sentenceID,
			Entity:         e.Text,
			Type:           e.Type,
			Start:          sp.Start,
			End:            sp.End,
			Sentence:       sentence,
			IOBTag:         e.IOB(),
			TokenStart:     e.TokenStart,
			TokenEnd:       e.TokenEnd,
		})
	}
	return b.rows[start:], nil
}

// AddAnnotated appends one row per pre-located annotation.
func (b *Builder) AddAnnotated(sentenceID, sentence string, anns []Annotation) []Row {
	start := len(b.rows)
	for _, a := range anns {
		b.rows = append(b.rows, Row{
			EntityID:       b.entities.Next(),
			UniqueEntityID: b.unique.ID(a.Entity),
			SentenceID:     sentenceID,
			Entity:         a.Entity,
			Type:           a.Type,
			Start:          a.Start,
			End:            a.End,
			Sentence:       sentence,
			IOBTag:         IOBForWords(a.Type, a.Entity),
		})
	}
	return b.rows[start:]
}

// Rows returns every row added so far.
func (b *Builder) Rows() []Row { return b.rows }

// UniqueEntities returns the number of distinct entity texts seen.
func (b *Builder) UniqueEntities() int { return b.unique.Len() }
