// Package cleaner normalizes free text through a configurable, ordered
// sequence of string transformations.
package cleaner

import "strings"

// Cleaner applies one Config using caller-owned Resources.
type Cleaner struct {
	cfg Config
	res *Resources
}

// New returns a Cleaner. res may be nil when the config needs neither
// stopwords, lemmas nor tokens.
func New(cfg Config, res *Resources) *Cleaner {
	var r Resources
	if res != nil {
		r = *res
	}
	if r.Tokenizer == nil {
		r.Tokenizer = WhitespaceTokenizer{}
	}
	return &Cleaner{cfg: cfg, res: &r}
}

// CleanText cleans text with cfg, or with every step disabled when cfg is nil.
// When cfg removes stopwords or lemmatizes and res is nil, the default
// resources for cfg.Language are loaded; if that fails nothing is returned.
func CleanText(text string, cfg *Config, res *Resources) (string, bool) {
	c := DefaultConfig()
	if cfg != nil {
		c = *cfg
	}
	if res == nil && (c.RemoveStopwords || c.Lemmatize) {
		r, err := NewResources(c.Language)
		if err != nil {
			return "", false
		}
		res = r
	}
	return New(c, res).Clean(text)
}

// Config returns the cleaner's configuration.
func (c *Cleaner) Config() Config { return c.cfg }

// Clean runs the pipeline on text. It reports false when text is empty or
// nothing survives cleaning.
func (c *Cleaner) Clean(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	cfg := c.cfg

	text = ProcessEmojis(text, cfg.RemoveEmojis, cfg.ReplaceEmojis, cfg.EmojiReplacement)
	text = ProcessURLs(text, cfg.RemoveURLs, cfg.ReplaceURLs, cfg.URLReplacement)
	text = ProcessMentionsAndHashtags(text, cfg.RemoveMentionsAndHashtags,
		cfg.ReplaceMentions, cfg.ReplaceHashtags,
		cfg.MentionReplacement, cfg.HashtagReplacement)
	text = ProcessNumbers(text, cfg.RemoveNumbers, cfg.ReplaceNumbers, cfg.NumberReplacement)
	text = ProcessSpecialCharacters(text, cfg.RemoveSpecialCharacters,
		cfg.ReplaceSpecialCharacters, cfg.SpecialCharacterReplacement)

	if cfg.RemoveAccents {
		text = RemoveAccents(text)
	}

	text = NormalizeWhitespace(text)

	if cfg.RemoveStopwords {
		text = c.removeStopwords(text)
	}
	if cfg.Lemmatize {
		text = c.lemmatize(text)
	}

	return text, text != ""
}

// Tokens runs the pipeline and tokenizes the result.
func (c *Cleaner) Tokens(text string) ([]string, bool) {
	cleaned, ok := c.Clean(text)
	if !ok {
		return nil, false
	}
	toks := c.res.Tokenizer.Tokenize(cleaned)
	return toks, len(toks) > 0
}

func (c *Cleaner) removeStopwords(text string) string {
	words := strings.Fields(text)
	kept := words[:0]
	for _, w := range words {
		if !c.res.Stopwords.Contains(w) {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// lemmatize drops stopwords and replaces every remaining token by its lemma.
func (c *Cleaner) lemmatize(text string) string {
	toks := c.res.Tokenizer.Tokenize(text)
	out := make([]string, 0, len(toks))
	for _, tok := range toks {
		if c.res.Stopwords.Contains(tok) {
			continue
		}
		if c.res.Lemmatizer != nil {
			tok = c.res.Lemmatizer.Lemma(tok)
		}
		out = append(out, tok)
	}
	return strings.Join(out, " ")
}
