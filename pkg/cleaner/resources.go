package cleaner

import (
	"bufio"
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/aaaton/golem/v4/dicts/es"
	"github.com/jdkato/prose/v2"
)

//go:embed stopwords/*.txt
var stopwordFiles embed.FS

var languagePacks = map[string]func() golem.LanguagePack{
	"english": func() golem.LanguagePack { return en.New() },
	"spanish": func() golem.LanguagePack { return es.New() },
}

// SupportedLanguage reports whether stopwords and lemmas ship for lang.
func SupportedLanguage(lang string) bool {
	_, ok := languagePacks[lang]
	return ok
}

// Tokenizer splits text into tokens.
type Tokenizer interface {
	Tokenize(text string) []string
}

// Lemmatizer maps a token to its base form.
type Lemmatizer interface {
	Lemma(token string) string
}

// Resources bundles the language-dependent collaborators of a Cleaner.
// Callers build it once and share it between cleaners of the same language.
type Resources struct {
	Tokenizer  Tokenizer
	Stopwords  Stopwords
	Lemmatizer Lemmatizer
}

// NewResources loads the default tokenizer, stopword list and lemmatizer for
// lang. Unsupported languages fall back to DefaultLanguage.
func NewResources(lang string) (*Resources, error) {
	if !SupportedLanguage(lang) {
		lang = DefaultLanguage
	}
	stops, err := LoadStopwords(lang)
	if err != nil {
		return nil, err
	}
	lem, err := golem.New(languagePacks[lang]())
	if err != nil {
		return nil, fmt.Errorf("load lemmatizer %s: %w", lang, err)
	}
	return &Resources{
		Tokenizer:  ProseTokenizer{},
		Stopwords:  stops,
		Lemmatizer: lem,
	}, nil
}

// Stopwords is a lowercase word set.
type Stopwords map[string]struct{}

// NewStopwords builds a set from words, lowercasing each.
func NewStopwords(words ...string) Stopwords {
	s := make(Stopwords, len(words))
	for _, w := range words {
		s[strings.ToLower(w)] = struct{}{}
	}
	return s
}

// Contains reports whether word, lowercased, is a stopword.
func (s Stopwords) Contains(word string) bool {
	_, ok := s[strings.ToLower(word)]
	return ok
}

// LoadStopwords returns the embedded stopword list for lang.
func LoadStopwords(lang string) (Stopwords, error) {
	data, err := stopwordFiles.ReadFile("stopwords/" + lang + ".txt")
	if err != nil {
		return nil, fmt.Errorf("stopwords %s: %w", lang, err)
	}
	return NewStopwords(strings.Fields(string(data))...), nil
}

// ProseTokenizer tokenizes with prose's rule-based English tokenizer.
type ProseTokenizer struct{}

func (ProseTokenizer) Tokenize(text string) []string {
	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return strings.Fields(text)
	}
	toks := doc.Tokens()
	out := make([]string, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Text)
	}
	return out
}

// WhitespaceTokenizer splits on Unicode whitespace.
type WhitespaceTokenizer struct{}

func (WhitespaceTokenizer) Tokenize(text string) []string { return strings.Fields(text) }

// MapLemmatizer looks tokens up in a form -> lemma table and falls back to
// Next (or the token itself) on a miss.
type MapLemmatizer struct {
	Forms map[string]string
	Next  Lemmatizer
}

func (m *MapLemmatizer) Lemma(token string) string {
	if l, ok := m.Forms[strings.ToLower(token)]; ok {
		return l
	}
	if m.Next != nil {
		return m.Next.Lemma(token)
	}
	return token
}

// LoadLemmaTable reads "form,lemma" lines. Malformed lines are skipped.
func LoadLemmaTable(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lemma table: %w", err)
	}
	defer f.Close()

	forms := make(map[string]string)
	scan := bufio.NewScanner(f)
	for scan.Scan() {
		parts := strings.Split(scan.Text(), ",")
		if len(parts) != 2 {
			continue
		}
		form := strings.ToLower(strings.TrimSpace(parts[0]))
		lemma := strings.TrimSpace(parts[1])
		if form == "" || lemma == "" {
			continue
		}
		forms[form] = lemma
	}
	if err := scan.Err(); err != nil {
		return nil, fmt.Errorf("read lemma table: %w", err)
	}
	return forms, nil
}
