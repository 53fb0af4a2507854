package api

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/hazyhaar/nerprep/pkg/cleaner"
	"github.com/hazyhaar/nerprep/pkg/importer"
	"github.com/hazyhaar/nerprep/pkg/kit"
	"github.com/hazyhaar/nerprep/pkg/spans"
)

// Service carries the state shared by the endpoints: the default cleaner
// config and the NLP resources loaded so far, keyed by language.
type Service struct {
	Config cleaner.Config
	Logger *slog.Logger
	// LoadResources builds resources for a language; cleaner.NewResources
	// when nil.
	LoadResources func(lang string) (*cleaner.Resources, error)

	mu  sync.Mutex
	res map[string]*cleaner.Resources
}

// NewService returns a Service cleaning with cfg by default.
func NewService(cfg cleaner.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{Config: cfg, Logger: logger}
}

// Resources returns the resources for lang, loading them on first use.
func (s *Service) Resources(lang string) (*cleaner.Resources, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.res[lang]; ok {
		return r, nil
	}
	load := s.LoadResources
	if load == nil {
		load = cleaner.NewResources
	}
	r, err := load(lang)
	if err != nil {
		return nil, fmt.Errorf("load %s resources: %w", lang, err)
	}
	if s.res == nil {
		s.res = make(map[string]*cleaner.Resources)
	}
	s.res[lang] = r
	return r, nil
}

// Shared request/response types used by the MCP tools and the CLI.

type cleanTextReq struct {
	Text       string
	ConfigPath string
	Tokens     bool
}

type cleanTextResponse struct {
	Text   string   `json:"text,omitempty"`
	Tokens []string `json:"tokens,omitempty"`
	OK     bool     `json:"ok"`
}

type reconstructReq struct {
	Sentence string
	Tokens   []string
	Tags     []string
}

type spanEntity struct {
	Text       string `json:"text"`
	Type       string `json:"type"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	TokenStart int    `json:"token_start"`
	TokenEnd   int    `json:"token_end"`
	IOB        string `json:"iob_tag"`
}

type reconstructResponse struct {
	Sentence string       `json:"sentence"`
	Entities []spanEntity `json:"entities"`
	Orphans  int          `json:"orphan_tags"`
}

type converterInfo struct {
	ID           string `json:"id"`
	Description  string `json:"description"`
	DefaultInput string `json:"default_input"`
	OutputFile   string `json:"output_file"`
	License      string `json:"license"`
}

type convertersResponse struct {
	Converters []converterInfo `json:"converters"`
}

type checkTableReq struct {
	Path string
}

func cleanTextEndpoint(s *Service) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*cleanTextReq)
		if req.Text == "" {
			return nil, fmt.Errorf("text is empty")
		}
		cfg := s.Config
		if req.ConfigPath != "" {
			cfg = cleaner.LoadConfig(req.ConfigPath, s.Logger)
		}
		wantTokens := req.Tokens || cfg.ReturnTokens

		var res *cleaner.Resources
		if cfg.RemoveStopwords || cfg.Lemmatize || wantTokens {
			var err error
			if res, err = s.Resources(cfg.Language); err != nil {
				return nil, err
			}
		}
		c := cleaner.New(cfg, res)
		if wantTokens {
			toks, ok := c.Tokens(req.Text)
			return cleanTextResponse{Tokens: toks, OK: ok}, nil
		}
		text, ok := c.Clean(req.Text)
		return cleanTextResponse{Text: text, OK: ok}, nil
	}
}

func reconstructSpansEndpoint() kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*reconstructReq)
		if len(req.Tokens) == 0 {
			return nil, fmt.Errorf("tokens are empty")
		}
		entities, gs, err := spans.Group(req.Tokens, req.Tags)
		if err != nil {
			return nil, err
		}
		sentence := req.Sentence
		if sentence == "" {
			sentence = strings.Join(req.Tokens, " ")
		}

		loc := spans.NewLocator()
		out := make([]spanEntity, len(entities))
		for i, e := range entities {
			sp := loc.Locate(sentence, e.Text)
			out[i] = spanEntity{
				Text:       e.Text,
				Type:       e.Type,
				Start:      sp.Start,
				End:        sp.End,
				TokenStart: e.TokenStart,
				TokenEnd:   e.TokenEnd,
				IOB:        e.IOB(),
			}
		}
		return reconstructResponse{Sentence: sentence, Entities: out, Orphans: gs.Orphans}, nil
	}
}

func listConvertersEndpoint() kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		all := importer.All()
		infos := make([]converterInfo, len(all))
		for i, c := range all {
			infos[i] = converterInfo{
				ID:           c.ID(),
				Description:  c.Description(),
				DefaultInput: c.DefaultInput(),
				OutputFile:   c.OutputFile(),
				License:      c.License(),
			}
		}
		return convertersResponse{Converters: infos}, nil
	}
}

func checkTableEndpoint(s *Service) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*checkTableReq)
		if req.Path == "" {
			return nil, fmt.Errorf("missing table path")
		}
		return importer.NewChecker(s.Logger).CheckTable(req.Path)
	}
}
