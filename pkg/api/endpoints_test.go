package api

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/hazyhaar/nerprep/pkg/cleaner"
	"github.com/hazyhaar/nerprep/pkg/spans"
	"github.com/mark3labs/mcp-go/mcp"
)

type stubLemmas struct{}

func (stubLemmas) Lemma(tok string) string {
	if tok == "apples" {
		return "apple"
	}
	return tok
}

func testService(t *testing.T) (*Service, *int) {
	t.Helper()
	loads := 0
	s := NewService(cleaner.DefaultConfig(), slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
	s.LoadResources = func(string) (*cleaner.Resources, error) {
		loads++
		return &cleaner.Resources{
			Tokenizer:  cleaner.WhitespaceTokenizer{},
			Stopwords:  cleaner.NewStopwords("the", "and"),
			Lemmatizer: stubLemmas{},
		}, nil
	}
	return s, &loads
}

func TestCleanText_DefaultConfig(t *testing.T) {
	s, loads := testService(t)
	resp, err := cleanTextEndpoint(s)(context.Background(), &cleanTextReq{Text: "  the   apples  "})
	if err != nil {
		t.Fatal(err)
	}
	got := resp.(cleanTextResponse)
	if got.Text != "the apples" || !got.OK {
		t.Errorf("resp = %+v", got)
	}
	if *loads != 0 {
		t.Errorf("resources loaded %d times for a config that needs none", *loads)
	}
}

func TestCleanText_ConfigFileAndTokens(t *testing.T) {
	s, loads := testService(t)
	cfgPath := filepath.Join(t.TempDir(), "cleaner.yaml")
	os.WriteFile(cfgPath, []byte("lemmatize: true\nremove_numbers: true\n"), 0o644)

	ep := cleanTextEndpoint(s)
	for i := 0; i < 2; i++ {
		resp, err := ep(context.Background(), &cleanTextReq{Text: "The 3 apples and the pears", ConfigPath: cfgPath, Tokens: true})
		if err != nil {
			t.Fatal(err)
		}
		got := resp.(cleanTextResponse)
		if want := []string{"apple", "pears"}; !reflect.DeepEqual(got.Tokens, want) {
			t.Errorf("tokens = %q, want %q", got.Tokens, want)
		}
	}
	if *loads != 1 {
		t.Errorf("resources loaded %d times, want 1", *loads)
	}
}

func TestCleanText_ConcurrentCalls(t *testing.T) {
	s, _ := testService(t)
	s.Config.RemoveAccents = true
	ep := cleanTextEndpoint(s)

	var wg sync.WaitGroup
	errs := make(chan string, 5)
	for g := 0; g < 5; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				resp, err := ep(context.Background(), &cleanTextReq{Text: "Crème Brûlée façade"})
				if err != nil {
					errs <- err.Error()
					return
				}
				if got := resp.(cleanTextResponse).Text; got != "Creme Brulee facade" {
					errs <- got
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Errorf("concurrent clean_text = %q", e)
	}
}

func TestCleanText_Empty(t *testing.T) {
	s, _ := testService(t)
	if _, err := cleanTextEndpoint(s)(context.Background(), &cleanTextReq{}); err == nil {
		t.Error("expected error for empty text")
	}
}

func TestReconstructSpans(t *testing.T) {
	resp, err := reconstructSpansEndpoint()(context.Background(), &reconstructReq{
		Sentence: "buy 2 apples and 2 bananas",
		Tokens:   []string{"buy", "2", "apples", "and", "2", "bananas"},
		Tags:     []string{"O", "B-QTY", "B-FOOD", "O", "B-QTY", "I-FOOD"},
	})
	if err != nil {
		t.Fatal(err)
	}
	got := resp.(reconstructResponse)
	if got.Orphans != 1 {
		t.Errorf("orphans = %d, want 1", got.Orphans)
	}
	if len(got.Entities) != 3 {
		t.Fatalf("entities = %+v", got.Entities)
	}
	second := got.Entities[2]
	if second.Text != "2" || second.Start != 17 || second.End != 18 || second.IOB != "B-QTY" {
		t.Errorf("second quantity = %+v", second)
	}
}

func TestReconstructSpans_DefaultSentence(t *testing.T) {
	resp, err := reconstructSpansEndpoint()(context.Background(), &reconstructReq{
		Tokens: []string{"olive", "oil"},
		Tags:   []string{"B-FOOD", "I-FOOD"},
	})
	if err != nil {
		t.Fatal(err)
	}
	got := resp.(reconstructResponse)
	want := spanEntity{Text: "olive oil", Type: "FOOD", Start: 0, End: 9, TokenStart: 0, TokenEnd: 1, IOB: "B-FOOD I-FOOD"}
	if got.Sentence != "olive oil" || len(got.Entities) != 1 || got.Entities[0] != want {
		t.Errorf("resp = %+v", got)
	}
}

func TestReconstructSpans_Mismatch(t *testing.T) {
	_, err := reconstructSpansEndpoint()(context.Background(), &reconstructReq{
		Tokens: []string{"a", "b"},
		Tags:   []string{"O"},
	})
	if err == nil {
		t.Error("expected error for token/tag length mismatch")
	}
}

func TestListConverters(t *testing.T) {
	resp, err := listConvertersEndpoint()(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	got := resp.(convertersResponse)
	if len(got.Converters) != 2 || got.Converters[0].ID != "humble-1m" || got.Converters[1].ID != "tasteset" {
		t.Errorf("converters = %+v", got.Converters)
	}
}

func TestCheckTableEndpoint(t *testing.T) {
	s, _ := testService(t)
	path := filepath.Join(t.TempDir(), "t.csv")
	f, _ := os.Create(path)
	spans.WriteCSV(f, []spans.Row{
		{EntityID: "ENT_00001", SentenceID: "SENT_00001", Entity: "oil", Start: 6, End: 9, Sentence: "olive oil", IOBTag: "B-FOOD"},
	}, spans.CSVOptions{})
	f.Close()

	if _, err := checkTableEndpoint(s)(context.Background(), &checkTableReq{}); err == nil {
		t.Error("expected error for empty path")
	}
	resp, err := checkTableEndpoint(s)(context.Background(), &checkTableReq{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	if rep := resp.(interface{ OK() bool }); !rep.OK() {
		t.Errorf("report = %+v", resp)
	}
}

func TestDecoders(t *testing.T) {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{
		"tokens":   "olive  oil",
		"tags":     "B-FOOD I-FOOD",
		"sentence": "Olive oil",
	}
	d, err := decodeReconstruct(req)
	if err != nil {
		t.Fatal(err)
	}
	rr := d.Request.(*reconstructReq)
	if !reflect.DeepEqual(rr.Tokens, []string{"olive", "oil"}) || len(rr.Tags) != 2 || rr.Sentence != "Olive oil" {
		t.Errorf("decoded = %+v", rr)
	}

	req.Params.Arguments = map[string]any{"text": "hi", "tokens": true}
	d, _ = decodeCleanText(req)
	if cr := d.Request.(*cleanTextReq); cr.Text != "hi" || !cr.Tokens || cr.ConfigPath != "" {
		t.Errorf("decoded = %+v", cr)
	}
}
