package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hazyhaar/nerprep/pkg/spans"
)

func TestRegistry(t *testing.T) {
	all := All()
	if len(all) < 2 {
		t.Fatalf("registered converters = %d, want at least 2", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID() >= all[i].ID() {
			t.Errorf("All() not sorted: %s before %s", all[i-1].ID(), all[i].ID())
		}
	}
	for _, id := range []string{"humble-1m", "tasteset"} {
		if _, err := Get(id); err != nil {
			t.Errorf("Get(%q): %v", id, err)
		}
	}
	if _, err := Get("nope"); err == nil {
		t.Error("expected error for unknown converter")
	}
}

func readTable(t *testing.T, path string) []spans.Row {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := spans.ReadCSV(f, spans.CSVOptions{})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	return rows
}

const tastesetFixture = `ingredients,ingredients_entities
"1 cup olive oil
2 cups olive oil","[{""entity"": ""1"", ""type"": ""QUANTITY"", ""start"": 0, ""end"": 1}, {""entity"": ""olive oil"", ""type"": ""FOOD"", ""start"": 6, ""end"": 15}, {""entity"": ""olive oil"", ""type"": ""FOOD"", ""start"": 6, ""end"": 15}]"
"salt","not json"
"fresh basil","[{""entity"": ""fresh basil"", ""type"": ""FOOD"", ""start"": 0, ""end"": 11}, {""entity"": ""olive oil"", ""type"": ""FOOD"", ""start"": 0, ""end"": 0}]"
`

func TestTasteset_Convert(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "TASTEset.csv")
	os.WriteFile(input, []byte(tastesetFixture), 0o644)

	c, _ := Get("tasteset")
	stats, err := c.Convert(context.Background(), Options{Input: input, OutputDir: filepath.Join(dir, "out")})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if stats.Sentences != 3 || stats.Skipped != 1 {
		t.Errorf("sentences = %d, skipped = %d; want 3, 1", stats.Sentences, stats.Skipped)
	}
	if stats.Duplicates != 1 || stats.Entities != 4 {
		t.Errorf("duplicates = %d, entities = %d; want 1, 4", stats.Duplicates, stats.Entities)
	}
	if stats.UniqueEntities != 3 {
		t.Errorf("unique = %d, want 3", stats.UniqueEntities)
	}

	rows := readTable(t, stats.Output)
	if rows[0].Sentence != "1 cup olive oil 2 cups olive oil" {
		t.Errorf("line breaks not flattened: %q", rows[0].Sentence)
	}
	if rows[1].IOBTag != "B-FOOD I-FOOD" {
		t.Errorf("iob = %q", rows[1].IOBTag)
	}
	// The unparsable row still consumed SENT_00002.
	if rows[2].SentenceID != "SENT_00003" {
		t.Errorf("sentence id = %q, want SENT_00003", rows[2].SentenceID)
	}
	// Duplicate ENT_00003 was dropped; numbering keeps its gap.
	if rows[2].EntityID != "ENT_00004" {
		t.Errorf("entity id = %q, want ENT_00004", rows[2].EntityID)
	}
	if rows[3].UniqueEntityID != rows[1].UniqueEntityID {
		t.Errorf("olive oil unique ids differ: %s vs %s", rows[3].UniqueEntityID, rows[1].UniqueEntityID)
	}

	m, err := LoadManifest(stats.Output)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.ID != "tasteset" || m.Stats.Entities != 4 {
		t.Errorf("manifest = %+v", m)
	}
}

func TestTasteset_MissingColumns(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "bad.csv")
	os.WriteFile(input, []byte("text,entities\na,[]\n"), 0o644)

	c, _ := Get("tasteset")
	if _, err := c.Convert(context.Background(), Options{Input: input, OutputDir: dir}); err == nil {
		t.Error("expected error for missing columns")
	}
}

func TestTasteset_IncompleteAnnotations(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "TASTEset.csv")
	fixture := `ingredients,ingredients_entities
"1 cup salt","[{""entity"": ""salt""}]"
"2 eggs",null
"3 figs","[null]"
"4 limes","[{""entity"": ""limes"", ""type"": ""FOOD"", ""start"": 2, ""end"": 7}]"
`
	os.WriteFile(input, []byte(fixture), 0o644)

	c, _ := Get("tasteset")
	stats, err := c.Convert(context.Background(), Options{Input: input, OutputDir: dir, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if stats.Sentences != 4 || stats.Skipped != 3 || stats.Entities != 1 {
		t.Errorf("stats = %+v; want 4 sentences, 3 skipped, 1 entity", stats)
	}
	rows := readTable(t, stats.Output)
	if len(rows) != 1 || rows[0].SentenceID != "SENT_00004" || rows[0].IOBTag != "B-FOOD" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestParseAnnotations(t *testing.T) {
	tests := []struct {
		cell    string
		want    int
		wantErr bool
	}{
		{`[]`, 0, false},
		{`[{"entity": "oil", "type": "FOOD", "start": 0, "end": 3}]`, 1, false},
		{`[{"entity": "oil", "type": "FOOD", "start": 0}]`, 0, true},
		{`[{"entity": "oil"}]`, 0, true},
		{`null`, 0, true},
		{`{"entity": "oil"}`, 0, true},
		{`not json`, 0, true},
	}
	for _, tt := range tests {
		got, err := parseAnnotations(tt.cell)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseAnnotations(%s) error = %v, wantErr %v", tt.cell, err, tt.wantErr)
			continue
		}
		if len(got) != tt.want {
			t.Errorf("parseAnnotations(%s) = %+v, want %d annotations", tt.cell, got, tt.want)
		}
	}
}
