package spans

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestRegistry_FirstSeen(t *testing.T) {
	r := NewRegistry("UENT")
	ids := []string{r.ID("salt"), r.ID("sugar"), r.ID("salt"), r.ID("flour")}
	want := []string{"UENT_00001", "UENT_00002", "UENT_00001", "UENT_00003"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
	if r.Len() != 3 {
		t.Errorf("Len = %d, want 3", r.Len())
	}
}

func TestSequence(t *testing.T) {
	s := NewSequence("SENT")
	if got := s.Next(); got != "SENT_00001" {
		t.Errorf("Next = %q", got)
	}
	if got := s.At(123456); got != "SENT_123456" {
		t.Errorf("At(123456) = %q", got)
	}
	if s.Count() != 1 {
		t.Errorf("Count = %d, want 1", s.Count())
	}
}

func TestDedupe(t *testing.T) {
	rows := []Row{
		{EntityID: "ENT_00001", SentenceID: "SENT_00001", Entity: "2", Start: 4, End: 5},
		{EntityID: "ENT_00002", SentenceID: "SENT_00001", Entity: "2", Start: 17, End: 18},
		{EntityID: "ENT_00003", SentenceID: "SENT_00001", Entity: "2", Start: 4, End: 5},
		{EntityID: "ENT_00004", SentenceID: "SENT_00002", Entity: "2", Start: 4, End: 5},
	}
	got, removed := Dedupe(rows)
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	var ids []string
	for _, r := range got {
		ids = append(ids, r.EntityID)
	}
	want := []string{"ENT_00001", "ENT_00002", "ENT_00004"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("kept = %v, want %v", ids, want)
	}
}

func TestWriteReadCSV(t *testing.T) {
	rows := []Row{{
		EntityID: "ENT_00001", UniqueEntityID: "UENT_00001", SentenceID: "SENT_00001",
		Entity: "olive oil", Type: "FOOD", Start: 8, End: 17,
		Sentence: `oil; and "olive oil"`, IOBTag: "B-FOOD I-FOOD",
		TokenStart: 2, TokenEnd: 3,
	}}

	var buf bytes.Buffer
	opts := CSVOptions{TokenColumns: true}
	if err := WriteCSV(&buf, rows, opts); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	firstLine := strings.SplitN(buf.String(), "\n", 2)[0]
	if firstLine != "entity_id;unique_entity_id;sentence_id;entity;type;start;end;sentence;iob_tag;token_start;token_end" {
		t.Errorf("header = %q", firstLine)
	}

	got, err := ReadCSV(&buf, opts)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if !reflect.DeepEqual(got, rows) {
		t.Errorf("ReadCSV = %+v, want %+v", got, rows)
	}
}

func TestReadCSV_MissingColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("entity_id;entity\nENT_00001;salt\n"), CSVOptions{})
	if err == nil {
		t.Error("expected error for missing columns")
	}
}

func TestBuilder_AddTagged(t *testing.T) {
	b := NewBuilder()
	sentence := "buy 2 apples and 2 bananas"
	tokens := strings.Fields(sentence)
	tags := []string{"O", "B-QTY", "B-FOOD", "O", "B-QTY", "B-FOOD"}

	rows, err := b.AddTagged("SENT_00001", sentence, tokens, tags)
	if err != nil {
		t.Fatalf("AddTagged: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}
	if rows[0].Start != 4 || rows[2].Start != 17 {
		t.Errorf("quantity offsets = %d, %d; want 4, 17", rows[0].Start, rows[2].Start)
	}
	if rows[0].UniqueEntityID != rows[2].UniqueEntityID {
		t.Errorf("same text got different unique ids: %s, %s", rows[0].UniqueEntityID, rows[2].UniqueEntityID)
	}
	if rows[3].EntityID != "ENT_00004" {
		t.Errorf("last entity id = %s, want ENT_00004", rows[3].EntityID)
	}

	more, err := b.AddTagged("SENT_00002", "apples", []string{"apples"}, []string{"B-FOOD"})
	if err != nil {
		t.Fatalf("AddTagged: %v", err)
	}
	if more[0].UniqueEntityID != rows[1].UniqueEntityID {
		t.Errorf("apples across sentences: %s vs %s", more[0].UniqueEntityID, rows[1].UniqueEntityID)
	}
	if b.UniqueEntities() != 3 {
		t.Errorf("UniqueEntities = %d, want 3", b.UniqueEntities())
	}
}

func TestBuilder_NotFound(t *testing.T) {
	b := NewBuilder()
	rows, err := b.AddTagged("SENT_00001", "do not stir", []string{"do", "n't"}, []string{"O", "B-X"})
	if err != nil {
		t.Fatalf("AddTagged: %v", err)
	}
	if rows[0].Start != -1 || rows[0].End != -1 || b.NotFound != 1 {
		t.Errorf("row = %+v, notFound = %d", rows[0], b.NotFound)
	}
}

func TestBuilder_AddAnnotated(t *testing.T) {
	b := NewBuilder()
	rows := b.AddAnnotated("SENT_00001", "1 cup olive oil", []Annotation{
		{Entity: "1", Type: "QUANTITY", Start: 0, End: 1},
		{Entity: "olive oil", Type: "FOOD", Start: 6, End: 15},
	})
	if rows[1].IOBTag != "B-FOOD I-FOOD" {
		t.Errorf("iob = %q", rows[1].IOBTag)
	}
	if rows[1].UniqueEntityID != "UENT_00002" {
		t.Errorf("unique id = %q", rows[1].UniqueEntityID)
	}
}

func TestReadCSV_BadTokenColumns(t *testing.T) {
	header := strings.Join(Header(CSVOptions{TokenColumns: true}), ";")
	for _, tail := range []string{"x;0", "0;x"} {
		in := header + "\nENT_00001;UENT_00001;SENT_00001;oil;FOOD;0;3;oil;B-FOOD;" + tail + "\n"
		if _, err := ReadCSV(strings.NewReader(in), CSVOptions{}); err == nil {
			t.Errorf("token columns %q: expected parse error", tail)
		}
	}
}
