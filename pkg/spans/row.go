package spans

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Row is one entity in the normalized output table.
type Row struct {
	EntityID       string
	UniqueEntityID string
	SentenceID     string
	Entity         string
	Type           string
	Start          int
	End            int
	Sentence       string
	IOBTag         string
	TokenStart     int
	TokenEnd       int
}

type rowKey struct {
	sentenceID, entity string
	start, end         int
}

// Dedupe drops rows that repeat (sentence id, entity, start, end), keeping
// the first. It returns the surviving rows and the number removed.
func Dedupe(rows []Row) ([]Row, int) {
	seen := make(map[rowKey]bool, len(rows))
	out := rows[:0:0]
	for _, r := range rows {
		k := rowKey{r.SentenceID, r.Entity, r.Start, r.End}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out, len(rows) - len(out)
}

// CSVOptions controls the output table layout.
type CSVOptions struct {
	Delimiter    rune
	TokenColumns bool
}

const DefaultDelimiter = ';'

var baseHeader = []string{
	"entity_id", "unique_entity_id", "sentence_id", "entity", "type",
	"start", "end", "sentence", "iob_tag",
}

// Header returns the column names written for opts.
func Header(opts CSVOptions) []string {
	h := append([]string(nil), baseHeader...)
	if opts.TokenColumns {
		h = append(h, "token_start", "token_end")
	}
	return h
}

// WriteCSV writes a header row followed by rows.
func WriteCSV(w io.Writer, rows []Row, opts CSVOptions) error {
	cw := csv.NewWriter(w)
	cw.Comma = delimiter(opts)

	if err := cw.Write(Header(opts)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.EntityID, r.UniqueEntityID, r.SentenceID, r.Entity, r.Type,
			strconv.Itoa(r.Start), strconv.Itoa(r.End), r.Sentence, r.IOBTag,
		}
		if opts.TokenColumns {
			rec = append(rec, strconv.Itoa(r.TokenStart), strconv.Itoa(r.TokenEnd))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %s: %w", r.EntityID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a table written by WriteCSV. Token columns are read when
// present in the header.
func ReadCSV(r io.Reader, opts CSVOptions) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter(opts)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}
	for _, col := range baseHeader {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %q in header %v", col, header)
		}
	}
	_, hasTokens := idx["token_start"]

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		row := Row{
			EntityID:       rec[idx["entity_id"]],
			UniqueEntityID: rec[idx["unique_entity_id"]],
			SentenceID:     rec[idx["sentence_id"]],
			Entity:         rec[idx["entity"]],
			Type:           rec[idx["type"]],
			Sentence:       rec[idx["sentence"]],
			IOBTag:         rec[idx["iob_tag"]],
		}
		if row.Start, err = strconv.Atoi(rec[idx["start"]]); err != nil {
			return nil, fmt.Errorf("row %s start: %w", row.EntityID, err)
		}
		if row.End, err = strconv.Atoi(rec[idx["end"]]); err != nil {
			return nil, fmt.Errorf("row %s end: %w", row.EntityID, err)
		}
		if hasTokens {
			if row.TokenStart, err = strconv.Atoi(rec[idx["token_start"]]); err != nil {
				return nil, fmt.Errorf("row %s token_start: %w", row.EntityID, err)
			}
			if row.TokenEnd, err = strconv.Atoi(rec[idx["token_end"]]); err != nil {
				return nil, fmt.Errorf("row %s token_end: %w", row.EntityID, err)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func delimiter(opts CSVOptions) rune {
	if opts.Delimiter == 0 {
		return DefaultDelimiter
	}
	return opts.Delimiter
}
