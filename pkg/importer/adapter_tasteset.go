package importer

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hazyhaar/nerprep/pkg/spans"
)

func init() {
	Register(&tastesetConverter{})
}

type tastesetConverter struct{}

func (c *tastesetConverter) ID() string           { return "tasteset" }
func (c *tastesetConverter) Description() string  { return "TASTEset recipe ingredients with annotated entity spans" }
func (c *tastesetConverter) DefaultInput() string { return "data/raw/TASTEset.csv" }
func (c *tastesetConverter) OutputFile() string   { return "tasteset_entities.csv" }
func (c *tastesetConverter) License() string      { return "CC-BY-4.0" }

var lineBreaks = strings.NewReplacer("\n", " ", "\r", " ")

func (c *tastesetConverter) Convert(ctx context.Context, opts Options) (*Stats, error) {
	opts = opts.withDefaults(c)
	log := opts.Logger

	local, cleanup, err := fetchInput(ctx, opts.Input)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	f, err := openInput(local)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader, err := decodedReader(f, opts.Encoding)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(reader)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	textIdx, entIdx := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) {
		case "ingredients":
			textIdx = i
		case "ingredients_entities":
			entIdx = i
		}
	}
	if textIdx < 0 || entIdx < 0 {
		return nil, fmt.Errorf("columns ingredients/ingredients_entities not found in header %v", header)
	}

	b := spans.NewBuilder()
	sentIDs := spans.NewSequence("SENT")
	stats := &Stats{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if opts.Limit > 0 && stats.Sentences >= opts.Limit {
			break
		}

		// Failed rows still consume their sentence id.
		sentID := sentIDs.Next()
		stats.Sentences++

		if textIdx >= len(record) || entIdx >= len(record) {
			log.Warn("error parsing row", "row", stats.Sentences-1, "error", "short record")
			stats.Skipped++
			continue
		}
		anns, err := parseAnnotations(record[entIdx])
		if err != nil {
			log.Warn("error parsing row", "row", stats.Sentences-1, "error", err)
			stats.Skipped++
			continue
		}
		b.AddAnnotated(sentID, lineBreaks.Replace(record[textIdx]), anns)
	}

	rows, dups := spans.Dedupe(b.Rows())
	stats.Entities = len(rows)
	stats.UniqueEntities = b.UniqueEntities()
	stats.Duplicates = dups

	csvOpts := spans.CSVOptions{}
	out, err := writeTable(opts.OutputDir, c.OutputFile(), rows, csvOpts)
	if err != nil {
		return nil, err
	}
	stats.Output = out
	log.Info("file saved", "path", out, "entities", stats.Entities)

	m := &Manifest{
		ID:        c.ID(),
		Source:    "TASTEset",
		License:   c.License(),
		DataFile:  c.OutputFile(),
		Delimiter: string(spans.DefaultDelimiter),
		Columns:   spans.Header(csvOpts),
		Stats:     *stats,
	}
	if isRemote(opts.Input) {
		m.SourceURL = opts.Input
	}
	if err := writeManifest(out, m); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}
	return stats, nil
}

// rawAnnotation detects keys missing from a TASTEset annotation.
type rawAnnotation struct {
	Entity *string `json:"entity"`
	Type   *string `json:"type"`
	Start  *int    `json:"start"`
	End    *int    `json:"end"`
}

// parseAnnotations decodes an ingredients_entities cell. The cell must be a
// JSON list and every annotation must carry entity, type, start and end.
func parseAnnotations(cell string) ([]spans.Annotation, error) {
	var raw *[]*rawAnnotation
	if err := json.Unmarshal([]byte(cell), &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("entities cell is null, want a list")
	}
	anns := make([]spans.Annotation, 0, len(*raw))
	for i, a := range *raw {
		if a == nil || a.Entity == nil || a.Type == nil || a.Start == nil || a.End == nil {
			return nil, fmt.Errorf("annotation %d: missing entity, type, start or end", i)
		}
		anns = append(anns, spans.Annotation{Entity: *a.Entity, Type: *a.Type, Start: *a.Start, End: *a.End})
	}
	return anns, nil
}
