package importer

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hazyhaar/nerprep/pkg/spans"
	"github.com/parquet-go/parquet-go"
)

func init() {
	Register(&humbleConverter{})
}

// humbleRecord is one sentence of the 1M food-NER corpus.
type humbleRecord struct {
	Sentence string   `parquet:"sentence" json:"sentence"`
	Tokens   []string `parquet:"nltk_tokens,list" json:"nltk_tokens"`
	Tags     []string `parquet:"iob_tags,list" json:"iob_tags"`
}

type humbleConverter struct{}

func (c *humbleConverter) ID() string { return "humble-1m" }
func (c *humbleConverter) Description() string {
	return "HumbleIntelligence food-NER 1M sentences (token/IOB tag sequences)"
}
func (c *humbleConverter) DefaultInput() string { return "data/raw/HumbleIntelligence-food-ner-1-Million" }
func (c *humbleConverter) OutputFile() string   { return "humble_intelligence_1million_entities.csv" }
func (c *humbleConverter) License() string      { return "Apache-2.0" }

func (c *humbleConverter) Convert(ctx context.Context, opts Options) (*Stats, error) {
	opts = opts.withDefaults(c)
	log := opts.Logger

	local, cleanup, err := fetchInput(ctx, opts.Input)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	records, err := readHumble(local, opts.Encoding, opts.Limit)
	if err != nil {
		return nil, err
	}
	log.Info("dataset loaded", "sentences", len(records))

	b := spans.NewBuilder()
	sentIDs := spans.NewSequence("SENT")
	stats := &Stats{}
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sentID := sentIDs.Next()
		stats.Sentences++

		// Sentences are matched lowercased, so entity tokens are too.
		sentence := strings.ToLower(rec.Sentence)
		tokens := make([]string, len(rec.Tokens))
		for i, tok := range rec.Tokens {
			tokens[i] = strings.ToLower(tok)
		}

		if _, err := b.AddTagged(sentID, sentence, tokens, rec.Tags); err != nil {
			log.Warn("skipping sentence", "sentence_id", sentID, "error", err)
			stats.Skipped++
		}
	}

	rows, dups := spans.Dedupe(b.Rows())
	if dups > 0 {
		log.Info("exact duplicates removed", "duplicates", dups, "remaining", len(rows))
	}
	stats.Entities = len(rows)
	stats.UniqueEntities = b.UniqueEntities()
	stats.Duplicates = dups
	stats.NotFound = b.NotFound
	stats.Orphans = b.Orphans

	csvOpts := spans.CSVOptions{TokenColumns: true}
	out, err := writeTable(opts.OutputDir, c.OutputFile(), rows, csvOpts)
	if err != nil {
		return nil, err
	}
	stats.Output = out

	m := &Manifest{
		ID:        c.ID(),
		Source:    "HumbleIntelligence food-ner-1-Million",
		License:   c.License(),
		DataFile:  c.OutputFile(),
		Delimiter: string(spans.DefaultDelimiter),
		Columns:   spans.Header(csvOpts),
		Notes:     []string{lowercaseNote},
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

// lowercaseNote tells table consumers how entity text differs from the
// raw tokens.
const lowercaseNote = "sentence and entity text are lowercased; unique_entity_id merges case variants of the same entity"

// readHumble loads records from a directory of train*.parquet shards, a
// single .parquet file or a .jsonl export with the same fields (optionally
// .xz or .gz compressed).
func readHumble(input, encoding string, limit int) ([]humbleRecord, error) {
	fi, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}

	var files []string
	if fi.IsDir() {
		files, err = filepath.Glob(filepath.Join(input, "train*.parquet"))
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no train*.parquet files in %s", input)
		}
		sort.Strings(files)
	} else {
		files = []string{input}
	}

	var records []humbleRecord
	for _, f := range files {
		var recs []humbleRecord
		if strings.HasSuffix(strings.ToLower(baseFormat(f)), ".jsonl") {
			recs, err = readHumbleJSONL(f, encoding)
		} else {
			recs, err = parquet.ReadFile[humbleRecord](f)
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		records = append(records, recs...)
		if limit > 0 && len(records) >= limit {
			return records[:limit], nil
		}
	}
	return records, nil
}

// readHumbleJSONL reads one record per line, transcoding from encoding
// first. Parquet shards are always UTF-8 and ignore it.
func readHumbleJSONL(path, encoding string) ([]humbleRecord, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := decodedReader(f, encoding)
	if err != nil {
		return nil, err
	}

	var recs []humbleRecord
	scan := bufio.NewScanner(r)
	scan.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scan.Scan() {
		line++
		text := strings.TrimSpace(scan.Text())
		if text == "" {
			continue
		}
		var rec humbleRecord
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		recs = append(recs, rec)
	}
	return recs, scan.Err()
}
