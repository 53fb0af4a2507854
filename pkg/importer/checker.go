package importer

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/hazyhaar/nerprep/pkg/spans"
)

// maxProblems bounds how many individual problems a Report keeps.
const maxProblems = 20

// Problem is one row that failed a consistency check.
type Problem struct {
	EntityID string `json:"entity_id"`
	Reason   string `json:"reason"`
}

// Report summarizes a table check.
type Report struct {
	Rows       int `json:"rows"`
	NotFound   int `json:"not_found"`
	Mismatched int `json:"mismatched"`
	BadIOB     int `json:"bad_iob"`
	Duplicates int `json:"duplicates"`

	// ChecksumMismatch is set when the table no longer matches the
	// checksum recorded in its manifest.
	ChecksumMismatch bool      `json:"checksum_mismatch,omitempty"`
	Problems         []Problem `json:"problems,omitempty"`
}

// OK reports whether every located row matched its sentence.
func (r *Report) OK() bool {
	return r.Mismatched == 0 && r.BadIOB == 0 && r.Duplicates == 0 && !r.ChecksumMismatch
}

func (r *Report) add(id, reason string) {
	if len(r.Problems) < maxProblems {
		r.Problems = append(r.Problems, Problem{EntityID: id, Reason: reason})
	}
}

// Checker re-reads produced entity tables and verifies that every span
// points at its entity text.
type Checker struct {
	logger *slog.Logger
}

// NewChecker creates a Checker logging through logger.
func NewChecker(logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{logger: logger}
}

// CheckTable verifies the table at path. The delimiter, token columns and
// checksum come from its manifest when one exists.
func (c *Checker) CheckTable(path string) (*Report, error) {
	opts := spans.CSVOptions{}
	wantSum := ""
	if m, err := LoadManifest(path); err == nil {
		if r := []rune(m.Delimiter); len(r) == 1 {
			opts.Delimiter = r[0]
		}
		opts.TokenColumns = slices.Contains(m.Columns, "token_start")
		wantSum = strings.TrimPrefix(m.Checksum, "blake3:")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	rows, err := spans.ReadCSV(f, opts)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", path, err)
	}
	rep := CheckRows(rows)
	if wantSum != "" {
		sum, err := fileChecksum(path)
		if err != nil {
			return nil, err
		}
		rep.ChecksumMismatch = sum != wantSum
	}

	for _, p := range rep.Problems {
		c.logger.Warn("inconsistent row", "table", path, "entity_id", p.EntityID, "reason", p.Reason)
	}
	c.logger.Info("table check complete",
		"table", path,
		"rows", rep.Rows,
		"not_found", rep.NotFound,
		"mismatched", rep.Mismatched,
		"bad_iob", rep.BadIOB,
		"duplicates", rep.Duplicates,
		"checksum_mismatch", rep.ChecksumMismatch,
	)
	return rep, nil
}

// CheckRows runs the consistency checks over rows already in memory.
func CheckRows(rows []spans.Row) *Report {
	rep := &Report{Rows: len(rows)}
	_, rep.Duplicates = spans.Dedupe(rows)

	for _, r := range rows {
		sp := spans.Span{Start: r.Start, End: r.End}
		if sp == spans.NotFound {
			rep.NotFound++
		} else if got := sp.Slice(r.Sentence); got != r.Entity {
			rep.Mismatched++
			rep.add(r.EntityID, fmt.Sprintf("sentence[%d:%d] = %q, entity %q", r.Start, r.End, got, r.Entity))
		}

		words := max(1, len(strings.Fields(r.Entity)))
		if n := len(strings.Fields(r.IOBTag)); n != words {
			rep.BadIOB++
			rep.add(r.EntityID, fmt.Sprintf("iob tag has %d labels for %d words", n, words))
		}
	}
	return rep
}
