// Package importer converts raw NER datasets into the normalized entity table.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Converter turns one raw dataset format into an entity table plus a
// manifest.yaml sidecar.
type Converter interface {
	// ID returns the unique identifier of this converter (e.g. "tasteset").
	ID() string
	// Description returns a human-readable description.
	Description() string
	// DefaultInput returns the input path used when none is given.
	DefaultInput() string
	// OutputFile returns the name of the table written into the output dir.
	OutputFile() string
	// License returns the license identifier of the source dataset.
	License() string
	// Convert reads opts.Input, rebuilds entity rows and writes the table
	// into opts.OutputDir.
	Convert(ctx context.Context, opts Options) (*Stats, error)
}

// Options configures one conversion run.
type Options struct {
	// Input is a file, a directory or an http(s) URL. Empty means DefaultInput.
	Input string
	// OutputDir receives the table and its manifest.
	OutputDir string
	// Encoding of CSV and JSONL inputs; empty or utf-8 means no
	// transcoding. Parquet is always UTF-8.
	Encoding string
	// Limit caps the number of sentences read; 0 reads everything.
	Limit  int
	Logger *slog.Logger
}

// DefaultOutputDir is where tables land when no output dir is given.
const DefaultOutputDir = "data/intermediate"

func (o Options) withDefaults(c Converter) Options {
	if o.Input == "" {
		o.Input = c.DefaultInput()
	}
	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	o.Logger = o.Logger.With("source", c.ID())
	return o
}

// Stats summarizes a conversion run.
type Stats struct {
	Sentences      int    `yaml:"sentences" json:"sentences"`
	Entities       int    `yaml:"entities" json:"entities"`
	UniqueEntities int    `yaml:"unique_entities" json:"unique_entities"`
	Duplicates     int    `yaml:"duplicates_removed" json:"duplicates_removed"`
	Skipped        int    `yaml:"skipped_rows" json:"skipped_rows"`
	NotFound       int    `yaml:"not_found" json:"not_found"`
	Orphans        int    `yaml:"orphan_tags" json:"orphan_tags"`
	Output         string `yaml:"-" json:"output"`
}

var (
	registryMu sync.RWMutex
	converters = make(map[string]Converter)
)

// Register adds a converter to the global registry.
func Register(c Converter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	converters[c.ID()] = c
}

// Get returns a registered converter by ID, or an error if not found.
func Get(id string) (Converter, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	c, ok := converters[id]
	if !ok {
		return nil, fmt.Errorf("unknown dataset source: %q", id)
	}
	return c, nil
}

// All returns all registered converters sorted by ID.
func All() []Converter {
	registryMu.RLock()
	defer registryMu.RUnlock()
	result := make([]Converter, 0, len(converters))
	for _, c := range converters {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID() < result[j].ID() })
	return result
}
