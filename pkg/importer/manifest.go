package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Manifest describes one produced entity table.
type Manifest struct {
	ID        string   `yaml:"id"`
	Source    string   `yaml:"source"`
	SourceURL string   `yaml:"source_url,omitempty"`
	License   string   `yaml:"license"`
	DataFile  string   `yaml:"data_file"`
	Delimiter string   `yaml:"delimiter"`
	Columns   []string `yaml:"columns"`
	Checksum  string   `yaml:"checksum,omitempty"`
	Notes     []string `yaml:"notes,omitempty"`
	Generated string   `yaml:"generated"`
	Stats     Stats    `yaml:"stats"`
}

// manifestPath returns "<table>.manifest.yaml" next to the table.
func manifestPath(tablePath string) string {
	return strings.TrimSuffix(tablePath, filepath.Ext(tablePath)) + ".manifest.yaml"
}

// writeManifest writes m as YAML next to the table it describes, recording
// the table's BLAKE3 checksum.
func writeManifest(tablePath string, m *Manifest) error {
	if m.Generated == "" {
		m.Generated = time.Now().UTC().Format(time.RFC3339)
	}
	sum, err := fileChecksum(tablePath)
	if err != nil {
		return fmt.Errorf("checksum table: %w", err)
	}
	m.Checksum = "blake3:" + sum
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return os.WriteFile(manifestPath(tablePath), data, 0o644)
}

// LoadManifest reads the manifest written alongside tablePath.
func LoadManifest(tablePath string) (*Manifest, error) {
	p := manifestPath(tablePath)
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", p, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", p, err)
	}
	if m.ID == "" {
		return nil, fmt.Errorf("manifest %s: missing id", p)
	}
	return &m, nil
}
