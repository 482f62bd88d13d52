package catalog

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and parses a catalog file. YAML and JSON documents are
// both accepted; JSON parses through the YAML decoder, which keeps
// mapping order either way.
func Load(path string) (*Catalog, error) {
	slog.Debug("Loading catalog", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}

	slog.Debug("Catalog loaded", "path", path, "packages", len(cat.Packages))

	return cat, nil
}

// Parse decodes a catalog document from raw bytes
func Parse(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}
