// Package manifest loads pre-built board items from files prepared
// outside the catalog, feeding the upload path. Items loaded here
// bypass the materializer entirely.
package manifest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/tierlab/tierboard/internal/models"
)

// Record is one manifest row. Missing ids are synthesized from the
// row's position so a sloppy manifest still imports cleanly.
type Record struct {
	ID       string   `json:"id" parquet:"id"`
	Content  string   `json:"content" parquet:"content"`
	ImageURL string   `json:"image_url" parquet:"image_url"`
	Tags     []string `json:"tags" parquet:"tags,list"`
}

// Loader handles loading of item manifests
type Loader struct {
	manifestPath string
}

// NewLoader creates a new manifest loader
func NewLoader(manifestPath string) *Loader {
	return &Loader{
		manifestPath: manifestPath,
	}
}

// Load loads items from a manifest file (JSONL or Parquet)
func (l *Loader) Load() ([]models.Item, error) {
	ext := strings.ToLower(filepath.Ext(l.manifestPath))

	switch ext {
	case ".parquet":
		return l.loadParquet()
	case ".jsonl", ".json":
		return l.loadJSONL()
	default:
		return nil, fmt.Errorf("unsupported manifest format: %s (supported: .parquet, .jsonl)", ext)
	}
}

// loadJSONL loads one item per line. Malformed lines are skipped
// with a warning rather than aborting the import.
func (l *Loader) loadJSONL() ([]models.Item, error) {
	slog.Debug("Opening JSONL manifest", "path", l.manifestPath)

	file, err := os.Open(l.manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest file: %w", err)
	}
	defer file.Close()

	var items []models.Item
	scanner := bufio.NewScanner(file)

	const maxCapacity = 1024 * 1024 // 1MB per line
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()

		if len(line) == 0 {
			continue
		}

		var record Record
		if err := json.Unmarshal(line, &record); err != nil {
			slog.Warn("Skipping malformed manifest line", "line", lineNum, "error", err)
			continue
		}

		items = append(items, record.toItem(len(items)))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading manifest: %w", err)
	}

	slog.Debug("Finished reading JSONL manifest", "items", len(items), "lines", lineNum)

	return items, nil
}

// loadParquet loads items from a Parquet manifest
func (l *Loader) loadParquet() ([]models.Item, error) {
	slog.Debug("Opening Parquet manifest", "path", l.manifestPath)

	file, err := os.Open(l.manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet manifest: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[Record](pf)
	defer reader.Close()

	var items []models.Item
	rows := make([]Record, 64)

	for {
		n, err := reader.Read(rows)
		for i := 0; i < n; i++ {
			items = append(items, rows[i].toItem(len(items)))
		}
		if err != nil {
			break
		}
	}

	slog.Debug("Finished reading Parquet manifest", "items", len(items))

	return items, nil
}

func (r Record) toItem(index int) models.Item {
	item := models.Item{
		ID:       r.ID,
		Content:  r.Content,
		ImageURL: r.ImageURL,
		Tags:     r.Tags,
	}
	if item.ID == "" {
		item.ID = fmt.Sprintf("manifest-item-%d", index)
	}
	if item.Content == "" {
		item.Content = item.ID
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}
	return item
}
