// Package images retrieves remote images for the upload path.
package images

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Fetcher downloads images referenced by URL during upload
type Fetcher struct {
	HTTPClient *http.Client
}

// NewFetcher creates a new image fetcher
func NewFetcher() *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// maxImageSize caps downloads at 10MB, matching the file upload limit
const maxImageSize = 10 * 1024 * 1024

// Download fetches the image at rawURL into destDir and returns the
// stored filename. The filename comes from the URL path, falling
// back to a content-type derived extension when the path has none.
func (f *Fetcher) Download(rawURL, destDir string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid image URL: %w", err)
	}

	resp, err := f.HTTPClient.Get(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image URL returned status %d", resp.StatusCode)
	}

	// Read one byte past the limit so an image of exactly the
	// maximum size is still accepted.
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read image data: %w", err)
	}
	if len(data) > maxImageSize {
		return "", fmt.Errorf("image too large (max 10MB)")
	}

	name := path.Base(parsed.Path)
	if name == "" || name == "/" || name == "." {
		name = "image"
	}
	if path.Ext(name) == "" {
		name += extensionFor(resp.Header.Get("Content-Type"))
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create destination directory: %w", err)
	}

	outputPath := filepath.Join(destDir, name)
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return name, nil
}

func extensionFor(contentType string) string {
	switch {
	case strings.Contains(contentType, "png"):
		return ".png"
	case strings.Contains(contentType, "gif"):
		return ".gif"
	case strings.Contains(contentType, "webp"):
		return ".webp"
	default:
		return ".jpg"
	}
}
