package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tierlab/tierboard/internal/manifest"
	"github.com/tierlab/tierboard/internal/models"
)

// HandleUpload adds items built outside the catalog. Three sources
// are accepted: a JSON body naming an item manifest file, a JSON
// body with a remote image URL, or a multipart file upload. All of
// them bypass the materializer; the items arrive pre-built.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		h.handleJSONUpload(w, r)
		return
	}

	h.handleFileUpload(w, r)
}

func (h *Handler) handleJSONUpload(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ManifestPath string   `json:"manifest_path"`
		ImageURL     string   `json:"image_url"`
		Content      string   `json:"content"`
		Tags         []string `json:"tags"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	switch {
	case request.ManifestPath != "":
		items, err := manifest.NewLoader(request.ManifestPath).Load()
		if err != nil {
			h.writeError(w, "Failed to load manifest: "+err.Error(), http.StatusBadRequest)
			return
		}
		note := h.protocol.Create(items)
		h.writeJSON(w, map[string]any{
			"items":        items,
			"notification": note,
			"source":       "manifest",
		})

	case request.ImageURL != "":
		name, err := h.fetcher.Download(request.ImageURL, h.uploadsDir)
		if err != nil {
			h.writeError(w, "Failed to fetch image URL: "+err.Error(), http.StatusBadRequest)
			return
		}
		item := h.uploadedItem(name, request.Content, request.Tags)
		note := h.protocol.Create([]models.Item{item})
		h.writeJSON(w, map[string]any{
			"items":        []models.Item{item},
			"notification": note,
			"source":       "url",
		})

	default:
		h.writeError(w, "manifest_path or image_url is required", http.StatusBadRequest)
	}
}

func (h *Handler) handleFileUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("files")
	if err != nil {
		file, header, err = r.FormFile("file")
		if err != nil {
			h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	defer file.Close()

	// Limit file size to 10MB. Read one byte past the limit so a
	// file of exactly 10MB is still accepted.
	const maxUploadSize = 10 * 1024 * 1024
	fileData, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if len(fileData) > maxUploadSize {
		h.writeError(w, "File too large (max 10MB)", http.StatusBadRequest)
		return
	}

	if err := os.MkdirAll(h.uploadsDir, 0755); err != nil {
		h.writeError(w, "Failed to create uploads directory: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Prefix with a timestamp so repeated uploads of the same file
	// don't overwrite each other.
	storedName := fmt.Sprintf("%d_%s", time.Now().Unix(), filepath.Base(header.Filename))
	if err := os.WriteFile(filepath.Join(h.uploadsDir, storedName), fileData, 0644); err != nil {
		h.writeError(w, "Failed to save file: "+err.Error(), http.StatusInternalServerError)
		return
	}

	content := r.FormValue("content")
	item := h.uploadedItem(storedName, content, nil)
	note := h.protocol.Create([]models.Item{item})

	h.writeJSON(w, map[string]any{
		"items":        []models.Item{item},
		"notification": note,
		"source":       "file",
	})
}

// uploadedItem builds the item for a stored upload. Content falls
// back to the filename stem, the same fallback materialization uses.
func (h *Handler) uploadedItem(storedName, content string, tags []string) models.Item {
	stem := storedName
	if i := strings.Index(stem, "."); i >= 0 {
		stem = stem[:i]
	}
	if content == "" {
		content = stem
	}
	if tags == nil {
		tags = []string{}
	}
	return models.Item{
		ID:       fmt.Sprintf("upload-%s-%d", stem, time.Now().UnixNano()),
		Content:  content,
		ImageURL: "/images/uploads/" + storedName,
		Tags:     tags,
	}
}
