package handlers

import (
	"net/http"
	"path/filepath"
	"strings"
)

// HandleImages serves package and upload images from the image root.
// Item image URLs always take the /images/<package>/<filename> form.
func (h *Handler) HandleImages(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, "/images/")

	// Prevent directory traversal attacks
	if rel == "" || strings.Contains(rel, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	// Uploads live in their own directory, which may sit outside the
	// image root, but are always addressed as /images/uploads/.
	if name, ok := strings.CutPrefix(rel, "uploads/"); ok {
		http.ServeFile(w, r, filepath.Join(h.uploadsDir, filepath.FromSlash(name)))
		return
	}

	http.ServeFile(w, r, filepath.Join(h.imageRoot, filepath.FromSlash(rel)))
}
