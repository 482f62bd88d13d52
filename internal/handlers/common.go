package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/tierlab/tierboard/internal/board"
	"github.com/tierlab/tierboard/internal/catalog"
	"github.com/tierlab/tierboard/internal/images"
	"github.com/tierlab/tierboard/internal/itemset"
	"github.com/tierlab/tierboard/internal/mutation"
	"github.com/tierlab/tierboard/internal/notify"
)

type Handler struct {
	catalog    *catalog.Catalog
	sets       []itemset.ItemSet
	board      *board.Store
	protocol   *mutation.Protocol
	bus        *notify.Bus
	fetcher    *images.Fetcher
	imageRoot  string
	uploadsDir string
}

// Config wires the handler's collaborators together. UploadsDir
// defaults to the uploads subdirectory of ImageRoot; either way the
// stored files are served under /images/uploads/.
type Config struct {
	Catalog    *catalog.Catalog
	Board      *board.Store
	Protocol   *mutation.Protocol
	Bus        *notify.Bus
	ImageRoot  string
	UploadsDir string
}

func New(cfg Config) *Handler {
	uploadsDir := cfg.UploadsDir
	if uploadsDir == "" {
		uploadsDir = filepath.Join(cfg.ImageRoot, "uploads")
	}
	return &Handler{
		catalog: cfg.Catalog,
		// Derivation is deterministic, so the item set menu is
		// computed once per loaded catalog and served from cache.
		sets:       itemset.Derive(cfg.Catalog),
		board:      cfg.Board,
		protocol:   cfg.Protocol,
		bus:        cfg.Bus,
		fetcher:    images.NewFetcher(),
		imageRoot:  cfg.ImageRoot,
		uploadsDir: uploadsDir,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}
