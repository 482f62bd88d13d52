package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tierlab/tierboard/internal/itemset"
)

// HandleBoard serves the current board state
func (h *Handler) HandleBoard(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		h.writeJSON(w, map[string]any{
			"items":      h.board.Items(),
			"placements": h.board.Placements(),
		})
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleCreateItems materializes an item set selection and adds the
// resulting items to the board.
func (h *Handler) HandleCreateItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		Package string   `json:"package"`
		Tag     string   `json:"tag"`
		Images  []string `json:"images"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	items := itemset.Materialize(h.catalog, request.Package, request.Tag, request.Images)
	note := h.protocol.Create(items)

	h.writeJSON(w, map[string]any{
		"items":        items,
		"notification": note,
	})
}

// HandleItemPlacement ranks a single item into a tier. Placing is a
// per-item edit, not a bulk mutation, so no undo notification is
// issued.
func (h *Handler) HandleItemPlacement(w http.ResponseWriter, r *http.Request) {
	if r.Method != "PUT" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/board/items/")
	id, ok := strings.CutSuffix(rest, "/placement")
	if !ok || id == "" {
		h.writeError(w, "Not found", http.StatusNotFound)
		return
	}

	var request struct {
		Tier     string `json:"tier"`
		Position int    `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if !h.board.Place(id, request.Tier, request.Position) {
		h.writeError(w, "Item not found", http.StatusNotFound)
		return
	}

	h.writeJSON(w, map[string]any{
		"id":       id,
		"tier":     request.Tier,
		"position": request.Position,
	})
}

// HandleReset clears every ranking on the board
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	note := h.protocol.Reset()
	h.writeJSON(w, map[string]any{"notification": note})
}

// HandleClear removes every item from the board. The request must
// carry the affirmative confirmation; declining is a no-op, not an
// error.
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		Confirm bool `json:"confirm"`
	}
	if r.Body != nil {
		// An absent or malformed body reads as not confirmed.
		_ = json.NewDecoder(r.Body).Decode(&request)
	}

	note, ok := h.protocol.DeleteAll(request.Confirm)
	if !ok {
		h.writeJSON(w, map[string]any{"message": "Clear not confirmed, board unchanged"})
		return
	}

	h.writeJSON(w, map[string]any{"notification": note})
}
