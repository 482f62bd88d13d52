package handlers

import "net/http"

// HandleItemSets serves the derived item set catalog that populates
// the selection menu.
func (h *Handler) HandleItemSets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		h.writeJSON(w, h.sets)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
