package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// HandleNotifications lists the notifications whose undo is still
// invocable.
func (h *Handler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		h.writeJSON(w, h.protocol.Pending())
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleNotificationDetail routes per-notification actions:
// POST /api/notifications/{id}/undo and DELETE /api/notifications/{id}.
func (h *Handler) HandleNotificationDetail(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/notifications/")

	if id, ok := strings.CutSuffix(rest, "/undo"); ok {
		if r.Method != "POST" {
			h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if !h.protocol.Undo(id) {
			h.writeError(w, "No pending undo for notification", http.StatusNotFound)
			return
		}
		h.writeJSON(w, map[string]any{"undone": id})
		return
	}

	switch r.Method {
	case "DELETE":
		if !h.protocol.Dismiss(rest) {
			h.writeError(w, "Notification not found", http.StatusNotFound)
			return
		}
		h.writeJSON(w, map[string]any{"dismissed": rest})
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleNotificationStream streams notifications to the renderer as
// server-sent events.
func (h *Handler) HandleNotificationStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writeError(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := h.bus.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case note := <-ch:
			data, err := json.Marshal(note)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}
