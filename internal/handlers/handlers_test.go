package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tierlab/tierboard/internal/board"
	"github.com/tierlab/tierboard/internal/catalog"
	"github.com/tierlab/tierboard/internal/models"
	"github.com/tierlab/tierboard/internal/mutation"
	"github.com/tierlab/tierboard/internal/notify"
)

const testCatalogDoc = `
packages:
  animals:
    displayName: Animals
    images:
      - filename: cat.png
        label: Cat
        tags: [mammal]
      - filename: fish.png
        label: Fish
        tags: []
    tags:
      mammal:
        title: Mammals
`

func newTestHandler(t *testing.T) (*Handler, *board.Store) {
	t.Helper()

	cat, err := catalog.Parse([]byte(testCatalogDoc))
	if err != nil {
		t.Fatalf("Failed to parse test catalog: %v", err)
	}

	store := board.New()
	bus := notify.NewBus()
	h := New(Config{
		Catalog:   cat,
		Board:     store,
		Protocol:  mutation.New(store, bus),
		Bus:       bus,
		ImageRoot: t.TempDir(),
	})
	return h, store
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if err := json.NewDecoder(rec.Body).Decode(target); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func TestHandleItemSets(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.HandleItemSets(rec, httptest.NewRequest("GET", "/api/itemsets", nil))

	var sets []struct {
		PackageName string   `json:"package_name"`
		TagName     string   `json:"tag_name"`
		Images      []string `json:"images"`
	}
	decodeJSON(t, rec, &sets)

	if len(sets) != 2 {
		t.Fatalf("Expected 2 item sets, got %d", len(sets))
	}
	if sets[0].TagName != "all" || len(sets[0].Images) != 2 {
		t.Errorf("Unexpected all-set: %+v", sets[0])
	}
	if sets[1].TagName != "mammal" || len(sets[1].Images) != 1 {
		t.Errorf("Unexpected mammal set: %+v", sets[1])
	}
}

func TestCreateItemsAndUndoFlow(t *testing.T) {
	h, store := newTestHandler(t)

	body := `{"package":"animals","tag":"all","images":["cat.png","fish.png"]}`
	req := httptest.NewRequest("POST", "/api/board/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.HandleCreateItems(rec, req)

	var created struct {
		Items        []models.Item       `json:"items"`
		Notification notify.Notification `json:"notification"`
	}
	decodeJSON(t, rec, &created)

	if len(created.Items) != 2 {
		t.Fatalf("Expected 2 items created, got %d", len(created.Items))
	}
	if created.Items[0].ID != "animals-all-item-0" {
		t.Errorf("Expected id animals-all-item-0, got %s", created.Items[0].ID)
	}
	if store.Len() != 2 {
		t.Fatalf("Expected 2 items on board, got %d", store.Len())
	}

	undoPath := fmt.Sprintf("/api/notifications/%s/undo", created.Notification.ID)
	rec = httptest.NewRecorder()
	h.HandleNotificationDetail(rec, httptest.NewRequest("POST", undoPath, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected undo to succeed, got %d", rec.Code)
	}
	if store.Len() != 0 {
		t.Errorf("Expected empty board after undo, got %d items", store.Len())
	}

	// Second undo of the same notification is spent.
	rec = httptest.NewRecorder()
	h.HandleNotificationDetail(rec, httptest.NewRequest("POST", undoPath, nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for spent undo, got %d", rec.Code)
	}
}

func TestClearRequiresConfirmation(t *testing.T) {
	h, store := newTestHandler(t)
	store.AddItems([]models.Item{{ID: "a"}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/board/clear", strings.NewReader(`{"confirm":false}`))
	h.HandleClear(rec, req)

	var resp map[string]any
	decodeJSON(t, rec, &resp)
	if _, ok := resp["notification"]; ok {
		t.Error("Expected no notification for unconfirmed clear")
	}
	if store.Len() != 1 {
		t.Errorf("Expected board untouched, got %d items", store.Len())
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/api/board/clear", strings.NewReader(`{"confirm":true}`))
	h.HandleClear(rec, req)
	decodeJSON(t, rec, &resp)
	if _, ok := resp["notification"]; !ok {
		t.Error("Expected notification for confirmed clear")
	}
	if store.Len() != 0 {
		t.Errorf("Expected empty board, got %d items", store.Len())
	}
}

func TestResetEndpoint(t *testing.T) {
	h, store := newTestHandler(t)
	store.AddItems([]models.Item{{ID: "a"}})
	store.Place("a", "S", 0)

	rec := httptest.NewRecorder()
	h.HandleReset(rec, httptest.NewRequest("POST", "/api/board/reset", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if len(store.Placements()) != 0 {
		t.Error("Expected placements cleared")
	}
}

func TestItemPlacementEndpoint(t *testing.T) {
	h, store := newTestHandler(t)
	store.AddItems([]models.Item{{ID: "a"}})

	req := httptest.NewRequest("PUT", "/api/board/items/a/placement", strings.NewReader(`{"tier":"S","position":0}`))
	rec := httptest.NewRecorder()
	h.HandleItemPlacement(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if store.Placements()["a"].Tier != "S" {
		t.Errorf("Expected placement recorded, got %+v", store.Placements())
	}

	req = httptest.NewRequest("PUT", "/api/board/items/missing/placement", strings.NewReader(`{"tier":"S"}`))
	rec = httptest.NewRecorder()
	h.HandleItemPlacement(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown item, got %d", rec.Code)
	}
}

func TestBoardEndpoint(t *testing.T) {
	h, store := newTestHandler(t)
	store.AddItems([]models.Item{{ID: "a", Content: "A", Tags: []string{}}})
	store.Place("a", "S", 0)

	rec := httptest.NewRecorder()
	h.HandleBoard(rec, httptest.NewRequest("GET", "/api/board", nil))

	var resp struct {
		Items      []models.Item               `json:"items"`
		Placements map[string]models.Placement `json:"placements"`
	}
	decodeJSON(t, rec, &resp)
	if len(resp.Items) != 1 || resp.Placements["a"].Tier != "S" {
		t.Errorf("Unexpected board state: %+v", resp)
	}
}

func TestManifestUpload(t *testing.T) {
	h, store := newTestHandler(t)

	manifestPath := filepath.Join(t.TempDir(), "items.jsonl")
	content := `{"id":"m1","content":"Custom","image_url":"/images/uploads/m1.png","tags":[]}` + "\n"
	if err := os.WriteFile(manifestPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write manifest: %v", err)
	}

	body, _ := json.Marshal(map[string]string{"manifest_path": manifestPath})
	req := httptest.NewRequest("POST", "/api/upload", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.HandleUpload(rec, req)

	var resp struct {
		Items []models.Item `json:"items"`
	}
	decodeJSON(t, rec, &resp)
	if len(resp.Items) != 1 || resp.Items[0].ID != "m1" {
		t.Errorf("Unexpected upload result: %+v", resp.Items)
	}
	if store.Len() != 1 {
		t.Errorf("Expected 1 item on board, got %d", store.Len())
	}
}

func TestNotificationsList(t *testing.T) {
	h, _ := newTestHandler(t)

	body := `{"package":"animals","tag":"all","images":["cat.png"]}`
	req := httptest.NewRequest("POST", "/api/board/items", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleCreateItems(rec, req)

	rec = httptest.NewRecorder()
	h.HandleNotifications(rec, httptest.NewRequest("GET", "/api/notifications", nil))

	var notes []notify.Notification
	decodeJSON(t, rec, &notes)
	if len(notes) != 1 {
		t.Fatalf("Expected 1 pending notification, got %d", len(notes))
	}

	rec = httptest.NewRecorder()
	h.HandleNotificationDetail(rec, httptest.NewRequest("DELETE", "/api/notifications/"+notes[0].ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected dismiss to succeed, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.HandleNotifications(rec, httptest.NewRequest("GET", "/api/notifications", nil))
	notes = nil
	decodeJSON(t, rec, &notes)
	if len(notes) != 0 {
		t.Errorf("Expected no pending notifications, got %d", len(notes))
	}
}

func TestFileUploadUsesConfiguredUploadsDir(t *testing.T) {
	cat, err := catalog.Parse([]byte(testCatalogDoc))
	if err != nil {
		t.Fatalf("Failed to parse test catalog: %v", err)
	}

	store := board.New()
	bus := notify.NewBus()
	uploadsDir := t.TempDir()
	h := New(Config{
		Catalog:    cat,
		Board:      store,
		Protocol:   mutation.New(store, bus),
		Bus:        bus,
		ImageRoot:  t.TempDir(),
		UploadsDir: uploadsDir,
	})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("files", "dragon.png")
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := fw.Write([]byte("png bytes")); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	_ = mw.Close()

	req := httptest.NewRequest("POST", "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.HandleUpload(rec, req)

	var resp struct {
		Items []models.Item `json:"items"`
	}
	decodeJSON(t, rec, &resp)
	if len(resp.Items) != 1 {
		t.Fatalf("Expected 1 uploaded item, got %d", len(resp.Items))
	}
	if !strings.HasPrefix(resp.Items[0].ImageURL, "/images/uploads/") {
		t.Errorf("Expected upload URL under /images/uploads/, got %s", resp.Items[0].ImageURL)
	}

	entries, err := os.ReadDir(uploadsDir)
	if err != nil {
		t.Fatalf("Failed to read uploads dir: %v", err)
	}
	if len(entries) != 1 || !strings.HasSuffix(entries[0].Name(), "_dragon.png") {
		t.Fatalf("Expected one stored file in configured uploads dir, got %v", entries)
	}

	// The stored file is served back through the /images/uploads/ path.
	rec = httptest.NewRecorder()
	h.HandleImages(rec, httptest.NewRequest("GET", resp.Items[0].ImageURL, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected upload to be served, got %d", rec.Code)
	}
	if rec.Body.String() != "png bytes" {
		t.Errorf("Unexpected served contents: %q", rec.Body.String())
	}
}

func TestFileUploadSizeLimit(t *testing.T) {
	const maxUploadSize = 10 * 1024 * 1024

	tests := []struct {
		name     string
		size     int
		wantCode int
	}{
		{name: "exactly at limit", size: maxUploadSize, wantCode: http.StatusOK},
		{name: "one byte over limit", size: maxUploadSize + 1, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t)

			var buf bytes.Buffer
			mw := multipart.NewWriter(&buf)
			fw, err := mw.CreateFormFile("files", "big.png")
			if err != nil {
				t.Fatalf("Failed to create form file: %v", err)
			}
			if _, err := fw.Write(bytes.Repeat([]byte("a"), tt.size)); err != nil {
				t.Fatalf("Failed to write form file: %v", err)
			}
			_ = mw.Close()

			req := httptest.NewRequest("POST", "/api/upload", &buf)
			req.Header.Set("Content-Type", mw.FormDataContentType())
			rec := httptest.NewRecorder()
			h.HandleUpload(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("Expected status %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestImageTraversalBlocked(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.HandleImages(rec, httptest.NewRequest("GET", "/images/../secrets.txt", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for traversal path, got %d", rec.Code)
	}
}
