package images

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("fake png bytes"))
	}))
	defer server.Close()

	dir := t.TempDir()
	name, err := NewFetcher().Download(server.URL+"/pics/cat.png", dir)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if name != "cat.png" {
		t.Errorf("Expected filename cat.png, got %s", name)
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("Failed to read downloaded file: %v", err)
	}
	if string(data) != "fake png bytes" {
		t.Errorf("Unexpected file contents: %q", data)
	}
}

func TestDownloadExtensionFromContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("bytes"))
	}))
	defer server.Close()

	name, err := NewFetcher().Download(server.URL+"/pics/noext", t.TempDir())
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if name != "noext.png" {
		t.Errorf("Expected noext.png, got %s", name)
	}
}

func TestDownloadSizeLimit(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{name: "exactly at limit", size: maxImageSize, wantErr: false},
		{name: "one byte over limit", size: maxImageSize + 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write(bytes.Repeat([]byte("a"), tt.size))
			}))
			defer server.Close()

			_, err := NewFetcher().Download(server.URL+"/big.png", t.TempDir())
			if tt.wantErr && err == nil {
				t.Error("Expected error for oversized image")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected image at the limit to be accepted, got %v", err)
			}
		})
	}
}

func TestDownloadErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	if _, err := NewFetcher().Download(server.URL+"/missing.png", t.TempDir()); err == nil {
		t.Error("Expected error for 404 response")
	}
}
