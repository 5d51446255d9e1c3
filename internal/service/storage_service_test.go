package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileSource_Fetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifesto.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.7"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := NewFileSource(path).Fetch(context.Background())
	if err != nil || string(data) != "%PDF-1.7" {
		t.Fatalf("unexpected fetch result %q, %v", data, err)
	}

	if _, err := NewFileSource(path + ".missing").Fetch(context.Background()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSupabaseStorage_Fetch(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if strings.HasSuffix(r.URL.Path, "missing.pdf") {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.7"))
	}))
	defer server.Close()

	storage := NewStorageService(server.URL+"/", "anon-key", "/documents/manifesto.pdf")
	data, err := storage.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "%PDF-1.7" {
		t.Fatalf("unexpected body %q", data)
	}
	if gotPath != "/storage/v1/object/documents/manifesto.pdf" {
		t.Fatalf("unexpected request path %s", gotPath)
	}
	if gotAuth != "Bearer anon-key" {
		t.Fatalf("unexpected authorization header %s", gotAuth)
	}

	missing := NewStorageService(server.URL, "anon-key", "documents/missing.pdf")
	if _, err := missing.Fetch(context.Background()); err == nil {
		t.Fatalf("expected error for missing object")
	}
}
