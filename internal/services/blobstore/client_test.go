package blobstore_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"boardcheck/internal/config"
	"boardcheck/internal/services/blobstore"
)

func TestNewFromConfigDisabledIsNoop(t *testing.T) {
	cfg := config.Default()
	store := blobstore.NewFromConfig(&cfg)

	local, err := store.Upload(context.Background(), "/tmp/whatever.csv", "x.csv")
	if err != nil {
		t.Fatalf("noop upload returned error: %v", err)
	}
	if local != "/tmp/whatever.csv" {
		t.Fatalf("noop upload should echo the local path, got %q", local)
	}
}

func TestUploadAndDownloadRoundTrip(t *testing.T) {
	objects := map[string][]byte{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			data := make([]byte, r.ContentLength)
			_, _ = r.Body.Read(data)
			objects[r.URL.Path] = data
			w.WriteHeader(http.StatusCreated)
		case http.MethodGet:
			data, ok := objects[r.URL.Path]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write(data)
		}
	}))
	t.Cleanup(server.Close)

	store := blobstore.NewHTTPStore(server.URL, "token", "documents", server.Client())

	src := filepath.Join(t.TempDir(), "manifest.csv")
	if err := os.WriteFile(src, []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	remote, err := store.Upload(context.Background(), src, "manifest.csv")
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if remote != server.URL+"/documents/manifest.csv" {
		t.Fatalf("unexpected remote url %q", remote)
	}

	downloadDir := t.TempDir()
	local, err := store.Download(context.Background(), "manifest.csv", downloadDir)
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	data, err := os.ReadFile(local)
	if err != nil {
		t.Fatalf("read download: %v", err)
	}
	if string(data) != "a,b\n1,2\n" {
		t.Fatalf("round trip mismatch: %q", string(data))
	}
}
