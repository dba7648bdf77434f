// Package blobstore stages input documents and validated output in object
// storage. It is a collaborator only; when storage is not configured a noop
// implementation is returned and the pipeline works from local paths.
package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"boardcheck/internal/config"
	"boardcheck/internal/services"
)

// Store describes the staging operations the pipeline uses.
type Store interface {
	// Upload puts a local file under the container and returns its remote URL.
	Upload(ctx context.Context, localPath, remoteName string) (string, error)
	// Download fetches a stored object into downloadDir and returns the local path.
	Download(ctx context.Context, remoteName, downloadDir string) (string, error)
}

// HTTPDoer describes the HTTP client used by the store.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewFromConfig returns an object-storage client when configured, otherwise
// a noop store.
func NewFromConfig(cfg *config.Config) Store {
	if cfg == nil || !cfg.BlobStore.Enabled {
		return noopStore{}
	}
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.BlobStore.Endpoint), "/")
	container := strings.TrimSpace(cfg.BlobStore.Container)
	if endpoint == "" || container == "" {
		return noopStore{}
	}
	return &httpStore{
		endpoint:  endpoint,
		apiKey:    strings.TrimSpace(cfg.BlobStore.APIKey),
		container: container,
		client:    &http.Client{Timeout: 2 * time.Minute},
	}
}

// NewHTTPStore constructs an HTTP-backed store, mainly for tests.
func NewHTTPStore(endpoint, apiKey, container string, client HTTPDoer) Store {
	return &httpStore{
		endpoint:  strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		apiKey:    strings.TrimSpace(apiKey),
		container: strings.TrimSpace(container),
		client:    client,
	}
}

type httpStore struct {
	endpoint  string
	apiKey    string
	container string
	client    HTTPDoer
}

func (s *httpStore) objectURL(remoteName string) string {
	return s.endpoint + "/" + path.Join(s.container, remoteName)
}

func (s *httpStore) Upload(ctx context.Context, localPath, remoteName string) (string, error) {
	if remoteName == "" {
		remoteName = filepath.Base(localPath)
	}
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("read upload source: %w", err)
	}

	target := s.objectURL(remoteName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrExternalService, "blobstore", "upload", remoteName, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", services.Wrap(services.ErrExternalService, "blobstore", "upload",
			fmt.Sprintf("storage returned %d", resp.StatusCode), nil)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return target, nil
}

func (s *httpStore) Download(ctx context.Context, remoteName, downloadDir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.objectURL(remoteName), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrExternalService, "blobstore", "download", remoteName, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", services.Wrap(services.ErrNotFound, "blobstore", "download", remoteName, nil)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", services.Wrap(services.ErrExternalService, "blobstore", "download",
			fmt.Sprintf("storage returned %d", resp.StatusCode), nil)
	}

	if err := os.MkdirAll(downloadDir, 0o755); err != nil {
		return "", fmt.Errorf("create download directory: %w", err)
	}
	target := filepath.Join(downloadDir, filepath.Base(remoteName))
	file, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create download target: %w", err)
	}
	defer file.Close()
	if _, err := io.Copy(file, resp.Body); err != nil {
		return "", fmt.Errorf("write download: %w", err)
	}
	return target, nil
}

type noopStore struct{}

func (noopStore) Upload(_ context.Context, localPath, _ string) (string, error) {
	return localPath, nil
}

func (noopStore) Download(_ context.Context, remoteName, _ string) (string, error) {
	return remoteName, nil
}
