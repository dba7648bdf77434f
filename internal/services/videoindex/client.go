package videoindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"boardcheck/internal/services"
)

// HTTPDoer describes the HTTP client used by the video insight service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client provides access to the video insight service.
type Client struct {
	endpoint   string
	apiKey     string
	accountID  string
	httpClient HTTPDoer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a video insight client.
func New(endpoint, apiKey, accountID string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, services.Wrap(services.ErrConfiguration, "videoindex", "new", "endpoint required", nil)
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "videoindex", "new", "api key required", nil)
	}
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, services.Wrap(services.ErrConfiguration, "videoindex", "new", "account id required", nil)
	}
	client := &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		accountID:  accountID,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Upload submits a local video file for indexing and returns the opaque
// video id the service assigned.
func (c *Client) Upload(ctx context.Context, path, name, videoLanguage string) (string, error) {
	resolved, err := services.ResolveSource(path)
	if err != nil {
		return "", err
	}
	if resolved.IsURL() {
		return "", services.Wrap(services.ErrValidation, "videoindex", "upload", "video must be a local file", nil)
	}
	data, err := services.ReadSource(resolved)
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("name", name)
	params.Set("language", videoLanguage)
	endpoint := fmt.Sprintf("%s/accounts/%s/videos?%s", c.endpoint, url.PathEscape(c.accountID), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	var out struct {
		ID string `json:"id"`
	}
	if err := c.execute(req, "upload", &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", services.Wrap(services.ErrExternalService, "videoindex", "upload", "service returned no video id", nil)
	}
	return out.ID, nil
}

// VideoIndex fetches the insight document for an uploaded video, including
// its processing state.
func (c *Client) VideoIndex(ctx context.Context, videoID, videoLanguage string) (*Index, error) {
	params := url.Values{}
	params.Set("language", videoLanguage)
	endpoint := fmt.Sprintf("%s/accounts/%s/videos/%s/index?%s",
		c.endpoint, url.PathEscape(c.accountID), url.PathEscape(videoID), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	var out Index
	if err := c.execute(req, "index", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Thumbnail downloads the raw image bytes for one face thumbnail.
func (c *Client) Thumbnail(ctx context.Context, videoID, thumbnailID string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/accounts/%s/videos/%s/thumbnails/%s",
		c.endpoint, url.PathEscape(c.accountID), url.PathEscape(videoID), url.PathEscape(thumbnailID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "videoindex", "thumbnail", "execute request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, services.Wrap(services.ErrNotFound, "videoindex", "thumbnail", thumbnailID, nil)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, services.Wrap(services.ErrExternalService, "videoindex", "thumbnail",
			fmt.Sprintf("service returned %d", resp.StatusCode), nil)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read thumbnail: %w", err)
	}
	return data, nil
}

func (c *Client) execute(req *http.Request, operation string, out any) error {
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return services.Wrap(services.ErrExternalService, "videoindex", operation, "execute request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return services.Wrap(services.ErrNotFound, "videoindex", operation, readErrorBody(resp.Body), nil)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return services.Wrap(services.ErrExternalService, "videoindex", operation,
			fmt.Sprintf("service returned %d: %s", resp.StatusCode, readErrorBody(resp.Body)), nil)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func readErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, 2048))
	return strings.TrimSpace(string(data))
}
