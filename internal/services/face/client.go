package face

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"boardcheck/internal/services"
)

// HTTPDoer describes the HTTP client used by the face service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client provides access to the biometric face service.
type Client struct {
	endpoint   string
	apiKey     string
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

// New creates a face service client.
func New(endpoint, apiKey string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, services.Wrap(services.ErrConfiguration, "face", "new", "endpoint required", nil)
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "face", "new", "api key required", nil)
	}
	client := &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// CreatePersonGroup registers an empty person group under the given id.
func (c *Client) CreatePersonGroup(ctx context.Context, groupID, name string) error {
	payload := map[string]string{"name": name}
	return c.send(ctx, http.MethodPut, "/persongroups/"+url.PathEscape(groupID), payload, nil)
}

// CreatePerson adds a person entry to the group and returns its id.
func (c *Client) CreatePerson(ctx context.Context, groupID, name string) (string, error) {
	var out struct {
		PersonID string `json:"personId"`
	}
	path := fmt.Sprintf("/persongroups/%s/persons", url.PathEscape(groupID))
	if err := c.send(ctx, http.MethodPost, path, map[string]string{"name": name}, &out); err != nil {
		return "", err
	}
	if out.PersonID == "" {
		return "", services.Wrap(services.ErrExternalService, "face", "create person", "service returned no person id", nil)
	}
	return out.PersonID, nil
}

// AddPersonFace registers one reference face image for a person and returns
// the persisted face id.
func (c *Client) AddPersonFace(ctx context.Context, groupID, personID, source string) (string, error) {
	var out struct {
		PersistedFaceID string `json:"persistedFaceId"`
	}
	path := fmt.Sprintf("/persongroups/%s/persons/%s/persistedfaces", url.PathEscape(groupID), url.PathEscape(personID))
	if err := c.sendImage(ctx, path, source, &out); err != nil {
		return "", err
	}
	return out.PersistedFaceID, nil
}

// Train starts asynchronous training of the group.
func (c *Client) Train(ctx context.Context, groupID string) error {
	path := fmt.Sprintf("/persongroups/%s/train", url.PathEscape(groupID))
	return c.send(ctx, http.MethodPost, path, nil, nil)
}

// TrainingStatus reports the current training state of the group.
func (c *Client) TrainingStatus(ctx context.Context, groupID string) (*TrainingStatus, error) {
	var out TrainingStatus
	path := fmt.Sprintf("/persongroups/%s/training", url.PathEscape(groupID))
	if err := c.send(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePersonGroup removes the group and all faces enrolled under it.
func (c *Client) DeletePersonGroup(ctx context.Context, groupID string) error {
	return c.send(ctx, http.MethodDelete, "/persongroups/"+url.PathEscape(groupID), nil, nil)
}

// DetectFaces finds faces in an image and returns their session-scoped ids
// in service order.
func (c *Client) DetectFaces(ctx context.Context, source string) ([]string, error) {
	var out []struct {
		FaceID string `json:"faceId"`
	}
	if err := c.sendImage(ctx, "/detect", source, &out); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(out))
	for _, entry := range out {
		if entry.FaceID != "" {
			ids = append(ids, entry.FaceID)
		}
	}
	return ids, nil
}

// Verify compares two detected faces and reports whether they belong to the
// same person. Pure query, no side effects.
func (c *Client) Verify(ctx context.Context, faceA, faceB string) (*Verification, error) {
	if faceA == "" || faceB == "" {
		return nil, services.Wrap(services.ErrValidation, "face", "verify", "both face ids required", nil)
	}
	payload := map[string]string{"faceId1": faceA, "faceId2": faceB}
	var out Verification
	if err := c.send(ctx, http.MethodPost, "/verify", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Identify queries the group for candidate persons matching each face id.
// Results are ordered the same as the input face ids.
func (c *Client) Identify(ctx context.Context, faceIDs []string, groupID string) ([]Match, error) {
	if len(faceIDs) == 0 {
		return nil, services.Wrap(services.ErrValidation, "face", "identify", "at least one face id required", nil)
	}
	payload := map[string]any{"faceIds": faceIDs, "personGroupId": groupID}
	var out []Match
	if err := c.send(ctx, http.MethodPost, "/identify", payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) send(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.execute(req, path, out)
}

// sendImage posts an image source: URLs go by reference, local files are
// streamed as raw bytes.
func (c *Client) sendImage(ctx context.Context, path, source string, out any) error {
	resolved, err := services.ResolveSource(source)
	if err != nil {
		return services.Wrap(services.ErrValidation, "face", "resolve image", source, err)
	}
	var body io.Reader
	contentType := "application/json"
	if resolved.IsURL() {
		encoded, err := json.Marshal(map[string]string{"url": resolved.URL})
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	} else {
		data, err := services.ReadSource(resolved)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
		contentType = "application/octet-stream"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.execute(req, path, out)
}

func (c *Client) execute(req *http.Request, path string, out any) error {
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return services.Wrap(services.ErrExternalService, "face", req.Method+" "+path, "execute request", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return services.Wrap(services.ErrNotFound, "face", req.Method+" "+path, readErrorBody(resp.Body), nil)
	case resp.StatusCode >= http.StatusMultipleChoices:
		return services.Wrap(services.ErrExternalService, "face", req.Method+" "+path,
			fmt.Sprintf("service returned %d: %s", resp.StatusCode, readErrorBody(resp.Body)), nil)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func readErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, 2048))
	return strings.TrimSpace(string(data))
}
