package formrec

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

// IDDocument holds the fields extracted from an identity document. Values
// are the raw strings the service returned.
type IDDocument struct {
	Source      string
	FirstName   string
	LastName    string
	DateOfBirth string
	Address     string
}

// BoardingPass holds the fields extracted from a boarding pass by the
// airline's custom model.
type BoardingPass struct {
	Source       string
	FirstName    string
	LastName     string
	Date         string
	Origin       string
	Destination  string
	FlightNo     string
	BoardingTime string
}

// HTTPDoer describes the HTTP client used by the extraction service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client provides access to the document field-extraction service.
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

// New creates an extraction service client.
func New(endpoint, apiKey string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, services.Wrap(services.ErrConfiguration, "formrec", "new", "endpoint required", nil)
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "formrec", "new", "api key required", nil)
	}
	client := &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// AnalyzeIDDocument extracts the identity fields from a document image,
// passed as a fetchable URL or a local file path.
func (c *Client) AnalyzeIDDocument(ctx context.Context, source string) (*IDDocument, error) {
	fields, err := c.analyze(ctx, "/identity-documents/analyze", source)
	if err != nil {
		return nil, err
	}
	return &IDDocument{
		Source:      source,
		FirstName:   fields["FirstName"],
		LastName:    fields["LastName"],
		DateOfBirth: fields["DateOfBirth"],
		Address:     fields["Address"],
	}, nil
}

// AnalyzeBoardingPass extracts boarding-pass fields using the custom model
// identified by modelID.
func (c *Client) AnalyzeBoardingPass(ctx context.Context, modelID, source string) (*BoardingPass, error) {
	if strings.TrimSpace(modelID) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "formrec", "analyze boarding pass", "model id required", nil)
	}
	path := fmt.Sprintf("/custom-models/%s/analyze", url.PathEscape(modelID))
	fields, err := c.analyze(ctx, path, source)
	if err != nil {
		return nil, err
	}
	return &BoardingPass{
		Source:       source,
		FirstName:    fields["firstName"],
		LastName:     fields["lastName"],
		Date:         fields["date"],
		Origin:       fields["origin"],
		Destination:  fields["destination"],
		FlightNo:     fields["flightNo"],
		BoardingTime: fields["boardingTime"],
	}, nil
}

func (c *Client) analyze(ctx context.Context, path, source string) (map[string]string, error) {
	resolved, err := services.ResolveSource(source)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	contentType := "application/json"
	if resolved.IsURL() {
		encoded, err := json.Marshal(map[string]string{"source": resolved.URL})
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	} else {
		data, err := services.ReadSource(resolved)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
		contentType = "application/octet-stream"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "formrec", "analyze", "execute request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, services.Wrap(services.ErrExternalService, "formrec", "analyze",
			fmt.Sprintf("service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data))), nil)
	}

	var payload struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if payload.Fields == nil {
		payload.Fields = map[string]string{}
	}
	return payload.Fields, nil
}
