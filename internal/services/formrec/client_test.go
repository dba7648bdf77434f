package formrec_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"boardcheck/internal/services"
	"boardcheck/internal/services/formrec"
)

func newClient(t *testing.T, handler http.HandlerFunc) *formrec.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := formrec.New(server.URL, "key")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestAnalyzeIDDocumentFromFile(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "id.png")
	if err := os.WriteFile(doc, []byte("png"), 0o644); err != nil {
		t.Fatalf("write doc: %v", err)
	}

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/identity-documents/analyze" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"fields":{"FirstName":"jane","LastName":"doe","DateOfBirth":"1990-01-01","Address":"1 Main St"}}`))
	})

	result, err := client.AnalyzeIDDocument(context.Background(), doc)
	if err != nil {
		t.Fatalf("AnalyzeIDDocument returned error: %v", err)
	}
	if result.FirstName != "jane" || result.DateOfBirth != "1990-01-01" {
		t.Fatalf("unexpected document %+v", result)
	}
	if result.Source != doc {
		t.Fatalf("source not preserved: %q", result.Source)
	}
}

func TestAnalyzeBoardingPassUsesModelID(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/custom-models/model-7/analyze") {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload["source"] != "https://docs.example.com/bp.pdf" {
			t.Fatalf("unexpected payload %v", payload)
		}
		_, _ = w.Write([]byte(`{"fields":{"firstName":"Jane","lastName":"Doe","flightNo":"AB123","origin":"JFK","destination":"LAX","boardingTime":"10:00","date":"2024-01-01"}}`))
	})

	result, err := client.AnalyzeBoardingPass(context.Background(), "model-7", "https://docs.example.com/bp.pdf")
	if err != nil {
		t.Fatalf("AnalyzeBoardingPass returned error: %v", err)
	}
	if result.FlightNo != "AB123" || result.BoardingTime != "10:00" {
		t.Fatalf("unexpected boarding pass %+v", result)
	}
}

func TestAnalyzeBoardingPassRequiresModelID(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should not be sent")
	})
	_, err := client.AnalyzeBoardingPass(context.Background(), " ", "https://docs.example.com/bp.pdf")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestAnalyzeUnresolvableSource(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should not be sent")
	})
	_, err := client.AnalyzeIDDocument(context.Background(), "/missing/id.png")
	if !errors.Is(err, services.ErrUnresolvableSource) {
		t.Fatalf("expected ErrUnresolvableSource, got %v", err)
	}
}

func TestAnalyzeServerError(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := client.AnalyzeIDDocument(context.Background(), "https://docs.example.com/id.png")
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}
}
