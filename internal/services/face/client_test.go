package face_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"boardcheck/internal/services"
	"boardcheck/internal/services/face"
)

func newClient(t *testing.T, handler http.HandlerFunc) *face.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := face.New(server.URL, "key")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestNewRequiresEndpointAndKey(t *testing.T) {
	if _, err := face.New("", "key"); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if _, err := face.New("https://example.com", " "); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestDetectFacesFromFile(t *testing.T) {
	image := filepath.Join(t.TempDir(), "id.jpg")
	if err := os.WriteFile(image, []byte("jpegbytes"), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/detect" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Ocp-Apim-Subscription-Key") != "key" {
			t.Fatal("missing subscription key header")
		}
		if r.Header.Get("Content-Type") != "application/octet-stream" {
			t.Fatalf("expected octet-stream upload, got %s", r.Header.Get("Content-Type"))
		}
		_, _ = w.Write([]byte(`[{"faceId":"f1"},{"faceId":"f2"}]`))
	})

	ids, err := client.DetectFaces(context.Background(), image)
	if err != nil {
		t.Fatalf("DetectFaces returned error: %v", err)
	}
	if len(ids) != 2 || ids[0] != "f1" {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestDetectFacesFromURLSendsReference(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload["url"] != "https://img.example.com/a.jpg" {
			t.Fatalf("unexpected payload %v", payload)
		}
		_, _ = w.Write([]byte(`[]`))
	})

	ids, err := client.DetectFaces(context.Background(), "https://img.example.com/a.jpg")
	if err != nil {
		t.Fatalf("DetectFaces returned error: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected no ids, got %v", ids)
	}
}

func TestDetectFacesUnresolvableSource(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should not be sent")
	})
	_, err := client.DetectFaces(context.Background(), "/nope/missing.jpg")
	if !errors.Is(err, services.ErrUnresolvableSource) {
		t.Fatalf("expected ErrUnresolvableSource, got %v", err)
	}
}

func TestIdentifyPreservesOrder(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			FaceIDs       []string `json:"faceIds"`
			PersonGroupID string   `json:"personGroupId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload.PersonGroupID != "group-1" {
			t.Fatalf("unexpected group %q", payload.PersonGroupID)
		}
		_, _ = w.Write([]byte(`[
			{"faceId":"a","candidates":[{"personId":"p1","confidence":0.9},{"personId":"p2","confidence":0.4}]},
			{"faceId":"b","candidates":[]}
		]`))
	})

	matches, err := client.Identify(context.Background(), []string{"a", "b"}, "group-1")
	if err != nil {
		t.Fatalf("Identify returned error: %v", err)
	}
	if len(matches) != 2 || matches[0].FaceID != "a" || matches[1].FaceID != "b" {
		t.Fatalf("order not preserved: %+v", matches)
	}
	if matches[0].Candidates[0].Confidence != 0.9 {
		t.Fatalf("candidate order not preserved: %+v", matches[0].Candidates)
	}
}

func TestVerify(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"isIdentical":true,"confidence":0.87}`))
	})
	result, err := client.Verify(context.Background(), "f1", "f2")
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !result.IsIdentical || result.Confidence != 0.87 {
		t.Fatalf("unexpected verification %+v", result)
	}
}

func TestTrainingStatusNotFound(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	_, err := client.TrainingStatus(context.Background(), "missing")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServerErrorIsExternal(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	err := client.Train(context.Background(), "group-1")
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}
}
