package manifest_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"boardcheck/internal/manifest"
)

const sampleManifest = `First Name,Last Name,DateofBirth,Flight No,Origin,Destination,Time,Date
Zoe,Young,1985-05-05,CD456,SFO,SEA,09:30,2024-01-02
Jane,Doe,1990-01-01,AB123,JFK,LAX,10:00,2024-01-01
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flight_manifest.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadSortsByFullName(t *testing.T) {
	m, err := manifest.Load(writeManifest(t, sampleManifest))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(m.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(m.Records))
	}
	if m.Records[0].FirstName != "Jane" || m.Records[1].FirstName != "Zoe" {
		t.Fatalf("records not sorted by name: %+v", m.Records)
	}
	rec := m.Records[0]
	if rec.FlightNo != "AB123" || rec.BoardingTime != "10:00" || rec.DateOfBirth != "1990-01-01" {
		t.Fatalf("fields misread: %+v", rec)
	}
	if rec.FullName() != "Jane Doe" {
		t.Fatalf("unexpected full name %q", rec.FullName())
	}
}

func TestLoadMissingColumn(t *testing.T) {
	content := "First Name,Last Name,Flight No,Origin,Destination,Time,Date\nJane,Doe,AB123,JFK,LAX,10:00,2024-01-01\n"
	_, err := manifest.Load(writeManifest(t, content))
	if !errors.Is(err, manifest.ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	_, err := manifest.Load(writeManifest(t, ""))
	if !errors.Is(err, manifest.ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
}

func TestValidatedPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"data/flight_manifest.csv", "data/flight_validated_manifest.csv"},
		{"manifest.csv", "validated_manifest.csv"},
		{"passengers.csv", "passengers.csv.validated"},
	}
	for _, tc := range cases {
		if got := manifest.ValidatedPath(tc.in); got != tc.want {
			t.Errorf("ValidatedPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLoadKeepsExtraColumns(t *testing.T) {
	content := `First Name,Last Name,DateofBirth,Flight No,Origin,Destination,Time,Date,Seat No
Jane,Doe,1990-01-01,AB123,JFK,LAX,10:00,2024-01-01,12A
`
	m, err := manifest.Load(writeManifest(t, content))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(m.Header) != 9 {
		t.Fatalf("expected 9 header columns, got %d", len(m.Header))
	}
	if got := m.Records[0].Extra["seat_no"]; got != "12A" {
		t.Fatalf("expected extra column value 12A, got %q", got)
	}
	if m.Records[0].Extra["first_name"] != "" {
		t.Fatal("required columns must not duplicate into Extra")
	}
}
