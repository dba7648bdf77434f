package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"boardcheck/internal/textutil"
)

// ErrMalformedRecord indicates a manifest file whose shape violates the
// caller contract: missing required columns or rows that do not match the
// header. Detected at load so the comparison functions never have to guard
// against absent keys.
var ErrMalformedRecord = errors.New("malformed manifest record")

// Column names as they appear in the manifest header.
const (
	ColFirstName   = "First Name"
	ColLastName    = "Last Name"
	ColDateOfBirth = "DateofBirth"
	ColFlightNo    = "Flight No"
	ColOrigin      = "Origin"
	ColDestination = "Destination"
	ColTime        = "Time"
	ColDate        = "Date"
)

var requiredColumns = []string{
	ColFirstName,
	ColLastName,
	ColDateOfBirth,
	ColFlightNo,
	ColOrigin,
	ColDestination,
	ColTime,
	ColDate,
}

// Record is one passenger row of the manifest. Immutable once loaded.
type Record struct {
	FirstName    string
	LastName     string
	DateOfBirth  string
	FlightNo     string
	Origin       string
	Destination  string
	BoardingTime string
	Date         string

	// Extra holds the values of any manifest columns beyond the required
	// set, keyed by normalized column name, so the validated output can
	// carry them through unchanged.
	Extra map[string]string
}

// FullName returns the concatenated first and last name, the key by which
// passengers are matched to their presented documents.
func (r Record) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// Manifest is a loaded passenger manifest with rows sorted by passenger
// name, preserving the original header for output.
type Manifest struct {
	Path    string
	Header  []string
	Records []Record
}

// Load reads a delimited manifest file, validates its shape, and returns
// rows sorted by concatenated first+last name.
func Load(path string) (*Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s has no header row", ErrMalformedRecord, path)
	}

	header := rows[0]
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[textutil.Clean(name)] = i
	}
	required := make(map[string]bool, len(requiredColumns))
	for _, col := range requiredColumns {
		key := textutil.Clean(col)
		if _, ok := index[key]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformedRecord, col)
		}
		required[key] = true
	}

	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("%w: row %d has %d fields, header has %d", ErrMalformedRecord, i+2, len(row), len(header))
		}
		field := func(col string) string { return row[index[textutil.Clean(col)]] }
		var extra map[string]string
		for j, name := range header {
			key := textutil.Clean(name)
			if required[key] {
				continue
			}
			if extra == nil {
				extra = make(map[string]string)
			}
			extra[key] = row[j]
		}
		records = append(records, Record{
			FirstName:    field(ColFirstName),
			LastName:     field(ColLastName),
			DateOfBirth:  field(ColDateOfBirth),
			FlightNo:     field(ColFlightNo),
			Origin:       field(ColOrigin),
			Destination:  field(ColDestination),
			BoardingTime: field(ColTime),
			Date:         field(ColDate),
			Extra:        extra,
		})
	}

	sort.SliceStable(records, func(a, b int) bool {
		return records[a].FirstName+records[a].LastName < records[b].FirstName+records[b].LastName
	})

	return &Manifest{Path: path, Header: header, Records: records}, nil
}

// ValidatedPath derives the output path for the validated manifest by
// replacing "manifest" in the input file name with "validated_manifest".
func ValidatedPath(path string) string {
	if strings.Contains(path, "manifest") {
		return strings.Replace(path, "manifest", "validated_manifest", 1)
	}
	return path + ".validated"
}
