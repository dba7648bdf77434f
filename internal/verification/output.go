package verification

import (
	"encoding/csv"
	"fmt"
	"os"

	"boardcheck/internal/manifest"
	"boardcheck/internal/textutil"
)

// Validation column names appended to the manifest header in the validated
// output file.
var validationColumns = []string{
	"BoardingPassValidation",
	"NameValidation",
	"DoBValidation",
	"PersonValidation",
	"LuggageValidation",
}

// WriteValidated writes the validated manifest: the original columns for
// every passenger plus the five validation columns. A passed check renders
// as "true", anything else as an empty cell. Extra manifest columns pass
// through unchanged. Passengers whose processing aborted get no row; their
// failure lives in the run log and the record store.
func WriteValidated(path string, header []string, results []*Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create validated manifest: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(append(append([]string{}, header...), validationColumns...)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, result := range results {
		if result.Failed() {
			continue
		}
		row := make([]string, 0, len(header)+len(validationColumns))
		for _, col := range header {
			row = append(row, manifestField(result.Manifest, col))
		}
		row = append(row,
			flagCell(result.BoardingPassValidation),
			flagCell(result.NameValidation),
			flagCell(result.DoBValidation),
			flagCell(result.PersonValidation),
			flagCell(result.LuggageValidation),
		)
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row for %s: %w", result.Manifest.FullName(), err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush validated manifest: %w", err)
	}
	return nil
}

func manifestField(rec manifest.Record, column string) string {
	key := textutil.Clean(column)
	switch key {
	case textutil.Clean(manifest.ColFirstName):
		return rec.FirstName
	case textutil.Clean(manifest.ColLastName):
		return rec.LastName
	case textutil.Clean(manifest.ColDateOfBirth):
		return rec.DateOfBirth
	case textutil.Clean(manifest.ColFlightNo):
		return rec.FlightNo
	case textutil.Clean(manifest.ColOrigin):
		return rec.Origin
	case textutil.Clean(manifest.ColDestination):
		return rec.Destination
	case textutil.Clean(manifest.ColTime):
		return rec.BoardingTime
	case textutil.Clean(manifest.ColDate):
		return rec.Date
	default:
		return rec.Extra[key]
	}
}

func flagCell(passed bool) string {
	if passed {
		return "true"
	}
	return ""
}
