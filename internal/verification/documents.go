package verification

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"boardcheck/internal/textutil"
)

// ErrMissingDocuments signals a manifest passenger with no presented
// document set, or a document set with a required source missing.
var ErrMissingDocuments = errors.New("passenger documents missing")

// DocumentSet lists the sources a passenger presented at the kiosk. IDCard
// and BoardingPass accept local paths or URLs; Video must be a local file.
type DocumentSet struct {
	FirstName    string `toml:"first_name"`
	LastName     string `toml:"last_name"`
	IDCard       string `toml:"id_card"`
	BoardingPass string `toml:"boarding_pass"`
	Video        string `toml:"video"`
}

// Key returns the normalized full-name key used to match a document set to
// its manifest record.
func (d DocumentSet) Key() string {
	return textutil.Clean(d.FirstName + " " + d.LastName)
}

type documentsFile struct {
	Passengers []DocumentSet `toml:"passengers"`
}

// LoadDocuments reads the passenger documents file and indexes the sets by
// normalized full name. Every set must name all three sources.
func LoadDocuments(path string) (map[string]DocumentSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read documents file: %w", err)
	}
	var parsed documentsFile
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse documents file: %w", err)
	}

	sets := make(map[string]DocumentSet, len(parsed.Passengers))
	for i, set := range parsed.Passengers {
		if strings.TrimSpace(set.FirstName) == "" || strings.TrimSpace(set.LastName) == "" {
			return nil, fmt.Errorf("%w: entry %d has no passenger name", ErrMissingDocuments, i+1)
		}
		for label, source := range map[string]string{
			"id_card":       set.IDCard,
			"boarding_pass": set.BoardingPass,
			"video":         set.Video,
		} {
			if strings.TrimSpace(source) == "" {
				return nil, fmt.Errorf("%w: %s %s has no %s", ErrMissingDocuments, set.FirstName, set.LastName, label)
			}
		}
		key := set.Key()
		if _, exists := sets[key]; exists {
			return nil, fmt.Errorf("duplicate document set for %s %s", set.FirstName, set.LastName)
		}
		sets[key] = set
	}
	return sets, nil
}
