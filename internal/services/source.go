package services

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrUnresolvableSource indicates an input that is neither a fetchable URL
// nor an existing local file.
var ErrUnresolvableSource = errors.New("source is not a valid local file path or url")

// Source is a resolved document or image input. Exactly one of URL or Path
// is set.
type Source struct {
	URL  string
	Path string
}

// IsURL reports whether the source should be passed to services by
// reference rather than streamed.
func (s Source) IsURL() bool { return s.URL != "" }

// String returns the original reference for traceability.
func (s Source) String() string {
	if s.URL != "" {
		return s.URL
	}
	return s.Path
}

// ResolveSource classifies a raw source reference. Values starting with
// http(s):// or www. resolve as URLs; anything else must exist on disk.
func ResolveSource(raw string) (Source, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Source{}, ErrUnresolvableSource
	}
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "www.") {
		return Source{URL: raw}, nil
	}
	info, err := os.Stat(raw)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Source{}, fmt.Errorf("%w: %q", ErrUnresolvableSource, raw)
		}
		return Source{}, fmt.Errorf("stat source %q: %w", raw, err)
	}
	if info.IsDir() {
		return Source{}, fmt.Errorf("%w: %q is a directory", ErrUnresolvableSource, raw)
	}
	return Source{Path: raw}, nil
}

// ReadSource returns the raw bytes for a file-backed source. URL sources are
// fetched by the individual service clients, which pass them by reference.
func ReadSource(s Source) ([]byte, error) {
	if s.IsURL() {
		return nil, fmt.Errorf("source %q is a url, not a local file", s.URL)
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read source %q: %w", s.Path, err)
	}
	return data, nil
}
