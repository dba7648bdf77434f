package textutil

import "strings"

// Clean normalizes free-form text for comparison: leading/trailing
// whitespace is trimmed, letters are lowercased, and internal runs of
// whitespace collapse to a single underscore. All cross-checks between
// manifest fields and extracted document fields compare Clean output so
// that casing and spacing variance never produces a mismatch.
func Clean(value string) string {
	fields := strings.Fields(strings.ToLower(value))
	return strings.Join(fields, "_")
}

// SanitizeToken converts a string to a lowercase token safe for use in
// person-group identifiers and file names. Letters are lowercased, digits
// and hyphens/underscores are kept, everything else becomes an underscore.
// Returns "unknown" for empty input.
func SanitizeToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_-")
	if out == "" {
		return "unknown"
	}
	return out
}
