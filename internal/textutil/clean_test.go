package textutil_test

import (
	"testing"

	"boardcheck/internal/textutil"
)

func TestCleanNormalizesCaseAndWhitespace(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Jane", "jane"},
		{"  Jane  ", "jane"},
		{"JANE DOE", "jane_doe"},
		{"jane\t van  doe", "jane_van_doe"},
		{"", ""},
		{"   ", ""},
		{"AB123", "ab123"},
	}
	for _, tc := range cases {
		if got := textutil.Clean(tc.in); got != tc.want {
			t.Errorf("Clean(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	inputs := []string{"Jane Doe", "  mixed   Case\tText ", "already_clean"}
	for _, in := range inputs {
		once := textutil.Clean(in)
		if twice := textutil.Clean(once); twice != once {
			t.Errorf("Clean not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestSanitizeToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Jane Doe", "jane_doe"},
		{"", "unknown"},
		{"___", "unknown"},
		{"Flight AB-123", "flight_ab-123"},
	}
	for _, tc := range cases {
		if got := textutil.SanitizeToken(tc.in); got != tc.want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
