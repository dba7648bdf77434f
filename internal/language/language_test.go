package language_test

import (
	"testing"

	"boardcheck/internal/language"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"English", "English", true},
		{"english", "English", true},
		{"  en  ", "English", true},
		{"en-US", "English", true},
		{"ja", "Japanese", true},
		{"german", "German", true},
		{"", "", false},
		{"klingon", "", false},
	}
	for _, tc := range cases {
		got, ok := language.Normalize(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("Normalize(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestSupportedIncludesEnglish(t *testing.T) {
	for _, name := range language.Supported() {
		if name == "English" {
			return
		}
	}
	t.Fatal("Supported() missing English")
}
