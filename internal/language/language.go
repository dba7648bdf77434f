package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Codes of the indexing languages the video insight service supports.
var supportedCodes = []string{
	"en", "es", "fr", "de", "it", "pt", "ja", "ko", "zh",
	"ru", "ar", "hi", "nl", "pl", "sv", "da", "no", "fi",
}

// Index maps built at init time.
var (
	byCode map[string]string // ISO 639-1 -> display name
	byWord map[string]string // lowercase display name -> display name
)

func init() {
	byCode = make(map[string]string, len(supportedCodes))
	byWord = make(map[string]string, len(supportedCodes))
	namer := display.English.Languages()
	for _, code := range supportedCodes {
		tag := language.MustParse(code)
		name := namer.Name(tag)
		byCode[code] = name
		byWord[strings.ToLower(name)] = name
	}
}

// Normalize resolves a language word ("english"), ISO code ("en"), or BCP-47
// tag ("en-US") to the display name the video service accepts. The second
// return reports whether the value named a supported language.
func Normalize(value string) (string, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "", false
	}
	if name, ok := byWord[value]; ok {
		return name, true
	}
	tag, err := language.Parse(value)
	if err != nil {
		return "", false
	}
	base, conf := tag.Base()
	if conf == language.No {
		return "", false
	}
	if name, ok := byCode[base.String()]; ok {
		return name, true
	}
	return "", false
}

// Supported lists the display names of all supported indexing languages.
func Supported() []string {
	names := make([]string, 0, len(supportedCodes))
	for _, code := range supportedCodes {
		names = append(names, byCode[code])
	}
	return names
}
