// Package testsupport provides helpers shared by package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"boardcheck/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// Service endpoints point at placeholders so accidental network calls fail
// fast, and it applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.ThumbnailDir = filepath.Join(base, "thumbnails")
	cfg.Face.Endpoint = "http://127.0.0.1:0"
	cfg.Face.APIKey = "test"
	cfg.FormRecognizer.Endpoint = "http://127.0.0.1:0"
	cfg.FormRecognizer.APIKey = "test"
	cfg.FormRecognizer.BoardingPassModelID = "test-model"
	cfg.VideoIndex.Endpoint = "http://127.0.0.1:0"
	cfg.VideoIndex.APIKey = "test"
	cfg.VideoIndex.AccountID = "test-account"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithThreshold overrides the match-confidence threshold on the test config.
func WithThreshold(threshold float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Verification.MatchThreshold = threshold
	}
}

// WithNtfyTopic points notifications at a test server topic.
func WithNtfyTopic(topic string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.NtfyTopic = topic
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StagingDir)
}
