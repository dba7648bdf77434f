package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StagingDir   string `toml:"staging_dir"`
	LogDir       string `toml:"log_dir"`
	ThumbnailDir string `toml:"thumbnail_dir"`
}

// Face contains configuration for the biometric face service.
type Face struct {
	Endpoint string `toml:"endpoint"`
	APIKey   string `toml:"api_key"`
}

// FormRecognizer contains configuration for the document field-extraction service.
type FormRecognizer struct {
	Endpoint            string `toml:"endpoint"`
	APIKey              string `toml:"api_key"`
	BoardingPassModelID string `toml:"boarding_pass_model_id"`
}

// VideoIndex contains configuration for the video insight service.
type VideoIndex struct {
	Endpoint  string `toml:"endpoint"`
	APIKey    string `toml:"api_key"`
	AccountID string `toml:"account_id"`
}

// BlobStore contains configuration for object-storage staging of inputs and outputs.
type BlobStore struct {
	Enabled   bool   `toml:"enabled"`
	Endpoint  string `toml:"endpoint"`
	APIKey    string `toml:"api_key"`
	Container string `toml:"container"`
}

// Verification contains the tunable decision parameters of the pipeline.
type Verification struct {
	// MatchThreshold is the identify-candidate confidence a presented face
	// must exceed (strictly) to count as the enrolled person.
	MatchThreshold float64 `toml:"match_threshold"`
	// PersonGroupID overrides the generated per-run group identifier.
	PersonGroupID string `toml:"person_group_id"`
	// VideoLanguage is the indexing language for passenger videos.
	VideoLanguage          string `toml:"video_language"`
	TrainingPollSeconds    int    `toml:"training_poll_seconds"`
	TrainingTimeoutSeconds int    `toml:"training_timeout_seconds"`
	IndexingPollSeconds    int    `toml:"indexing_poll_seconds"`
	IndexingTimeoutSeconds int    `toml:"indexing_timeout_seconds"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Run            bool   `toml:"run"`
	Flagged        bool   `toml:"flagged"`
	Errors         bool   `toml:"errors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for boardcheck.
//
// Configuration sections by subsystem:
//   - Paths: staging, log, and thumbnail directories
//   - Face: biometric service (person groups, detect, verify, identify)
//   - FormRecognizer: identity-document and boarding-pass field extraction
//   - VideoIndex: video upload, insight retrieval, thumbnails
//   - BlobStore: optional object-storage staging
//   - Verification: thresholds, poll intervals, video language
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths          Paths          `toml:"paths"`
	Face           Face           `toml:"face"`
	FormRecognizer FormRecognizer `toml:"form_recognizer"`
	VideoIndex     VideoIndex     `toml:"video_index"`
	BlobStore      BlobStore      `toml:"blob_store"`
	Verification   Verification   `toml:"verification"`
	Notifications  Notifications  `toml:"notifications"`
	Logging        Logging        `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/boardcheck/config.toml")
}

// SampleConfig returns the embedded annotated sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The second and third
// returns are the resolved path and whether a file existed there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("boardcheck.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	var err error
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ThumbnailDir) == "" {
		c.Paths.ThumbnailDir = defaultThumbnailDir
	}
	if c.Paths.ThumbnailDir, err = expandPath(c.Paths.ThumbnailDir); err != nil {
		return fmt.Errorf("paths.thumbnail_dir: %w", err)
	}
	c.Face.Endpoint = strings.TrimRight(strings.TrimSpace(c.Face.Endpoint), "/")
	c.FormRecognizer.Endpoint = strings.TrimRight(strings.TrimSpace(c.FormRecognizer.Endpoint), "/")
	c.VideoIndex.Endpoint = strings.TrimRight(strings.TrimSpace(c.VideoIndex.Endpoint), "/")
	c.BlobStore.Endpoint = strings.TrimRight(strings.TrimSpace(c.BlobStore.Endpoint), "/")
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaultLogFormat
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

// EnsureDirectories creates the directories a run needs.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.LogDir, c.Paths.ThumbnailDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
