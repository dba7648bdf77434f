package config

import "time"

const (
	defaultStagingDir             = "~/.local/share/boardcheck/staging"
	defaultLogDir                 = "~/.local/share/boardcheck/logs"
	defaultThumbnailDir           = "~/.local/share/boardcheck/thumbnails"
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultMatchThreshold         = 0.65
	defaultVideoLanguage          = "English"
	defaultTrainingPollSeconds    = 10
	defaultTrainingTimeoutSeconds = 600
	defaultIndexingPollSeconds    = 30
	defaultIndexingTimeoutSeconds = 900
	defaultNotifyRequestTimeout   = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir:   defaultStagingDir,
			LogDir:       defaultLogDir,
			ThumbnailDir: defaultThumbnailDir,
		},
		Verification: Verification{
			MatchThreshold:         defaultMatchThreshold,
			VideoLanguage:          defaultVideoLanguage,
			TrainingPollSeconds:    defaultTrainingPollSeconds,
			TrainingTimeoutSeconds: defaultTrainingTimeoutSeconds,
			IndexingPollSeconds:    defaultIndexingPollSeconds,
			IndexingTimeoutSeconds: defaultIndexingTimeoutSeconds,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Run:            true,
			Flagged:        true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// TrainingPollInterval returns the training-status poll interval as a duration.
func (c *Config) TrainingPollInterval() time.Duration {
	return time.Duration(c.Verification.TrainingPollSeconds) * time.Second
}

// TrainingTimeout returns the training-status poll deadline as a duration.
func (c *Config) TrainingTimeout() time.Duration {
	return time.Duration(c.Verification.TrainingTimeoutSeconds) * time.Second
}

// IndexingPollInterval returns the video indexing poll interval as a duration.
func (c *Config) IndexingPollInterval() time.Duration {
	return time.Duration(c.Verification.IndexingPollSeconds) * time.Second
}

// IndexingTimeout returns the video indexing poll deadline as a duration.
func (c *Config) IndexingTimeout() time.Duration {
	return time.Duration(c.Verification.IndexingTimeoutSeconds) * time.Second
}
