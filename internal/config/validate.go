package config

import (
	"errors"
	"fmt"
	"strings"

	"boardcheck/internal/language"
)

// Validate ensures the configuration is usable. Service credentials are
// checked by the individual clients at construction so that commands that
// never touch a service still work from a bare config.
func (c *Config) Validate() error {
	if err := c.validateVerification(); err != nil {
		return err
	}
	if err := c.validateBlobStore(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateVerification() error {
	v := c.Verification
	if v.MatchThreshold < 0 || v.MatchThreshold > 1 {
		return errors.New("verification.match_threshold must be between 0 and 1")
	}
	if v.TrainingPollSeconds <= 0 {
		return errors.New("verification.training_poll_seconds must be positive")
	}
	if v.TrainingTimeoutSeconds <= 0 {
		return errors.New("verification.training_timeout_seconds must be positive")
	}
	if v.TrainingTimeoutSeconds < v.TrainingPollSeconds {
		return errors.New("verification.training_timeout_seconds must not be shorter than the poll interval")
	}
	if v.IndexingPollSeconds <= 0 {
		return errors.New("verification.indexing_poll_seconds must be positive")
	}
	if v.IndexingTimeoutSeconds < v.IndexingPollSeconds {
		return errors.New("verification.indexing_timeout_seconds must not be shorter than the poll interval")
	}
	if _, ok := language.Normalize(v.VideoLanguage); !ok {
		return fmt.Errorf("verification.video_language: unsupported language %q", v.VideoLanguage)
	}
	return nil
}

func (c *Config) validateBlobStore() error {
	if !c.BlobStore.Enabled {
		return nil
	}
	if strings.TrimSpace(c.BlobStore.Endpoint) == "" {
		return errors.New("blob_store.endpoint must be set when blob_store.enabled is true")
	}
	if strings.TrimSpace(c.BlobStore.Container) == "" {
		return errors.New("blob_store.container must be set when blob_store.enabled is true")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout < 0 {
		return errors.New("notifications.request_timeout must not be negative")
	}
	return nil
}
