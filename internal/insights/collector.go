package insights

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"boardcheck/internal/logging"
	"boardcheck/internal/services"
	"boardcheck/internal/services/videoindex"
)

var (
	// ErrIndexingFailed signals that the service gave up on the video.
	ErrIndexingFailed = errors.New("video indexing failed")
	// ErrIndexingTimeout signals that the video did not finish processing
	// within the configured window.
	ErrIndexingTimeout = errors.New("video indexing timed out")
	// ErrNoReferenceFaces signals that the insight document contains no
	// face thumbnails to verify against.
	ErrNoReferenceFaces = errors.New("no faces found in video insights")
	// ErrMissingInsights signals that the requested summary section was
	// absent from the insight document.
	ErrMissingInsights = errors.New("summarized insights unavailable")
)

// VideoClient is the subset of the insight service used by the collector.
type VideoClient interface {
	VideoIndex(ctx context.Context, videoID, videoLanguage string) (*videoindex.Index, error)
	Thumbnail(ctx context.Context, videoID, thumbnailID string) ([]byte, error)
}

// Summary aggregates the sentiment and emotion observations of one video.
type Summary struct {
	Sentiments []videoindex.Observation
	Emotions   []videoindex.Observation
}

// Collector extracts verification inputs from indexed videos.
type Collector struct {
	client        VideoClient
	videoLanguage string
	pollInterval  time.Duration
	timeout       time.Duration
	logger        *slog.Logger

	// sleep is replaceable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Collector.
type Option func(*Collector)

// WithPollInterval overrides the indexing-status poll interval.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Collector) {
		if interval > 0 {
			c.pollInterval = interval
		}
	}
}

// WithTimeout overrides the indexing wait deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Collector) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// NewCollector creates a Collector. A nil logger discards output.
func NewCollector(client VideoClient, videoLanguage string, logger *slog.Logger, opts ...Option) *Collector {
	if logger == nil {
		logger = logging.NewNop()
	}
	collector := &Collector{
		client:        client,
		videoLanguage: videoLanguage,
		pollInterval:  30 * time.Second,
		timeout:       15 * time.Minute,
		logger:        logger,
		sleep:         sleepContext,
	}
	for _, opt := range opts {
		opt(collector)
	}
	return collector
}

// AwaitIndexed polls the insight document until the video reaches a terminal
// processing state and returns the final document.
func (c *Collector) AwaitIndexed(ctx context.Context, videoID string) (*videoindex.Index, error) {
	ctx = services.WithComponent(ctx, "insights")
	logger := logging.WithContext(ctx, c.logger)
	deadline := time.Now().Add(c.timeout)
	for {
		index, err := c.client.VideoIndex(ctx, videoID, c.videoLanguage)
		if err != nil {
			return nil, fmt.Errorf("fetch index for %s: %w", videoID, err)
		}
		switch index.State {
		case videoindex.StateProcessed:
			return index, nil
		case videoindex.StateFailed:
			return nil, fmt.Errorf("index %s: %w", videoID, ErrIndexingFailed)
		}
		logger.Debug("video still processing",
			logging.String(logging.FieldVideoID, videoID),
			logging.String("state", string(index.State)))

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("index %s: %w", videoID, ErrIndexingTimeout)
		}
		if err := c.sleep(ctx, c.pollInterval); err != nil {
			return nil, err
		}
	}
}

// CollectReferenceFaces downloads the thumbnails of the first face found in
// the video into outputDir, namespaced by video id so concurrent runs never
// collide. The returned paths are in insight-document order.
func (c *Collector) CollectReferenceFaces(ctx context.Context, index *videoindex.Index, outputDir string) ([]string, error) {
	ctx = services.WithComponent(ctx, "insights")
	logger := logging.WithContext(ctx, c.logger)
	faceEntry, err := firstFace(index)
	if err != nil {
		return nil, err
	}
	targetDir := filepath.Join(outputDir, index.ID)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return nil, fmt.Errorf("create thumbnail dir: %w", err)
	}

	paths := make([]string, 0, len(faceEntry.Thumbnails))
	for _, thumb := range faceEntry.Thumbnails {
		data, err := c.client.Thumbnail(ctx, index.ID, thumb.ID)
		if err != nil {
			return nil, fmt.Errorf("download thumbnail %s: %w", thumb.ID, err)
		}
		// FileName comes from the service; only its base name is used as
		// a path component.
		name := filepath.Base(strings.TrimSpace(thumb.FileName))
		if name == "." || name == string(filepath.Separator) {
			name = thumb.ID + ".jpg"
		}
		path := filepath.Join(targetDir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write thumbnail %s: %w", name, err)
		}
		logger.Debug("reference thumbnail written",
			logging.String(logging.FieldVideoID, index.ID),
			logging.String("path", path))
		paths = append(paths, path)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("video %s: %w", index.ID, ErrNoReferenceFaces)
	}
	return paths, nil
}

// Summarize extracts the sentiment and emotion observations from the index.
// Either section being absent is an error so callers never mistake a missing
// summary for an empty one.
func (c *Collector) Summarize(index *videoindex.Index) (*Summary, error) {
	if index.SummarizedInsights == nil {
		return nil, fmt.Errorf("video %s: %w", index.ID, ErrMissingInsights)
	}
	if index.SummarizedInsights.Sentiments == nil {
		return nil, fmt.Errorf("video %s sentiments: %w", index.ID, ErrMissingInsights)
	}
	if index.SummarizedInsights.Emotions == nil {
		return nil, fmt.Errorf("video %s emotions: %w", index.ID, ErrMissingInsights)
	}
	return &Summary{
		Sentiments: index.SummarizedInsights.Sentiments,
		Emotions:   index.SummarizedInsights.Emotions,
	}, nil
}

func firstFace(index *videoindex.Index) (*videoindex.Face, error) {
	if len(index.Videos) == 0 || len(index.Videos[0].Insights.Faces) == 0 {
		return nil, fmt.Errorf("video %s: %w", index.ID, ErrNoReferenceFaces)
	}
	return &index.Videos[0].Insights.Faces[0], nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
