package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"boardcheck/internal/config"
)

const userAgent = "boardcheck/0.1.0"

// Service defines the notification surface exposed to the verification run.
type Service interface {
	NotifyRunStarted(ctx context.Context, manifestPath string, passengers int) error
	NotifyPassengerFlagged(ctx context.Context, fullName, flightNo, reason string) error
	NotifyRunCompleted(ctx context.Context, verified, flagged, failed int, duration time.Duration) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		run:      cfg.Notifications.Run,
		flagged:  cfg.Notifications.Flagged,
		errors:   cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	run      bool
	flagged  bool
	errors   bool
}

func (n *ntfyService) NotifyRunStarted(ctx context.Context, manifestPath string, passengers int) error {
	if !n.run {
		return nil
	}
	data := payload{
		title:   "Boardcheck - Run Started",
		message: fmt.Sprintf("Verifying %d passengers from %s", passengers, strings.TrimSpace(manifestPath)),
		tags:    []string{"boardcheck", "run", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyPassengerFlagged(ctx context.Context, fullName, flightNo, reason string) error {
	if !n.flagged {
		return nil
	}
	fullName = strings.TrimSpace(fullName)
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "verification checks failed"
	}
	data := payload{
		title:    "Boardcheck - Passenger Flagged",
		message:  fmt.Sprintf("%s (flight %s): %s", fullName, strings.TrimSpace(flightNo), reason),
		tags:     []string{"boardcheck", "passenger", "flagged"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRunCompleted(ctx context.Context, verified, flagged, failed int, duration time.Duration) error {
	if !n.run {
		return nil
	}
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	durationText := duration.String()
	if duration == 0 {
		durationText = "0s"
	}

	var title, message string
	if flagged == 0 && failed == 0 {
		title = "Boardcheck - Run Complete"
		message = fmt.Sprintf("Run complete: %d passengers verified in %s", verified, durationText)
	} else {
		title = "Boardcheck - Run Complete (attention needed)"
		message = fmt.Sprintf("Run complete: %d verified, %d flagged, %d failed in %s",
			verified, flagged, failed, durationText)
	}

	data := payload{
		title:   title,
		message: message,
		tags:    []string{"boardcheck", "run", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Boardcheck - Error",
		message:  builder.String(),
		tags:     []string{"boardcheck", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Boardcheck - Test",
		message:  "Notification system test",
		tags:     []string{"boardcheck", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyRunStarted(context.Context, string, int) error                  { return nil }
func (noopService) NotifyPassengerFlagged(context.Context, string, string, string) error { return nil }
func (noopService) NotifyRunCompleted(context.Context, int, int, int, time.Duration) error {
	return nil
}
func (noopService) NotifyError(context.Context, error, string) error { return nil }
func (noopService) TestNotification(context.Context) error           { return nil }
