package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"steameagle/internal/config"
)

const userAgent = "steameagle/0.1.0"

// SyncSummary describes a finished sync run for the completion notification.
type SyncSummary struct {
	Stages           []string
	Games            int
	NewGames         int
	ImagesDownloaded int
	ImageFailures    int
	TagFailures      int
	Imported         int
	Duration         time.Duration
}

// Service defines the notification surface exposed to the sync workflow.
type Service interface {
	NotifySyncCompleted(ctx context.Context, summary SyncSummary) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:   topic,
		client:     &http.Client{Timeout: timeout},
		syncEvents: cfg.Notifications.Sync,
		errEvents:  cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint   string
	client     *http.Client
	syncEvents bool
	errEvents  bool
}

func (n *ntfyService) NotifySyncCompleted(ctx context.Context, summary SyncSummary) error {
	if !n.syncEvents {
		return nil
	}
	duration := summary.Duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}

	failures := summary.ImageFailures + summary.TagFailures
	title := "steameagle - Sync Complete"
	if failures > 0 {
		title = "steameagle - Sync Complete (with failures)"
	}

	var lines []string
	if len(summary.Stages) > 0 {
		lines = append(lines, fmt.Sprintf("Stages: %s", strings.Join(summary.Stages, ", ")))
	}
	lines = append(lines, fmt.Sprintf("🎮 %d games (%d new)", summary.Games, summary.NewGames))
	if summary.ImagesDownloaded > 0 || failures > 0 {
		lines = append(lines, fmt.Sprintf("🖼️ %d covers downloaded, %d image failures, %d tag failures",
			summary.ImagesDownloaded, summary.ImageFailures, summary.TagFailures))
	}
	if summary.Imported > 0 {
		lines = append(lines, fmt.Sprintf("🦅 %d items sent to Eagle", summary.Imported))
	}
	lines = append(lines, fmt.Sprintf("Took %s", duration))

	return n.send(ctx, payload{
		title:   title,
		message: strings.Join(lines, "\n"),
		tags:    []string{"steameagle", "sync", "completed"},
	})
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errEvents {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("❌ Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" during ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	return n.send(ctx, payload{
		title:    "steameagle - Error",
		message:  builder.String(),
		tags:     []string{"steameagle", "error", "alert"},
		priority: "high",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "steameagle - Test",
		message:  "🧪 Notification system test",
		tags:     []string{"steameagle", "test"},
		priority: "low",
	})
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

func (noopService) NotifySyncCompleted(context.Context, SyncSummary) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error       { return nil }
func (noopService) TestNotification(context.Context) error                 { return nil }
