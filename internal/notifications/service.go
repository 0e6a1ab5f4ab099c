package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"watchtag/internal/config"
	"watchtag/internal/sweep"
)

const userAgent = "Watchtag/0.1.0"

// Service defines the notification surface exposed to the daemon and CLI.
type Service interface {
	NotifySweepStarted(ctx context.Context) error
	NotifySweepCompleted(ctx context.Context, report sweep.Report) error
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
		endpoint:    topic,
		client:      &http.Client{Timeout: timeout},
		sweepEvents: cfg.Notifications.Sweep,
		errorEvents: cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint    string
	client      *http.Client
	sweepEvents bool
	errorEvents bool
}

func (n *ntfyService) NotifySweepStarted(ctx context.Context) error {
	if !n.sweepEvents {
		return nil
	}
	data := payload{
		title:   "Watchtag - Sweep Started",
		message: "Started provider availability sweep",
		tags:    []string{"watchtag", "sweep", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySweepCompleted(ctx context.Context, report sweep.Report) error {
	if !n.sweepEvents {
		return nil
	}

	duration := report.FinishedAt.Sub(report.StartedAt).Round(time.Second)
	if duration < 0 {
		duration = 0
	}

	var title, message string
	switch report.Status {
	case sweep.StatusAborted:
		title = "Watchtag - Sweep Aborted"
		message = fmt.Sprintf("Sweep aborted after %d of %d items", report.ItemsProcessed, report.ItemsTotal)
	case sweep.StatusNotConfigured:
		title = "Watchtag - Sweep Skipped"
		message = "Sweep skipped: no TMDB credential or no provider rules configured"
	default:
		if report.ItemsFailed == 0 {
			title = "Watchtag - Sweep Complete"
			message = fmt.Sprintf("Sweep complete: %d items, %d tagged in %s",
				report.ItemsProcessed, report.ItemsTagged, duration)
		} else {
			title = "Watchtag - Sweep Complete (with errors)"
			message = fmt.Sprintf("Sweep complete: %d items, %d tagged, %d failed in %s",
				report.ItemsProcessed, report.ItemsTagged, report.ItemsFailed, duration)
		}
	}

	data := payload{
		title:   title,
		message: message,
		tags:    []string{"watchtag", "sweep", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errorEvents {
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
		title:    "Watchtag - Error",
		message:  builder.String(),
		tags:     []string{"watchtag", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Watchtag - Test",
		message:  "Notification system test",
		tags:     []string{"watchtag", "test"},
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
	if data.priority != "" {
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

func (noopService) NotifySweepStarted(context.Context) error                 { return nil }
func (noopService) NotifySweepCompleted(context.Context, sweep.Report) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error         { return nil }
func (noopService) TestNotification(context.Context) error                   { return nil }
