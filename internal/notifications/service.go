package notifications

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"substudio/internal/config"
)

const (
	userAgent      = "substudio/1.0"
	appTitle       = "Subtitle Studio"
	termuxBinary   = "termux-notification"
	defaultNtfyURL = "https://ntfy.sh/"
)

// Service defines the notices the studio sends.
type Service interface {
	NotifyRenderCompleted(ctx context.Context, outputPath string, elapsed time.Duration) error
	NotifyRenderFailed(ctx context.Context, videoPath string, err error) error
	TestNotification(ctx context.Context) error
}

// Message is one notice handed to every transport.
type Message struct {
	Title    string
	Body     string
	Tags     []string
	Priority string
}

type notifier interface {
	send(ctx context.Context, msg Message) error
}

// NewService builds a service from configuration. termux-notification is used
// when enabled and found on PATH; ntfy when a topic is set.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	var transports []notifier
	if cfg.Notifications.Termux {
		if path, err := exec.LookPath(termuxBinary); err == nil {
			transports = append(transports, termuxNotifier{binary: path, run: runCommand})
		}
	}
	if topic := strings.TrimSpace(cfg.Notifications.NtfyTopic); topic != "" {
		timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		transports = append(transports, newNtfyNotifier(topic, timeout))
	}
	if len(transports) == 0 {
		return noopService{}
	}
	return &service{transports: transports}
}

type service struct {
	transports []notifier
}

func (s *service) NotifyRenderCompleted(ctx context.Context, outputPath string, elapsed time.Duration) error {
	body := fmt.Sprintf("Render complete: %s", filepath.Base(outputPath))
	if elapsed > 0 {
		body = fmt.Sprintf("%s (%s)", body, elapsed.Round(time.Second))
	}
	return s.publish(ctx, Message{
		Title: appTitle,
		Body:  body,
		Tags:  []string{"substudio", "render", "completed"},
	})
}

func (s *service) NotifyRenderFailed(ctx context.Context, videoPath string, err error) error {
	reason := "unknown"
	if err != nil {
		reason = strings.TrimSpace(err.Error())
	}
	return s.publish(ctx, Message{
		Title:    appTitle + " - Error",
		Body:     fmt.Sprintf("Render failed for %s: %s", filepath.Base(videoPath), reason),
		Tags:     []string{"substudio", "error", "alert"},
		Priority: "high",
	})
}

func (s *service) TestNotification(ctx context.Context) error {
	return s.publish(ctx, Message{
		Title:    appTitle + " - Test",
		Body:     "Notification system test",
		Tags:     []string{"substudio", "test"},
		Priority: "low",
	})
}

func (s *service) publish(ctx context.Context, msg Message) error {
	var errs []error
	for _, transport := range s.transports {
		if err := transport.send(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type termuxNotifier struct {
	binary string
	run    func(ctx context.Context, name string, args ...string) error
}

func (t termuxNotifier) send(ctx context.Context, msg Message) error {
	args := []string{"--title", msg.Title, "--content", msg.Body}
	if msg.Priority == "high" {
		args = append(args, "--priority", "high")
	}
	if err := t.run(ctx, t.binary, args...); err != nil {
		return fmt.Errorf("termux-notification: %w", err)
	}
	return nil
}

func runCommand(ctx context.Context, name string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput() //nolint:gosec
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

type ntfyNotifier struct {
	endpoint string
	client   *resty.Client
}

// newNtfyNotifier accepts a full topic URL or a bare topic name on ntfy.sh.
func newNtfyNotifier(topic string, timeout time.Duration) *ntfyNotifier {
	endpoint := topic
	if !strings.Contains(topic, "://") {
		endpoint = defaultNtfyURL + strings.TrimPrefix(topic, "/")
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent)
	return &ntfyNotifier{endpoint: endpoint, client: client}
}

func (n *ntfyNotifier) send(ctx context.Context, msg Message) error {
	req := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "text/plain; charset=utf-8").
		SetBody(msg.Body)
	if msg.Title != "" {
		req.SetHeader("Title", msg.Title)
	}
	if len(msg.Tags) > 0 {
		req.SetHeader("Tags", strings.Join(msg.Tags, ","))
	}
	if msg.Priority != "" && msg.Priority != "default" {
		req.SetHeader("Priority", msg.Priority)
	}
	resp, err := req.Post(n.endpoint)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	if resp.IsError() {
		body := strings.TrimSpace(resp.String())
		if len(body) > 2048 {
			body = body[:2048]
		}
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode(), body)
	}
	return nil
}

type noopService struct{}

func (noopService) NotifyRenderCompleted(context.Context, string, time.Duration) error { return nil }
func (noopService) NotifyRenderFailed(context.Context, string, error) error            { return nil }
func (noopService) TestNotification(context.Context) error                             { return nil }
