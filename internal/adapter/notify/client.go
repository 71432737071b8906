package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// TooManyRequestsError represents rate limiting signal from the notification endpoint.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Notifier delivers lifecycle notifications to the notification collaborator.
type Notifier interface {
	Deliver(ctx context.Context, n model.Notification) error
}

// HTTPNotifier posts notifications to a webhook.
type HTTPNotifier struct {
	endpoint   *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// message mirrors JSON payload sent to the webhook.
type message struct {
	ID        string         `json:"id"`
	Topic     string         `json:"topic"`
	EntityID  string         `json:"entity_id"`
	UserID    int64          `json:"user_id"`
	Payload   map[string]any `json:"payload,omitempty"`
	Attempt   int            `json:"attempt"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewHTTPNotifier creates webhook notifier with default timeout.
func NewHTTPNotifier(endpoint string, logger *slog.Logger) (*HTTPNotifier, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse notify endpoint: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("notify endpoint must be absolute")
	}
	return &HTTPNotifier{
		endpoint: parsed,
		logger:   logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Deliver posts n to the webhook. Any 2xx response counts as delivered.
func (c *HTTPNotifier) Deliver(ctx context.Context, n model.Notification) error {
	body, err := json.Marshal(message{
		ID:        n.ID,
		Topic:     n.Topic,
		EntityID:  n.EntityID,
		UserID:    n.UserID,
		Payload:   n.Payload,
		Attempt:   n.Attempts + 1,
		CreatedAt: n.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", n.ID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("notification delivery rejected",
			slog.String("notification", n.ID),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(payload)))
		return fmt.Errorf("notify error: %s", resp.Status)
	}
}

// LogNotifier writes notifications to the log when no webhook is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier backed by logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Deliver(ctx context.Context, notification model.Notification) error {
	n.logger.InfoContext(ctx, "notification",
		slog.String("id", notification.ID),
		slog.String("topic", notification.Topic),
		slog.String("entity", notification.EntityID),
		slog.Int64("user", notification.UserID),
		slog.Any("payload", notification.Payload))
	return nil
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
