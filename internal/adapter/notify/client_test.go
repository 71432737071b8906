package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/polkiloo/storefront/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewHTTPNotifierValidatesURL(t *testing.T) {
	if _, err := NewHTTPNotifier("://bad-url", testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPNotifier("/relative", testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestDeliverPostsNotification(t *testing.T) {
	var (
		got    message
		header http.Header
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		header = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client, err := NewHTTPNotifier(srv.URL+"/hooks/storefront", testLogger())
	if err != nil {
		t.Fatalf("failed to create notifier: %v", err)
	}

	n := model.Notification{
		ID:        "ntf_1",
		Topic:     "order.status.changed",
		EntityID:  "ord_1",
		UserID:    7,
		Payload:   map[string]any{"from": "confirmed", "to": "shipped"},
		Attempts:  1,
		CreatedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
	if err := client.Deliver(context.Background(), n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.ID != "ntf_1" || got.Topic != "order.status.changed" || got.UserID != 7 || got.Attempt != 2 {
		t.Fatalf("unexpected message: %+v", got)
	}
	if got.Payload["to"] != "shipped" {
		t.Fatalf("unexpected payload: %v", got.Payload)
	}
	if header.Get("Idempotency-Key") != "ntf_1" || header.Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected headers: %v", header)
	}
}

func TestDeliverHandlesRateLimiting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "5")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client, err := NewHTTPNotifier(srv.URL, testLogger())
	if err != nil {
		t.Fatalf("failed to create notifier: %v", err)
	}

	err = client.Deliver(context.Background(), model.Notification{ID: "ntf_1"})
	var tm TooManyRequestsError
	if !errors.As(err, &tm) {
		t.Fatalf("expected TooManyRequestsError, got %v", err)
	}
	if tm.RetryAfter != 5*time.Second {
		t.Fatalf("expected retry after 5s, got %v", tm.RetryAfter)
	}
	if !strings.Contains(tm.Error(), "5s") {
		t.Fatalf("unexpected message %q", tm.Error())
	}
}

func TestDeliverLogsErrorResponses(t *testing.T) {
	called := make(chan struct{}, 1)
	handler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.LevelKey && a.Value.Any() == slog.LevelError {
			select {
			case called <- struct{}{}:
			default:
			}
		}
		return a
	}})
	logger := slog.New(handler)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewHTTPNotifier(srv.URL, logger)
	if err != nil {
		t.Fatalf("failed to create notifier: %v", err)
	}

	if err := client.Deliver(context.Background(), model.Notification{ID: "ntf_1"}); err == nil {
		t.Fatal("expected error from server")
	}

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("expected error log to be written")
	}
}

func TestDeliverTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client, err := NewHTTPNotifier(url, testLogger())
	if err != nil {
		t.Fatalf("failed to create notifier: %v", err)
	}
	if err := client.Deliver(context.Background(), model.Notification{ID: "ntf_1"}); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestLogNotifierDeliver(t *testing.T) {
	var buf strings.Builder
	notifier := NewLogNotifier(slog.New(slog.NewJSONHandler(&buf, nil)))

	err := notifier.Deliver(context.Background(), model.Notification{ID: "ntf_9", Topic: "request.created", UserID: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `"topic":"request.created"`) {
		t.Fatalf("expected notification in log, got %s", buf.String())
	}
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Now()
	httpTime := now.Add(2 * time.Second).UTC().Format(http.TimeFormat)

	cases := []struct {
		name   string
		header string
		want   time.Duration
	}{
		{name: "empty", header: "", want: 5 * time.Second},
		{name: "seconds", header: "7", want: 7 * time.Second},
		{name: "http date", header: httpTime, want: 2 * time.Second},
		{name: "fallback", header: "bad", want: 5 * time.Second},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseRetryAfter(tc.header)
			if tc.header == httpTime {
				if got <= 0 || got > 3*time.Second {
					t.Fatalf("unexpected retry duration %v", got)
				}
			} else if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
