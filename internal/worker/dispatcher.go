package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/storefront/internal/adapter/notify"
	"github.com/polkiloo/storefront/internal/domain/model"
)

// OutboxFacade exposes the subset of application functionality required by the worker.
type OutboxFacade interface {
	PendingNotifications(ctx context.Context, limit int) ([]model.Notification, error)
	DeliverNotification(ctx context.Context, n model.Notification) error
	MarkNotificationDelivered(ctx context.Context, id string) error
	MarkNotificationFailed(ctx context.Context, id string) error
}

// NotificationDispatcher polls the outbox and delivers notifications concurrently.
type NotificationDispatcher struct {
	facade       OutboxFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Notification
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewNotificationDispatcher constructs dispatcher worker pool.
func NewNotificationDispatcher(facade OutboxFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *NotificationDispatcher {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &NotificationDispatcher{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Notification, batchSize*workers),
	}
}

// Start launches background delivery.
func (d *NotificationDispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for range d.workers {
		d.wg.Add(1)
		go d.worker(runCtx)
	}

	d.wg.Add(1)
	go d.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (d *NotificationDispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *NotificationDispatcher) dispatch(ctx context.Context) {
	defer d.wg.Done()
	defer close(d.jobs)
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.fetchAndDispatch(ctx)
		}
	}
}

func (d *NotificationDispatcher) fetchAndDispatch(ctx context.Context) {
	batch, err := d.facade.PendingNotifications(ctx, d.batchSize)
	if err != nil {
		d.logger.Error("fetch pending notifications failed", slog.String("error", err.Error()))
		return
	}
	for _, n := range batch {
		select {
		case <-ctx.Done():
			return
		case d.jobs <- n:
		}
	}
}

func (d *NotificationDispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-d.jobs:
			if !ok {
				return
			}
			d.handle(ctx, n)
		}
	}
}

func (d *NotificationDispatcher) handle(ctx context.Context, n model.Notification) {
	err := d.facade.DeliverNotification(ctx, n)
	if err == nil {
		if err := d.facade.MarkNotificationDelivered(ctx, n.ID); err != nil {
			d.logger.Error("mark notification delivered failed", slog.String("notification", n.ID), slog.String("error", err.Error()))
		}
		return
	}

	var limited notify.TooManyRequestsError
	if errors.As(err, &limited) {
		d.logger.Warn("notification endpoint rate limited", slog.Duration("retry_after", limited.RetryAfter))
		// back off before releasing the row
		select {
		case <-ctx.Done():
		case <-time.After(limited.RetryAfter):
		}
	} else {
		d.logger.Error("notification delivery failed",
			slog.String("notification", n.ID),
			slog.String("topic", n.Topic),
			slog.String("error", err.Error()))
	}

	// release the row even during shutdown
	if err := d.facade.MarkNotificationFailed(context.WithoutCancel(ctx), n.ID); err != nil {
		d.logger.Error("mark notification failed failed", slog.String("notification", n.ID), slog.String("error", err.Error()))
	}
}
