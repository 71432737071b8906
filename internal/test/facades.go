package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// OutboxFacadeStub mimics worker interactions with the store facade.
type OutboxFacadeStub struct {
	Batches     [][]model.Notification
	PendingFn   func(context.Context, int) ([]model.Notification, error)
	DeliverFn   func(context.Context, model.Notification) error
	DeliveredFn func(context.Context, string) error
	FailedFn    func(context.Context, string) error

	Delivered []string
	Failed    []string

	mu         sync.Mutex
	batchCalls int32
}

// Lock exposes internal mutex for external synchronization.
func (s *OutboxFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *OutboxFacadeStub) Unlock() { s.mu.Unlock() }

// PendingNotifications returns batches from configured queue.
func (s *OutboxFacadeStub) PendingNotifications(ctx context.Context, limit int) ([]model.Notification, error) {
	if s.PendingFn != nil {
		return s.PendingFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.batchCalls, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// DeliverNotification succeeds unless DeliverFn says otherwise.
func (s *OutboxFacadeStub) DeliverNotification(ctx context.Context, n model.Notification) error {
	if s.DeliverFn != nil {
		return s.DeliverFn(ctx, n)
	}
	return nil
}

// MarkNotificationDelivered records delivered ids.
func (s *OutboxFacadeStub) MarkNotificationDelivered(ctx context.Context, id string) error {
	if s.DeliveredFn != nil {
		if err := s.DeliveredFn(ctx, id); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Delivered = append(s.Delivered, id)
	return nil
}

// MarkNotificationFailed records failed ids.
func (s *OutboxFacadeStub) MarkNotificationFailed(ctx context.Context, id string) error {
	if s.FailedFn != nil {
		if err := s.FailedFn(ctx, id); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Failed = append(s.Failed, id)
	return nil
}

// Outcomes returns copies of delivered and failed ids.
func (s *OutboxFacadeStub) Outcomes() (delivered, failed []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.Delivered...), append([]string(nil), s.Failed...)
}

// NotifierStub records delivered notifications.
type NotifierStub struct {
	mu        sync.Mutex
	Err       error
	Delivered []model.Notification
}

// Deliver stores n or returns Err.
func (s *NotifierStub) Deliver(_ context.Context, n model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Delivered = append(s.Delivered, n)
	return nil
}
