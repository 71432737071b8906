package repository

import (
	"context"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	Update(ctx context.Context, order *model.Order) error
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	// FindRemainder returns the unpaid remainder payment derived from parentID.
	FindRemainder(ctx context.Context, parentID string) (*model.Order, error)
}
