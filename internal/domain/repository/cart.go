package repository

import (
	"context"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// CartRepository keeps the active session cart of each user.
type CartRepository interface {
	Lines(ctx context.Context, userID int64) ([]model.CartLine, error)
	Put(ctx context.Context, userID int64, line model.CartLine) error
	Remove(ctx context.Context, userID int64, productID string) error
	Clear(ctx context.Context, userID int64) error
}

// PurchaseHistoryRepository tracks which products a user has bought.
type PurchaseHistoryRepository interface {
	Add(ctx context.Context, userID int64, productIDs []string) error
	Remove(ctx context.Context, userID int64, productIDs []string) error
	List(ctx context.Context, userID int64) ([]string, error)
}
