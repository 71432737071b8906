package repository

import (
	"context"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// RequestRepository describes persistence operations with custom requests.
type RequestRepository interface {
	Create(ctx context.Context, req *model.CustomRequest) error
	GetByID(ctx context.Context, id string) (*model.CustomRequest, error)
	Update(ctx context.Context, req *model.CustomRequest) error
	ListByUser(ctx context.Context, userID int64) ([]model.CustomRequest, error)
	// ListByStatus lists requests in status, or every request when status is empty.
	ListByStatus(ctx context.Context, status model.RequestStatus) ([]model.CustomRequest, error)
}
