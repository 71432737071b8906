package repository

import "context"

// Factory describes access to different domain repositories.
type Factory interface {
	Orders() OrderRepository
	Requests() RequestRepository
	Points() PointsRepository
	Carts() CartRepository
	PurchaseHistory() PurchaseHistoryRepository
	Notifications() NotificationRepository
}

// UnitOfWork runs fn so that repository calls made with the passed context commit together.
type UnitOfWork interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
