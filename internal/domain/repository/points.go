package repository

import "context"

// PointsRepository stores loyalty balances. Missing accounts read as zero.
type PointsRepository interface {
	GetBalance(ctx context.Context, userID int64) (int64, error)
	SetBalance(ctx context.Context, userID int64, balance int64) error
}
