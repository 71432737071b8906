package usecase

import (
	"context"
	"sync"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/repository"
)

// pointsLockStripes bounds the in-process locks; users sharing a stripe wait on each other.
const pointsLockStripes = 64

// PointsLedger applies loyalty policy on top of balance storage.
// Each read-modify-write runs in a transaction holding the account row lock, behind a striped
// in-process mutex keyed by user.
type PointsLedger struct {
	points repository.PointsRepository
	uow    repository.UnitOfWork
	locks  [pointsLockStripes]sync.Mutex
}

// NewPointsLedger constructs PointsLedger.
func NewPointsLedger(points repository.PointsRepository, uow repository.UnitOfWork) *PointsLedger {
	return &PointsLedger{points: points, uow: uow}
}

// Balance returns current balance for user.
func (l *PointsLedger) Balance(ctx context.Context, userID int64) (int64, error) {
	balance, err := l.points.GetBalance(ctx, userID)
	if err != nil {
		return 0, domainErrors.Persistence("get points balance", err)
	}
	return balance, nil
}

// Earn credits points and returns the new balance.
func (l *PointsLedger) Earn(ctx context.Context, userID int64, points int64) (int64, error) {
	if points < 0 {
		return 0, domainErrors.NewValidationError("points", "must not be negative")
	}
	balance, _, err := l.update(ctx, userID, func(current int64) (int64, bool) {
		return current + points, true
	})
	return balance, err
}

// Spend debits points. A spend larger than the balance is a no-op reported by applied=false.
func (l *PointsLedger) Spend(ctx context.Context, userID int64, points int64) (balance int64, applied bool, err error) {
	if points <= 0 {
		return 0, false, domainErrors.NewValidationError("points", "must be positive")
	}
	return l.update(ctx, userID, func(current int64) (int64, bool) {
		if current < points {
			return current, false
		}
		return current - points, true
	})
}

// Reverse takes back previously earned points, clamping the balance at zero.
func (l *PointsLedger) Reverse(ctx context.Context, userID int64, points int64) (int64, error) {
	if points < 0 {
		return 0, domainErrors.NewValidationError("points", "must not be negative")
	}
	balance, _, err := l.update(ctx, userID, func(current int64) (int64, bool) {
		return max(current-points, 0), true
	})
	return balance, err
}

func (l *PointsLedger) update(ctx context.Context, userID int64, apply func(int64) (int64, bool)) (int64, bool, error) {
	mu := l.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	var (
		balance int64
		applied bool
	)
	err := l.uow.RunInTx(ctx, func(ctx context.Context) error {
		current, err := l.points.GetBalance(ctx, userID)
		if err != nil {
			return domainErrors.Persistence("get points balance", err)
		}

		next, ok := apply(current)
		balance, applied = current, ok
		if !ok || next == current {
			return nil
		}

		if err := l.points.SetBalance(ctx, userID, next); err != nil {
			applied = false
			return domainErrors.Persistence("set points balance", err)
		}
		balance = next
		return nil
	})
	if err != nil {
		return balance, false, err
	}
	return balance, applied, nil
}

func (l *PointsLedger) lockFor(userID int64) *sync.Mutex {
	stripe := userID % pointsLockStripes
	if stripe < 0 {
		stripe = -stripe
	}
	return &l.locks[stripe]
}
