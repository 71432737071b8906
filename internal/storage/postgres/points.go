package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

type pointsRepository struct {
	storage *Storage
}

func (r *pointsRepository) GetBalance(ctx context.Context, userID int64) (int64, error) {
	query := `SELECT balance FROM points_accounts WHERE user_id=$1` + forUpdate(ctx)
	var balance int64
	err := r.storage.conn(ctx).QueryRow(ctx, query, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return balance, nil
}

func (r *pointsRepository) SetBalance(ctx context.Context, userID int64, balance int64) error {
	const query = `INSERT INTO points_accounts (user_id, balance, updated_at)
                   VALUES ($1, $2, NOW())
                   ON CONFLICT (user_id) DO UPDATE SET balance = EXCLUDED.balance, updated_at = NOW()`
	_, err := r.storage.conn(ctx).Exec(ctx, query, userID, balance)
	return err
}
