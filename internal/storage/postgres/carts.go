package postgres

import (
	"context"

	"github.com/polkiloo/storefront/internal/domain/model"
)

type cartRepository struct {
	storage *Storage
}

type purchaseHistoryRepository struct {
	storage *Storage
}

func (r *cartRepository) Lines(ctx context.Context, userID int64) ([]model.CartLine, error) {
	const query = `SELECT product_id, name, unit_price, quantity, is_preorder, deposit_amount
                   FROM cart_lines WHERE user_id=$1 ORDER BY added_at, product_id`
	rows, err := r.storage.conn(ctx).Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.CartLine
	for rows.Next() {
		var l model.CartLine
		if err := rows.Scan(&l.ProductID, &l.Name, &l.UnitPrice, &l.Quantity, &l.IsPreorder, &l.DepositAmount); err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *cartRepository) Put(ctx context.Context, userID int64, line model.CartLine) error {
	const query = `INSERT INTO cart_lines (user_id, product_id, name, unit_price, quantity, is_preorder, deposit_amount)
                   VALUES ($1, $2, $3, $4, $5, $6, $7)
                   ON CONFLICT (user_id, product_id) DO UPDATE
                   SET name = EXCLUDED.name,
                       unit_price = EXCLUDED.unit_price,
                       quantity = EXCLUDED.quantity,
                       is_preorder = EXCLUDED.is_preorder,
                       deposit_amount = EXCLUDED.deposit_amount`
	_, err := r.storage.conn(ctx).Exec(ctx, query,
		userID, line.ProductID, line.Name, line.UnitPrice, line.Quantity, line.IsPreorder, line.DepositAmount)
	return err
}

func (r *cartRepository) Remove(ctx context.Context, userID int64, productID string) error {
	const query = `DELETE FROM cart_lines WHERE user_id=$1 AND product_id=$2`
	_, err := r.storage.conn(ctx).Exec(ctx, query, userID, productID)
	return err
}

func (r *cartRepository) Clear(ctx context.Context, userID int64) error {
	const query = `DELETE FROM cart_lines WHERE user_id=$1`
	_, err := r.storage.conn(ctx).Exec(ctx, query, userID)
	return err
}

func (r *purchaseHistoryRepository) Add(ctx context.Context, userID int64, productIDs []string) error {
	if len(productIDs) == 0 {
		return nil
	}
	const query = `INSERT INTO purchased_items (user_id, product_id)
                   SELECT $1, unnest($2::text[])
                   ON CONFLICT (user_id, product_id) DO NOTHING`
	_, err := r.storage.conn(ctx).Exec(ctx, query, userID, productIDs)
	return err
}

func (r *purchaseHistoryRepository) Remove(ctx context.Context, userID int64, productIDs []string) error {
	if len(productIDs) == 0 {
		return nil
	}
	const query = `DELETE FROM purchased_items WHERE user_id=$1 AND product_id = ANY($2)`
	_, err := r.storage.conn(ctx).Exec(ctx, query, userID, productIDs)
	return err
}

func (r *purchaseHistoryRepository) List(ctx context.Context, userID int64) ([]string, error) {
	const query = `SELECT product_id FROM purchased_items WHERE user_id=$1 ORDER BY purchased_at, product_id`
	rows, err := r.storage.conn(ctx).Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		result = append(result, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
