package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
)

const orderColumns = `id, user_id, status, lines, subtotal, shipping_fee, payment_surcharge, total_amount,
                      payment_method, shipping_name, shipping_phone, shipping_address, carrier, tracking_number,
                      payment_slip_ref, is_remaining_payment, payment_option, parent_order_id, custom_request_id,
                      created_at, updated_at`

type orderRepository struct {
	storage *Storage
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	lines, err := json.Marshal(order.Lines)
	if err != nil {
		return fmt.Errorf("encode order lines: %w", err)
	}

	const query = `INSERT INTO orders (` + orderColumns + `)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err = r.storage.conn(ctx).Exec(ctx, query,
		order.ID, order.UserID, order.Status, lines,
		order.Subtotal, order.ShippingFee, order.PaymentSurcharge, order.TotalAmount,
		order.PaymentMethod, order.Shipping.Name, order.Shipping.Phone, order.Shipping.Address,
		order.Carrier, order.TrackingNumber, order.PaymentSlipRef,
		order.IsRemainingPayment, order.PaymentOption, order.ParentOrderID, order.CustomRequestID,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1` + forUpdate(ctx)
	order, err := scanOrder(r.storage.conn(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) Update(ctx context.Context, order *model.Order) error {
	lines, err := json.Marshal(order.Lines)
	if err != nil {
		return fmt.Errorf("encode order lines: %w", err)
	}

	const query = `UPDATE orders SET status=$2, lines=$3, subtotal=$4, shipping_fee=$5, payment_surcharge=$6,
                   total_amount=$7, carrier=$8, tracking_number=$9, payment_slip_ref=$10, updated_at=$11
                   WHERE id=$1`
	tag, err := r.storage.conn(ctx).Exec(ctx, query,
		order.ID, order.Status, lines, order.Subtotal, order.ShippingFee, order.PaymentSurcharge,
		order.TotalAmount, order.Carrier, order.TrackingNumber, order.PaymentSlipRef, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + `
                   FROM orders WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.conn(ctx).Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) FindRemainder(ctx context.Context, parentID string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + `
              FROM orders
              WHERE parent_order_id=$1 AND is_remaining_payment
                AND status IN ('pending', 'pending_verification')
              ORDER BY created_at DESC
              LIMIT 1` + forUpdate(ctx)
	order, err := scanOrder(r.storage.conn(ctx).QueryRow(ctx, query, parentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var (
		o     model.Order
		lines []byte
	)
	err := row.Scan(
		&o.ID, &o.UserID, &o.Status, &lines,
		&o.Subtotal, &o.ShippingFee, &o.PaymentSurcharge, &o.TotalAmount,
		&o.PaymentMethod, &o.Shipping.Name, &o.Shipping.Phone, &o.Shipping.Address,
		&o.Carrier, &o.TrackingNumber, &o.PaymentSlipRef,
		&o.IsRemainingPayment, &o.PaymentOption, &o.ParentOrderID, &o.CustomRequestID,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(lines, &o.Lines); err != nil {
		return nil, fmt.Errorf("decode order %s lines: %w", o.ID, err)
	}
	return &o, nil
}
