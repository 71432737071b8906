package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
)

const requestColumns = `id, user_id, product_name, source_url, details, region, foreign_unit_price, quantity,
                        shipping_cost, estimated_total, status, admin_notes, payment_slip_ref, payment_date,
                        payment_time, shipping_address, tracking_number, order_id, created_at, updated_at`

type requestRepository struct {
	storage *Storage
}

func (r *requestRepository) Create(ctx context.Context, req *model.CustomRequest) error {
	const query = `INSERT INTO custom_requests (` + requestColumns + `)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.storage.conn(ctx).Exec(ctx, query,
		req.ID, req.UserID, req.ProductName, req.SourceURL, req.Details, req.Region,
		req.ForeignUnitPrice, req.Quantity, req.ShippingCost, req.EstimatedTotal, req.Status,
		req.AdminNotes, req.PaymentSlipRef, req.PaymentDate, req.PaymentTime, req.ShippingAddress,
		req.TrackingNumber, req.OrderID, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*model.CustomRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM custom_requests WHERE id=$1` + forUpdate(ctx)
	req, err := scanRequest(r.storage.conn(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (r *requestRepository) Update(ctx context.Context, req *model.CustomRequest) error {
	const query = `UPDATE custom_requests SET shipping_cost=$2, status=$3, admin_notes=$4, payment_slip_ref=$5,
                   payment_date=$6, payment_time=$7, shipping_address=$8, tracking_number=$9, order_id=$10,
                   updated_at=$11
                   WHERE id=$1`
	tag, err := r.storage.conn(ctx).Exec(ctx, query,
		req.ID, req.ShippingCost, req.Status, req.AdminNotes, req.PaymentSlipRef,
		req.PaymentDate, req.PaymentTime, req.ShippingAddress, req.TrackingNumber, req.OrderID,
		req.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *requestRepository) ListByUser(ctx context.Context, userID int64) ([]model.CustomRequest, error) {
	const query = `SELECT ` + requestColumns + `
                   FROM custom_requests WHERE user_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *requestRepository) ListByStatus(ctx context.Context, status model.RequestStatus) ([]model.CustomRequest, error) {
	if status == "" {
		const query = `SELECT ` + requestColumns + `
                       FROM custom_requests ORDER BY created_at`
		return r.list(ctx, query)
	}
	const query = `SELECT ` + requestColumns + `
                   FROM custom_requests WHERE status=$1 ORDER BY created_at`
	return r.list(ctx, query, status)
}

func (r *requestRepository) list(ctx context.Context, query string, args ...any) ([]model.CustomRequest, error) {
	rows, err := r.storage.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.CustomRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanRequest(row rowScanner) (*model.CustomRequest, error) {
	var req model.CustomRequest
	err := row.Scan(
		&req.ID, &req.UserID, &req.ProductName, &req.SourceURL, &req.Details, &req.Region,
		&req.ForeignUnitPrice, &req.Quantity, &req.ShippingCost, &req.EstimatedTotal, &req.Status,
		&req.AdminNotes, &req.PaymentSlipRef, &req.PaymentDate, &req.PaymentTime, &req.ShippingAddress,
		&req.TrackingNumber, &req.OrderID, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}
