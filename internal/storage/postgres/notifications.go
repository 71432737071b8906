package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/polkiloo/storefront/internal/domain/model"
)

const notificationColumns = `id, topic, entity_id, user_id, status, payload, attempts, created_at`

type notificationRepository struct {
	storage *Storage
}

func (r *notificationRepository) Enqueue(ctx context.Context, n model.Notification) error {
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return fmt.Errorf("encode notification payload: %w", err)
	}
	status := n.Status
	if status == "" {
		status = model.NotificationStatusPending
	}

	const query = `INSERT INTO notifications (` + notificationColumns + `)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.storage.conn(ctx).Exec(ctx, query,
		n.ID, n.Topic, n.EntityID, n.UserID, status, payload, n.Attempts, n.CreatedAt)
	return err
}

// SelectBatchForDelivery claims pending notifications, and ones stuck in sending for over a minute,
// by moving them to sending.
func (r *notificationRepository) SelectBatchForDelivery(ctx context.Context, limit int) ([]model.Notification, error) {
	const selectQuery = `SELECT ` + notificationColumns + `
                         FROM notifications
                         WHERE status = 'pending'
                            OR (status = 'sending' AND updated_at < NOW() - INTERVAL '1 minute')
                         ORDER BY created_at
                         LIMIT $1
                         FOR UPDATE SKIP LOCKED`
	const claimQuery = `UPDATE notifications SET status='sending', updated_at=NOW() WHERE id = ANY($1)`

	var batch []model.Notification
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, limit)
		if err != nil {
			return err
		}
		for rows.Next() {
			n, err := scanNotification(rows)
			if err != nil {
				rows.Close()
				return err
			}
			batch = append(batch, *n)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}

		ids := make([]string, 0, len(batch))
		for i := range batch {
			batch[i].Status = model.NotificationStatusSending
			ids = append(ids, batch[i].ID)
		}
		if _, err := tx.Exec(ctx, claimQuery, ids); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

func (r *notificationRepository) MarkDelivered(ctx context.Context, id string) error {
	const query = `UPDATE notifications SET status='delivered', updated_at=NOW() WHERE id=$1`
	_, err := r.storage.conn(ctx).Exec(ctx, query, id)
	return err
}

func (r *notificationRepository) MarkFailed(ctx context.Context, id string, maxAttempts int) error {
	const query = `UPDATE notifications
                   SET attempts = attempts + 1,
                       status = CASE WHEN attempts + 1 >= $2 THEN 'failed' ELSE 'pending' END,
                       updated_at = NOW()
                   WHERE id=$1`
	_, err := r.storage.conn(ctx).Exec(ctx, query, id, maxAttempts)
	return err
}

func scanNotification(row rowScanner) (*model.Notification, error) {
	var (
		n       model.Notification
		payload []byte
	)
	if err := row.Scan(&n.ID, &n.Topic, &n.EntityID, &n.UserID, &n.Status, &payload, &n.Attempts, &n.CreatedAt); err != nil {
		return nil, err
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &n.Payload); err != nil {
			return nil, fmt.Errorf("decode notification %s payload: %w", n.ID, err)
		}
	}
	return &n, nil
}
