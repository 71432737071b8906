package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/polkiloo/storefront/internal/domain/repository"
)

const uniqueViolation = "23505"

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// querier is the subset shared by the pool and an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

type txKey struct{}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Requests() repository.RequestRepository {
	return &requestRepository{storage: s}
}

func (s *Storage) Points() repository.PointsRepository {
	return &pointsRepository{storage: s}
}

func (s *Storage) Carts() repository.CartRepository {
	return &cartRepository{storage: s}
}

func (s *Storage) PurchaseHistory() repository.PurchaseHistoryRepository {
	return &purchaseHistoryRepository{storage: s}
}

func (s *Storage) Notifications() repository.NotificationRepository {
	return &notificationRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            user_id BIGINT NOT NULL,
            status TEXT NOT NULL,
            lines JSONB NOT NULL,
            subtotal NUMERIC(14,2) NOT NULL,
            shipping_fee NUMERIC(14,2) NOT NULL,
            payment_surcharge NUMERIC(14,2) NOT NULL,
            total_amount NUMERIC(14,2) NOT NULL,
            payment_method TEXT NOT NULL,
            shipping_name TEXT NOT NULL,
            shipping_phone TEXT NOT NULL,
            shipping_address TEXT NOT NULL,
            carrier TEXT NOT NULL DEFAULT '',
            tracking_number TEXT NOT NULL DEFAULT '',
            payment_slip_ref TEXT NOT NULL DEFAULT '',
            is_remaining_payment BOOLEAN NOT NULL DEFAULT FALSE,
            payment_option TEXT NOT NULL DEFAULT '',
            parent_order_id TEXT NOT NULL DEFAULT '',
            custom_request_id TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS custom_requests (
            id TEXT PRIMARY KEY,
            user_id BIGINT NOT NULL,
            product_name TEXT NOT NULL,
            source_url TEXT NOT NULL,
            details TEXT NOT NULL DEFAULT '',
            region TEXT NOT NULL,
            foreign_unit_price NUMERIC(14,2) NOT NULL,
            quantity INTEGER NOT NULL CHECK (quantity > 0),
            shipping_cost NUMERIC(14,2),
            estimated_total NUMERIC(14,2) NOT NULL,
            status TEXT NOT NULL,
            admin_notes TEXT NOT NULL DEFAULT '',
            payment_slip_ref TEXT NOT NULL DEFAULT '',
            payment_date TEXT NOT NULL DEFAULT '',
            payment_time TEXT NOT NULL DEFAULT '',
            shipping_address TEXT NOT NULL DEFAULT '',
            tracking_number TEXT NOT NULL DEFAULT '',
            order_id TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS points_accounts (
            user_id BIGINT PRIMARY KEY,
            balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS cart_lines (
            user_id BIGINT NOT NULL,
            product_id TEXT NOT NULL,
            name TEXT NOT NULL,
            unit_price NUMERIC(14,2) NOT NULL,
            quantity INTEGER NOT NULL CHECK (quantity > 0),
            is_preorder BOOLEAN NOT NULL DEFAULT FALSE,
            deposit_amount NUMERIC(14,2),
            added_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            PRIMARY KEY (user_id, product_id)
        )`,
		`CREATE TABLE IF NOT EXISTS purchased_items (
            user_id BIGINT NOT NULL,
            product_id TEXT NOT NULL,
            purchased_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            PRIMARY KEY (user_id, product_id)
        )`,
		`CREATE TABLE IF NOT EXISTS notifications (
            id TEXT PRIMARY KEY,
            topic TEXT NOT NULL,
            entity_id TEXT NOT NULL,
            user_id BIGINT NOT NULL,
            status TEXT NOT NULL,
            payload JSONB NOT NULL,
            attempts INTEGER NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
		`DROP INDEX IF EXISTS idx_orders_active_remainder`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_open_remainder ON orders(parent_order_id)
            WHERE is_remaining_payment AND status IN ('pending', 'pending_verification')`,
		`CREATE INDEX IF NOT EXISTS idx_custom_requests_user ON custom_requests(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_custom_requests_status ON custom_requests(status, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_status ON notifications(status, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// RunInTx runs fn in a transaction carried by the context handed to fn.
// Nested calls join the outer transaction.
func (s *Storage) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}
	return s.WithinTransaction(ctx, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction bound to ctx or the pool.
func (s *Storage) conn(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return s.pool
}

// forUpdate locks selected rows when running inside a transaction.
func forUpdate(ctx context.Context) string {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return " FOR UPDATE"
	}
	return ""
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

var (
	_ repository.Factory    = (*Storage)(nil)
	_ repository.UnitOfWork = (*Storage)(nil)
)
