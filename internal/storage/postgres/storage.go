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

	domainErrors "github.com/polkiloo/verigate/internal/domain/errors"
	"github.com/polkiloo/verigate/internal/domain/model"
	"github.com/polkiloo/verigate/internal/domain/repository"
)

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

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type orderRepository struct {
	storage *Storage
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

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

// quota_remaining is generated from total and used so it can never be written on its own.
func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            order_id TEXT UNIQUE NOT NULL,
            user_id BIGINT NOT NULL,
            kind TEXT NOT NULL,
            service_name TEXT NOT NULL DEFAULT '',
            check_type TEXT NOT NULL DEFAULT '',
            billing_period TEXT NOT NULL,
            status TEXT NOT NULL,
            payment_status TEXT NOT NULL,
            payment_method TEXT NOT NULL,
            transaction_id TEXT NOT NULL DEFAULT '',
            amount BIGINT NOT NULL DEFAULT 0,
            currency TEXT NOT NULL DEFAULT 'INR',
            start_date TIMESTAMPTZ NOT NULL,
            end_date TIMESTAMPTZ NOT NULL,
            quota_total INTEGER NOT NULL DEFAULT 0,
            quota_used INTEGER NOT NULL DEFAULT 0,
            quota_remaining INTEGER GENERATED ALWAYS AS (quota_total - quota_used) STORED,
            quota_validity_days INTEGER NOT NULL DEFAULT 0,
            quota_expires_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            CONSTRAINT orders_quota_bounds CHECK (quota_used >= 0 AND quota_used <= quota_total)
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_eligible ON orders(user_id, check_type, quota_expires_at)
            WHERE status = 'active' AND payment_status = 'completed'`,
		`CREATE INDEX IF NOT EXISTS idx_orders_expiry ON orders(quota_expires_at) WHERE status = 'active'`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

const orderColumns = `id, order_id, user_id, kind, service_name, check_type, billing_period, status,
    payment_status, payment_method, transaction_id, amount, currency, start_date, end_date,
    quota_total, quota_used, quota_remaining, quota_validity_days, quota_expires_at, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.OrderID, &o.UserID, &o.Kind, &o.ServiceName, &o.CheckType, &o.BillingPeriod, &o.Status,
		&o.PaymentStatus, &o.PaymentMethod, &o.TransactionID, &o.Amount, &o.Currency, &o.StartDate, &o.EndDate,
		&o.Quota.TotalAllowed, &o.Quota.Used, &o.Quota.Remaining, &o.Quota.ValidityDays, &o.Quota.ExpiresAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	const query = `INSERT INTO orders (order_id, user_id, kind, service_name, check_type, billing_period, status,
                       payment_status, payment_method, transaction_id, amount, currency, start_date, end_date,
                       quota_total, quota_used, quota_validity_days, quota_expires_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
                   RETURNING ` + orderColumns
	q := order.Quota
	q.Normalize()
	created, err := scanOrder(r.storage.pool.QueryRow(ctx, query,
		order.OrderID, order.UserID, order.Kind, order.ServiceName, order.CheckType, order.BillingPeriod, order.Status,
		order.PaymentStatus, order.PaymentMethod, order.TransactionID, order.Amount, order.Currency, order.StartDate, order.EndDate,
		q.TotalAllowed, q.Used, q.ValidityDays, q.ExpiresAt,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

func (r *orderRepository) GetByOrderID(ctx context.Context, orderID string) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE order_id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// FindEligible drains the soonest-to-expire pool first; pools without expiry go last.
func (r *orderRepository) FindEligible(ctx context.Context, userID int64, checkType string, now time.Time) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + `
                   FROM orders
                   WHERE user_id=$1
                     AND kind='verification'
                     AND status='active'
                     AND payment_status='completed'
                     AND check_type=$2
                     AND quota_remaining > 0
                     AND (quota_expires_at IS NULL OR quota_expires_at > $3)
                   ORDER BY quota_expires_at ASC NULLS LAST, end_date ASC, created_at ASC, id ASC
                   LIMIT 1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, userID, checkType, now))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

// ConsumeOne is a single conditional UPDATE: the eligibility predicate is evaluated against the
// row as it stands when the write lock is taken, so concurrent callers cannot both take the last credit.
func (r *orderRepository) ConsumeOne(ctx context.Context, id int64, now time.Time) (*model.Order, error) {
	const query = `UPDATE orders
                   SET quota_used = quota_used + 1, updated_at = NOW()
                   WHERE id=$1
                     AND kind='verification'
                     AND status='active'
                     AND payment_status='completed'
                     AND quota_remaining > 0
                     AND (quota_expires_at IS NULL OR quota_expires_at > $2)
                   RETURNING ` + orderColumns
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id, now))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.storage.logger.Debug("conditional consume matched no row", slog.Int64("order_id", id))
			return nil, domainErrors.ErrQuotaExhausted
		}
		return nil, err
	}
	return order, nil
}

// UpdatePayment moves payment status from one of from to to. Failed and refunded payments cancel the order.
// The schedule and quota expiry are left untouched.
func (r *orderRepository) UpdatePayment(ctx context.Context, orderID string, from []model.PaymentStatus, to model.PaymentStatus, transactionID string) (*model.Order, error) {
	const query = `UPDATE orders
                   SET payment_status=$2,
                       transaction_id=CASE WHEN $3 = '' THEN transaction_id ELSE $3 END,
                       status=CASE WHEN $2 IN ('failed', 'refunded') THEN 'cancelled' ELSE status END,
                       updated_at=NOW()
                   WHERE order_id=$1 AND payment_status = ANY($4)
                   RETURNING ` + orderColumns

	allowed := make([]string, 0, len(from))
	for _, s := range from {
		allowed = append(allowed, string(s))
	}

	var order *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		updated, err := scanOrder(tx.QueryRow(ctx, query, orderID, string(to), transactionID, allowed))
		if err == nil {
			order = updated
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE order_id=$1)`, orderID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domainErrors.ErrNotFound
		}
		return domainErrors.ErrInvalidTransition
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ExpireDue flips at most limit active orders whose expiry or end date has passed to expired.
func (r *orderRepository) ExpireDue(ctx context.Context, now time.Time, limit int) (int64, error) {
	const query = `WITH due AS (
                       SELECT id FROM orders
                       WHERE status='active'
                         AND ((quota_expires_at IS NOT NULL AND quota_expires_at <= $1) OR end_date <= $1)
                       ORDER BY id
                       LIMIT $2
                       FOR UPDATE SKIP LOCKED
                   )
                   UPDATE orders o SET status='expired', updated_at=NOW()
                   FROM due WHERE o.id = due.id`
	tag, err := r.storage.pool.Exec(ctx, query, now, limit)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
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

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
