package repository

import (
	"context"
	"time"

	"github.com/polkiloo/verigate/internal/domain/model"
)

// OrderRepository describes persistence operations with orders and their credit pools.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByOrderID(ctx context.Context, orderID string) (*model.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)

	// FindEligible returns the best order to draw one credit of checkType from, or ErrNotFound.
	FindEligible(ctx context.Context, userID int64, checkType string, now time.Time) (*model.Order, error)
	// ConsumeOne spends one credit of the order identified by id if it is still eligible at now.
	// It fails with ErrQuotaExhausted otherwise and never drives used above total.
	ConsumeOne(ctx context.Context, id int64, now time.Time) (*model.Order, error)

	UpdatePayment(ctx context.Context, orderID string, from []model.PaymentStatus, to model.PaymentStatus, transactionID string) (*model.Order, error)
	ExpireDue(ctx context.Context, now time.Time, limit int) (int64, error)
}
