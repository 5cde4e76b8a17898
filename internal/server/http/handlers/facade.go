package handlers

import (
	"context"

	"github.com/polkiloo/verigate/internal/catalog"
	"github.com/polkiloo/verigate/internal/domain/model"
)

// VerificationFacade runs catalog checks on behalf of a user.
type VerificationFacade interface {
	Checks() []catalog.Check
	Verify(ctx context.Context, userID int64, name string, payload model.Payload) (model.Result, error)
	Prepare(ctx context.Context, userID int64, name string, payload model.Payload) (model.Result, error)
	Confirm(ctx context.Context, userID int64, name string, payload model.Payload) (model.Result, bool, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	Purchase(ctx context.Context, userID int64, req model.PurchaseRequest) (*model.Order, error)
	Orders(ctx context.Context, userID int64) ([]model.Order, error)
	Order(ctx context.Context, userID int64, orderID string) (*model.Order, error)
	QuotaSummary(ctx context.Context, userID int64) ([]model.QuotaBalance, error)
}

// PaymentFacade applies payment gateway outcomes.
type PaymentFacade interface {
	SettlePayment(ctx context.Context, orderID string, status model.PaymentStatus, transactionID string) (*model.Order, error)
}

// HealthFacade reports backing store health.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// Facade aggregates the full set of operations used across handlers.
type Facade interface {
	VerificationFacade
	OrderFacade
	PaymentFacade
	HealthFacade
	ParseToken(token string) (int64, error)
}
