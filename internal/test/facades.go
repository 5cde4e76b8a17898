package test

import (
	"context"
	"sync"

	"github.com/polkiloo/verigate/internal/catalog"
	"github.com/polkiloo/verigate/internal/domain/model"
)

// ProviderStub answers provider operations and records which were invoked.
type ProviderStub struct {
	InvokeFn func(context.Context, string, model.Payload) (model.Result, error)

	mu         sync.Mutex
	Operations []string
}

// Invoke delegates to InvokeFn or echoes a success result.
func (s *ProviderStub) Invoke(ctx context.Context, operation string, payload model.Payload) (model.Result, error) {
	s.mu.Lock()
	s.Operations = append(s.Operations, operation)
	s.mu.Unlock()
	if s.InvokeFn != nil {
		return s.InvokeFn(ctx, operation, payload)
	}
	return model.Result{"status": "success"}, nil
}

// HealthCheckerStub reports a fixed store health.
type HealthCheckerStub struct {
	Err error
}

func (s HealthCheckerStub) HealthCheck(context.Context) error {
	return s.Err
}

// VerificationFacadeStub provides controllable behaviour for check endpoints.
type VerificationFacadeStub struct {
	ChecksVal []catalog.Check
	VerifyFn  func(context.Context, int64, string, model.Payload) (model.Result, error)
	PrepareFn func(context.Context, int64, string, model.Payload) (model.Result, error)
	ConfirmFn func(context.Context, int64, string, model.Payload) (model.Result, bool, error)
}

func (s VerificationFacadeStub) Checks() []catalog.Check {
	return s.ChecksVal
}

// Verify delegates to provided function or returns an empty success.
func (s VerificationFacadeStub) Verify(ctx context.Context, userID int64, name string, payload model.Payload) (model.Result, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, userID, name, payload)
	}
	return model.Result{"status": "success"}, nil
}

func (s VerificationFacadeStub) Prepare(ctx context.Context, userID int64, name string, payload model.Payload) (model.Result, error) {
	if s.PrepareFn != nil {
		return s.PrepareFn(ctx, userID, name, payload)
	}
	return model.Result{"request_id": "req-1"}, nil
}

func (s VerificationFacadeStub) Confirm(ctx context.Context, userID int64, name string, payload model.Payload) (model.Result, bool, error) {
	if s.ConfirmFn != nil {
		return s.ConfirmFn(ctx, userID, name, payload)
	}
	return model.Result{"status": "success"}, true, nil
}

// OrderFacadeStub provides controllable behaviour for order and quota endpoints.
type OrderFacadeStub struct {
	PurchaseFn func(context.Context, int64, model.PurchaseRequest) (*model.Order, error)
	OrdersFn   func(context.Context, int64) ([]model.Order, error)
	OrderFn    func(context.Context, int64, string) (*model.Order, error)
	QuotaFn    func(context.Context, int64) ([]model.QuotaBalance, error)
}

func (s OrderFacadeStub) Purchase(ctx context.Context, userID int64, req model.PurchaseRequest) (*model.Order, error) {
	if s.PurchaseFn != nil {
		return s.PurchaseFn(ctx, userID, req)
	}
	return &model.Order{ID: 1, OrderID: "ORD-1", UserID: userID, CheckType: req.CheckType, BillingPeriod: req.BillingPeriod}, nil
}

// Orders returns predefined orders for given user.
func (s OrderFacadeStub) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, userID)
	}
	return []model.Order{{OrderID: "ORD-1", UserID: userID}}, nil
}

func (s OrderFacadeStub) Order(ctx context.Context, userID int64, orderID string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, userID, orderID)
	}
	return &model.Order{OrderID: orderID, UserID: userID}, nil
}

func (s OrderFacadeStub) QuotaSummary(ctx context.Context, userID int64) ([]model.QuotaBalance, error) {
	if s.QuotaFn != nil {
		return s.QuotaFn(ctx, userID)
	}
	return nil, nil
}

// PaymentFacadeStub records webhook settlements.
type PaymentFacadeStub struct {
	SettleFn func(context.Context, string, model.PaymentStatus, string) (*model.Order, error)
}

func (s PaymentFacadeStub) SettlePayment(ctx context.Context, orderID string, status model.PaymentStatus, transactionID string) (*model.Order, error) {
	if s.SettleFn != nil {
		return s.SettleFn(ctx, orderID, status, transactionID)
	}
	return &model.Order{OrderID: orderID, PaymentStatus: status, TransactionID: transactionID}, nil
}

// FacadeStub aggregates facade dependencies for HTTP layer tests.
type FacadeStub struct {
	VerificationFacadeStub
	OrderFacadeStub
	PaymentFacadeStub
	HealthCheckerStub
	TokenParserStub
}
