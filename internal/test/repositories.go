package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/verigate/internal/domain/errors"
	"github.com/polkiloo/verigate/internal/domain/model"
	"github.com/polkiloo/verigate/internal/domain/repository"
)

// OrderRepositoryStub lets tests override single repository calls.
// Calls without an override go to Fallback, or fail with ErrNotFound when it is nil.
type OrderRepositoryStub struct {
	CreateFn        func(context.Context, *model.Order) (*model.Order, error)
	GetByOrderIDFn  func(context.Context, string) (*model.Order, error)
	ListByUserFn    func(context.Context, int64) ([]model.Order, error)
	FindEligibleFn  func(context.Context, int64, string, time.Time) (*model.Order, error)
	ConsumeOneFn    func(context.Context, int64, time.Time) (*model.Order, error)
	UpdatePaymentFn func(context.Context, string, []model.PaymentStatus, model.PaymentStatus, string) (*model.Order, error)
	ExpireDueFn     func(context.Context, time.Time, int) (int64, error)

	Fallback repository.OrderRepository

	mu       sync.Mutex
	Resolved []string
	Consumed []int64
}

func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	if s.Fallback != nil {
		return s.Fallback.Create(ctx, order)
	}
	created := *order
	created.ID = 1
	return &created, nil
}

func (s *OrderRepositoryStub) GetByOrderID(ctx context.Context, orderID string) (*model.Order, error) {
	if s.GetByOrderIDFn != nil {
		return s.GetByOrderIDFn(ctx, orderID)
	}
	if s.Fallback != nil {
		return s.Fallback.GetByOrderID(ctx, orderID)
	}
	return nil, domainErrors.ErrNotFound
}

func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.ListByUserFn != nil {
		return s.ListByUserFn(ctx, userID)
	}
	if s.Fallback != nil {
		return s.Fallback.ListByUser(ctx, userID)
	}
	return nil, nil
}

// FindEligible records the requested check type before answering.
func (s *OrderRepositoryStub) FindEligible(ctx context.Context, userID int64, checkType string, now time.Time) (*model.Order, error) {
	s.mu.Lock()
	s.Resolved = append(s.Resolved, checkType)
	s.mu.Unlock()
	if s.FindEligibleFn != nil {
		return s.FindEligibleFn(ctx, userID, checkType, now)
	}
	if s.Fallback != nil {
		return s.Fallback.FindEligible(ctx, userID, checkType, now)
	}
	return nil, domainErrors.ErrNotFound
}

// ConsumeOne records the order id before answering.
func (s *OrderRepositoryStub) ConsumeOne(ctx context.Context, id int64, now time.Time) (*model.Order, error) {
	s.mu.Lock()
	s.Consumed = append(s.Consumed, id)
	s.mu.Unlock()
	if s.ConsumeOneFn != nil {
		return s.ConsumeOneFn(ctx, id, now)
	}
	if s.Fallback != nil {
		return s.Fallback.ConsumeOne(ctx, id, now)
	}
	return nil, domainErrors.ErrQuotaExhausted
}

func (s *OrderRepositoryStub) UpdatePayment(ctx context.Context, orderID string, from []model.PaymentStatus, to model.PaymentStatus, transactionID string) (*model.Order, error) {
	if s.UpdatePaymentFn != nil {
		return s.UpdatePaymentFn(ctx, orderID, from, to, transactionID)
	}
	if s.Fallback != nil {
		return s.Fallback.UpdatePayment(ctx, orderID, from, to, transactionID)
	}
	return nil, domainErrors.ErrNotFound
}

func (s *OrderRepositoryStub) ExpireDue(ctx context.Context, now time.Time, limit int) (int64, error) {
	if s.ExpireDueFn != nil {
		return s.ExpireDueFn(ctx, now, limit)
	}
	if s.Fallback != nil {
		return s.Fallback.ExpireDue(ctx, now, limit)
	}
	return 0, nil
}

// ConsumedCount returns how many commits were attempted.
func (s *OrderRepositoryStub) ConsumedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Consumed)
}
