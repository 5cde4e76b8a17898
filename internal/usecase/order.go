package usecase

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	domainErrors "github.com/polkiloo/verigate/internal/domain/errors"
	"github.com/polkiloo/verigate/internal/domain/model"
	"github.com/polkiloo/verigate/internal/domain/repository"
)

// QuotaPlanner knows what a billing tier grants for a check type.
type QuotaPlanner interface {
	QuotaPlan(checkType string, period model.BillingPeriod) (model.QuotaPlan, bool)
}

// settlementSources lists the payment states each target state may be reached from.
var settlementSources = map[model.PaymentStatus][]model.PaymentStatus{
	model.PaymentStatusCompleted: {model.PaymentStatusPending},
	model.PaymentStatusFailed:    {model.PaymentStatusPending},
	model.PaymentStatusRefunded:  {model.PaymentStatusCompleted},
}

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	orders repository.OrderRepository
	plans  QuotaPlanner
	now    Clock
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, plans QuotaPlanner, clock Clock) *OrderUseCase {
	return &OrderUseCase{orders: orders, plans: plans, now: clock}
}

// Purchase records a pending verification order priced from the catalog.
func (u *OrderUseCase) Purchase(ctx context.Context, userID int64, req model.PurchaseRequest) (*model.Order, error) {
	if !req.BillingPeriod.Valid() {
		return nil, fmt.Errorf("%w: unknown billing period %q", domainErrors.ErrInvalidOrder, req.BillingPeriod)
	}
	if !req.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%w: unsupported payment method %q", domainErrors.ErrInvalidOrder, req.PaymentMethod)
	}
	plan, ok := u.plans.QuotaPlan(req.CheckType, req.BillingPeriod)
	if !ok {
		return nil, fmt.Errorf("%w: no %s plan for %q", domainErrors.ErrInvalidOrder, req.BillingPeriod, req.CheckType)
	}

	order := model.NewVerificationOrder(userID, req.CheckType, req.BillingPeriod, req.PaymentMethod, plan, u.now())
	return u.orders.Create(ctx, order)
}

// ListByUser returns orders newest first.
func (u *OrderUseCase) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return u.orders.ListByUser(ctx, userID)
}

// Get returns the order only when it belongs to userID.
func (u *OrderUseCase) Get(ctx context.Context, userID int64, orderID string) (*model.Order, error) {
	order, err := u.orders.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domainErrors.ErrNotFound
	}
	return order, nil
}

// SettlePayment applies a payment gateway outcome.
func (u *OrderUseCase) SettlePayment(ctx context.Context, orderID string, status model.PaymentStatus, transactionID string) (*model.Order, error) {
	from, ok := settlementSources[status]
	if !ok {
		return nil, fmt.Errorf("%w: cannot settle to %q", domainErrors.ErrInvalidTransition, status)
	}
	return u.orders.UpdatePayment(ctx, orderID, from, status, transactionID)
}

// QuotaSummary aggregates usable credits per check type.
func (u *OrderUseCase) QuotaSummary(ctx context.Context, userID int64) ([]model.QuotaBalance, error) {
	orders, err := u.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := u.now()
	byType := make(map[string]*model.QuotaBalance)
	for i := range orders {
		o := &orders[i]
		if !o.Eligible(now) {
			continue
		}
		b, ok := byType[o.CheckType]
		if !ok {
			b = &model.QuotaBalance{CheckType: o.CheckType}
			byType[o.CheckType] = b
		}
		b.Remaining += o.Quota.Remaining
		b.Orders++
		if exp := o.Quota.ExpiresAt; exp != nil && (b.NextExpiry == nil || exp.Before(*b.NextExpiry)) {
			b.NextExpiry = exp
		}
	}

	summary := make([]model.QuotaBalance, 0, len(byType))
	for _, b := range byType {
		summary = append(summary, *b)
	}
	slices.SortFunc(summary, func(a, b model.QuotaBalance) int { return cmp.Compare(a.CheckType, b.CheckType) })
	return summary, nil
}

// ExpireDue marks at most limit overdue active orders as expired.
func (u *OrderUseCase) ExpireDue(ctx context.Context, limit int) (int64, error) {
	return u.orders.ExpireDue(ctx, u.now(), limit)
}
