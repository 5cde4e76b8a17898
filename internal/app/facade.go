package app

import (
	"context"
	"fmt"

	"github.com/polkiloo/verigate/internal/catalog"
	domainErrors "github.com/polkiloo/verigate/internal/domain/errors"
	"github.com/polkiloo/verigate/internal/domain/model"
	"github.com/polkiloo/verigate/internal/pkg/auth"
	"github.com/polkiloo/verigate/internal/usecase"
)

type Provider interface {
	Invoke(ctx context.Context, operation string, payload model.Payload) (model.Result, error)
}

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// VerificationFacade binds catalog checks to the provider and the entitlement use cases.
type VerificationFacade struct {
	catalog       *catalog.Catalog
	provider      Provider
	verifications *usecase.VerificationUseCase
	orders        *usecase.OrderUseCase
	tokens        auth.TokenParser
	store         HealthChecker
}

func NewVerificationFacade(
	checks *catalog.Catalog,
	provider Provider,
	verifications *usecase.VerificationUseCase,
	orders *usecase.OrderUseCase,
	tokens auth.TokenParser,
	store HealthChecker,
) *VerificationFacade {
	return &VerificationFacade{
		catalog:       checks,
		provider:      provider,
		verifications: verifications,
		orders:        orders,
		tokens:        tokens,
		store:         store,
	}
}

func (f *VerificationFacade) ParseToken(token string) (int64, error) {
	return f.tokens.ParseToken(token)
}

func (f *VerificationFacade) Checks() []catalog.Check {
	return f.catalog.Checks()
}

func (f *VerificationFacade) lookup(name string) (catalog.Check, error) {
	check, ok := f.catalog.Lookup(name)
	if !ok {
		return catalog.Check{}, fmt.Errorf("%w: %s", domainErrors.ErrUnknownCheck, name)
	}
	return check, nil
}

func (f *VerificationFacade) operation(op string) usecase.Invoker {
	return func(ctx context.Context, payload model.Payload) (model.Result, error) {
		return f.provider.Invoke(ctx, op, payload)
	}
}

// Verify runs a single-step check.
func (f *VerificationFacade) Verify(ctx context.Context, userID int64, name string, payload model.Payload) (model.Result, error) {
	check, err := f.lookup(name)
	if err != nil {
		return nil, err
	}
	if check.Deferred() {
		return nil, fmt.Errorf("%w: %s runs as prepare and confirm", domainErrors.ErrValidation, name)
	}
	return f.verifications.Execute(ctx, userID, check.Spec(), payload, f.operation(check.Operation))
}

// Prepare starts a deferred check.
func (f *VerificationFacade) Prepare(ctx context.Context, userID int64, name string, payload model.Payload) (model.Result, error) {
	check, err := f.deferred(name)
	if err != nil {
		return nil, err
	}
	return f.verifications.Prepare(ctx, userID, check.PrepareSpec(), payload, f.operation(check.Prepare.Operation))
}

// Confirm finishes a deferred check. The boolean reports whether a credit was spent.
func (f *VerificationFacade) Confirm(ctx context.Context, userID int64, name string, payload model.Payload) (model.Result, bool, error) {
	check, err := f.deferred(name)
	if err != nil {
		return nil, false, err
	}
	return f.verifications.Confirm(ctx, userID, check.ConfirmSpec(), payload, f.operation(check.Confirm.Operation), check.Succeeded())
}

func (f *VerificationFacade) deferred(name string) (catalog.Check, error) {
	check, err := f.lookup(name)
	if err != nil {
		return catalog.Check{}, err
	}
	if !check.Deferred() {
		return catalog.Check{}, fmt.Errorf("%w: %s is a single-step check", domainErrors.ErrValidation, name)
	}
	return check, nil
}

func (f *VerificationFacade) Purchase(ctx context.Context, userID int64, req model.PurchaseRequest) (*model.Order, error) {
	return f.orders.Purchase(ctx, userID, req)
}

func (f *VerificationFacade) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	return f.orders.ListByUser(ctx, userID)
}

func (f *VerificationFacade) Order(ctx context.Context, userID int64, orderID string) (*model.Order, error) {
	return f.orders.Get(ctx, userID, orderID)
}

func (f *VerificationFacade) QuotaSummary(ctx context.Context, userID int64) ([]model.QuotaBalance, error) {
	return f.orders.QuotaSummary(ctx, userID)
}

func (f *VerificationFacade) SettlePayment(ctx context.Context, orderID string, status model.PaymentStatus, transactionID string) (*model.Order, error) {
	return f.orders.SettlePayment(ctx, orderID, status, transactionID)
}

func (f *VerificationFacade) ExpireDue(ctx context.Context, limit int) (int64, error) {
	return f.orders.ExpireDue(ctx, limit)
}

func (f *VerificationFacade) HealthCheck(ctx context.Context) error {
	return f.store.HealthCheck(ctx)
}
