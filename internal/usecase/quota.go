package usecase

import (
	"context"
	"errors"

	domainErrors "github.com/polkiloo/verigate/internal/domain/errors"
	"github.com/polkiloo/verigate/internal/domain/model"
	"github.com/polkiloo/verigate/internal/domain/repository"
)

// QuotaUseCase finds eligible credit pools and spends credits from them.
type QuotaUseCase struct {
	orders repository.OrderRepository
	now    Clock
}

// NewQuotaUseCase constructs QuotaUseCase.
func NewQuotaUseCase(orders repository.OrderRepository, clock Clock) *QuotaUseCase {
	return &QuotaUseCase{orders: orders, now: clock}
}

// Resolve returns the order to draw one checkType credit from, or ErrNotFound.
func (u *QuotaUseCase) Resolve(ctx context.Context, userID int64, checkType string) (*model.Order, error) {
	return u.orders.FindEligible(ctx, userID, checkType, u.now())
}

// ResolveChain tries each type in turn and returns the first eligible order.
// Types are not merged: a later type is consulted only when every earlier one came up empty.
func (u *QuotaUseCase) ResolveChain(ctx context.Context, userID int64, types []string) (*model.Order, error) {
	for _, checkType := range types {
		order, err := u.Resolve(ctx, userID, checkType)
		if err == nil {
			return order, nil
		}
		if !errors.Is(err, domainErrors.ErrNotFound) {
			return nil, err
		}
	}
	return nil, &domainErrors.QuotaError{Types: types}
}

// Commit spends one credit of order against its current persisted state.
func (u *QuotaUseCase) Commit(ctx context.Context, order *model.Order) (*model.Order, error) {
	return u.orders.ConsumeOne(ctx, order.ID, u.now())
}
