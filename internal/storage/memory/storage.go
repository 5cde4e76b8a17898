// Package memory is a process-local order store with the same resolution and
// consumption semantics as the PostgreSQL one.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/verigate/internal/domain/errors"
	"github.com/polkiloo/verigate/internal/domain/model"
	"github.com/polkiloo/verigate/internal/domain/repository"
)

// OrderStore keeps orders in a map guarded by a single mutex.
type OrderStore struct {
	mu     sync.Mutex
	nextID int64
	orders map[int64]*model.Order
	clock  func() time.Time
}

var _ repository.OrderRepository = (*OrderStore)(nil)

// NewOrderStore returns an empty store.
func NewOrderStore() *OrderStore {
	return &OrderStore{orders: make(map[int64]*model.Order), clock: time.Now}
}

func clone(o *model.Order) *model.Order {
	c := *o
	if o.Quota.ExpiresAt != nil {
		t := *o.Quota.ExpiresAt
		c.Quota.ExpiresAt = &t
	}
	return &c
}

func (s *OrderStore) Create(_ context.Context, order *model.Order) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.OrderID == order.OrderID {
			return nil, domainErrors.ErrAlreadyExists
		}
	}

	stored := clone(order)
	s.nextID++
	stored.ID = s.nextID
	stored.Quota.Normalize()
	now := s.clock()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	s.orders[stored.ID] = stored
	return clone(stored), nil
}

func (s *OrderStore) GetByOrderID(_ context.Context, orderID string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.OrderID == orderID {
			return clone(o), nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *OrderStore) ListByUser(_ context.Context, userID int64) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []model.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			result = append(result, *clone(o))
		}
	}
	slices.SortFunc(result, func(a, b model.Order) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return result, nil
}

func (s *OrderStore) FindEligible(_ context.Context, userID int64, checkType string, now time.Time) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var best *model.Order
	for _, o := range s.orders {
		if o.UserID != userID || o.CheckType != checkType || !o.Eligible(now) {
			continue
		}
		if best == nil || compareResolution(o, best) < 0 {
			best = o
		}
	}
	if best == nil {
		return nil, domainErrors.ErrNotFound
	}
	return clone(best), nil
}

// compareResolution orders by expiry (unset last), then end date, then creation time.
func compareResolution(a, b *model.Order) int {
	switch ea, eb := a.Quota.ExpiresAt, b.Quota.ExpiresAt; {
	case ea != nil && eb == nil:
		return -1
	case ea == nil && eb != nil:
		return 1
	case ea != nil && eb != nil:
		if c := ea.Compare(*eb); c != 0 {
			return c
		}
	}
	if c := a.EndDate.Compare(b.EndDate); c != 0 {
		return c
	}
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func (s *OrderStore) ConsumeOne(_ context.Context, id int64, now time.Time) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok || !o.Eligible(now) {
		return nil, domainErrors.ErrQuotaExhausted
	}
	o.Quota.Used++
	o.Quota.Normalize()
	o.UpdatedAt = s.clock()
	return clone(o), nil
}

func (s *OrderStore) UpdatePayment(_ context.Context, orderID string, from []model.PaymentStatus, to model.PaymentStatus, transactionID string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.OrderID != orderID {
			continue
		}
		if !slices.Contains(from, o.PaymentStatus) {
			return nil, domainErrors.ErrInvalidTransition
		}
		o.PaymentStatus = to
		if transactionID != "" {
			o.TransactionID = transactionID
		}
		if to == model.PaymentStatusFailed || to == model.PaymentStatusRefunded {
			o.Status = model.OrderStatusCancelled
		}
		o.UpdatedAt = s.clock()
		return clone(o), nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *OrderStore) ExpireDue(_ context.Context, now time.Time, limit int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.orders))
	for id := range s.orders {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var expired int64
	for _, id := range ids {
		if limit > 0 && expired >= int64(limit) {
			break
		}
		o := s.orders[id]
		if o.Status != model.OrderStatusActive {
			continue
		}
		if o.Quota.Expired(now) || !now.Before(o.EndDate) {
			o.Status = model.OrderStatusExpired
			o.UpdatedAt = s.clock()
			expired++
		}
	}
	return expired, nil
}
