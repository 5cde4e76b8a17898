package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/polkiloo/verigate/internal/domain/model"
	"github.com/polkiloo/verigate/internal/storage/memory"
)

var testNow = time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

func fixedClock() Clock {
	return func() time.Time { return testNow }
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type orderSeed struct {
	user      int64
	checkType string
	total     int
	used      int
	expires   *time.Time
	created   time.Time
	payment   model.PaymentStatus
}

func seedOrder(t *testing.T, store *memory.OrderStore, s orderSeed) *model.Order {
	t.Helper()
	if s.user == 0 {
		s.user = 1
	}
	if s.created.IsZero() {
		s.created = testNow.Add(-time.Hour)
	}
	if s.payment == "" {
		s.payment = model.PaymentStatusCompleted
	}
	order, err := store.Create(context.Background(), &model.Order{
		OrderID:       model.NewOrderID(),
		UserID:        s.user,
		Kind:          model.OrderKindVerification,
		CheckType:     s.checkType,
		BillingPeriod: model.BillingOneTime,
		Status:        model.OrderStatusActive,
		PaymentStatus: s.payment,
		PaymentMethod: model.PaymentMethodCard,
		StartDate:     s.created,
		EndDate:       s.created.AddDate(1, 0, 0),
		Quota:         model.VerificationQuota{TotalAllowed: s.total, Used: s.used, ExpiresAt: s.expires},
		CreatedAt:     s.created,
	})
	require.NoError(t, err)
	return order
}

func at(d time.Duration) *time.Time {
	t := testNow.Add(d)
	return &t
}
