package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderKind separates credit-bearing orders from subscription plans.
type OrderKind string

const (
	OrderKindVerification OrderKind = "verification"
	OrderKindPlan         OrderKind = "plan"
)

// OrderStatus describes order lifecycle.
type OrderStatus string

const (
	OrderStatusActive    OrderStatus = "active"
	OrderStatusExpired   OrderStatus = "expired"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// PaymentStatus describes settlement state reported by the payment gateway.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// BillingPeriod selects the pricing tier an order was bought under.
type BillingPeriod string

const (
	BillingOneTime BillingPeriod = "one-time"
	BillingMonthly BillingPeriod = "monthly"
	BillingYearly  BillingPeriod = "yearly"
)

// Valid reports whether p is a known billing period.
func (p BillingPeriod) Valid() bool {
	switch p {
	case BillingOneTime, BillingMonthly, BillingYearly:
		return true
	}
	return false
}

// PaymentMethod is the instrument used at checkout.
type PaymentMethod string

const (
	PaymentMethodCard       PaymentMethod = "card"
	PaymentMethodUPI        PaymentMethod = "upi"
	PaymentMethodNetBanking PaymentMethod = "netbanking"
)

// Valid reports whether m is a supported payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodUPI, PaymentMethodNetBanking:
		return true
	}
	return false
}

const DefaultCurrency = "INR"

// VerificationQuota is the credit pool carried by a verification order.
type VerificationQuota struct {
	TotalAllowed int
	Used         int
	Remaining    int
	ValidityDays int
	ExpiresAt    *time.Time
}

// Normalize clamps used into [0, total] and recomputes remaining from the other two.
func (q *VerificationQuota) Normalize() {
	if q.TotalAllowed < 0 {
		q.TotalAllowed = 0
	}
	if q.Used < 0 {
		q.Used = 0
	}
	if q.Used > q.TotalAllowed {
		q.Used = q.TotalAllowed
	}
	q.Remaining = max(0, q.TotalAllowed-q.Used)
}

// Expired reports whether the pool has passed its expiry at now.
func (q VerificationQuota) Expired(now time.Time) bool {
	return q.ExpiresAt != nil && !now.Before(*q.ExpiresAt)
}

// Order describes a purchase and, for verification orders, its credit pool.
type Order struct {
	ID            int64
	OrderID       string
	UserID        int64
	Kind          OrderKind
	ServiceName   string
	CheckType     string
	BillingPeriod BillingPeriod
	Status        OrderStatus
	PaymentStatus PaymentStatus
	PaymentMethod PaymentMethod
	TransactionID string
	Amount        int64
	Currency      string
	StartDate     time.Time
	EndDate       time.Time
	Quota         VerificationQuota
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Eligible reports whether one credit may be drawn from the order at now.
func (o *Order) Eligible(now time.Time) bool {
	return o.Kind == OrderKindVerification &&
		o.Status == OrderStatusActive &&
		o.PaymentStatus == PaymentStatusCompleted &&
		o.Quota.Remaining > 0 &&
		!o.Quota.Expired(now)
}

// NewOrderID returns a fresh public order identifier.
func NewOrderID() string {
	return "ORD-" + uuid.NewString()
}

// QuotaPlan is the credit grant for one check type under one billing period.
type QuotaPlan struct {
	Count        int
	ValidityDays int
	Price        int64
}

// NewVerificationOrder builds a pending verification order whose schedule is derived once from plan.
func NewVerificationOrder(userID int64, checkType string, period BillingPeriod, method PaymentMethod, plan QuotaPlan, now time.Time) *Order {
	end, expires := DeriveSchedule(now, OrderKindVerification, period, plan.ValidityDays)
	quota := VerificationQuota{
		TotalAllowed: plan.Count,
		ValidityDays: plan.ValidityDays,
		ExpiresAt:    expires,
	}
	quota.Normalize()
	return &Order{
		OrderID:       NewOrderID(),
		UserID:        userID,
		Kind:          OrderKindVerification,
		ServiceName:   checkType + " verification",
		CheckType:     checkType,
		BillingPeriod: period,
		Status:        OrderStatusActive,
		PaymentStatus: PaymentStatusPending,
		PaymentMethod: method,
		Amount:        plan.Price,
		Currency:      DefaultCurrency,
		StartDate:     now,
		EndDate:       end,
		Quota:         quota,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// DeriveSchedule computes the end date and quota expiry for an order starting at start.
// Verification orders with a positive validity run for that many days; everything else
// follows its billing period. Only verification orders get a quota expiry.
func DeriveSchedule(start time.Time, kind OrderKind, period BillingPeriod, validityDays int) (time.Time, *time.Time) {
	var end time.Time
	switch {
	case kind == OrderKindVerification && validityDays > 0:
		end = start.AddDate(0, 0, validityDays)
	case period == BillingMonthly:
		end = start.AddDate(0, 1, 0)
	default:
		end = start.AddDate(1, 0, 0)
	}

	if kind != OrderKindVerification {
		return end, nil
	}
	expires := end
	return end, &expires
}

// QuotaBalance summarises usable credits of one check type.
type QuotaBalance struct {
	CheckType  string
	Remaining  int
	Orders     int
	NextExpiry *time.Time
}

// PurchaseRequest is what a user selects at checkout.
type PurchaseRequest struct {
	CheckType     string
	BillingPeriod BillingPeriod
	PaymentMethod PaymentMethod
}
