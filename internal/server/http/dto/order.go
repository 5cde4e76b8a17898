package dto

import "time"

// PurchaseRequest describes a verification pack purchase.
type PurchaseRequest struct {
	CheckType     string `json:"check_type" binding:"required"`
	BillingPeriod string `json:"billing_period" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// QuotaResponse mirrors model.VerificationQuota.
type QuotaResponse struct {
	TotalAllowed int        `json:"total_allowed"`
	Used         int        `json:"used"`
	Remaining    int        `json:"remaining"`
	ValidityDays int        `json:"validity_days"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

// OrderResponse describes an order and its credit pool.
type OrderResponse struct {
	OrderID       string        `json:"order_id"`
	ServiceName   string        `json:"service_name"`
	CheckType     string        `json:"check_type"`
	BillingPeriod string        `json:"billing_period"`
	Status        string        `json:"status"`
	PaymentStatus string        `json:"payment_status"`
	PaymentMethod string        `json:"payment_method"`
	TransactionID string        `json:"transaction_id,omitempty"`
	Amount        int64         `json:"amount"`
	Currency      string        `json:"currency"`
	StartDate     time.Time     `json:"start_date"`
	EndDate       time.Time     `json:"end_date"`
	Quota         QuotaResponse `json:"verification_quota"`
	CreatedAt     time.Time     `json:"created_at"`
}

// BalanceResponse summarises usable credits of one check type.
type BalanceResponse struct {
	CheckType  string     `json:"check_type"`
	Remaining  int        `json:"remaining"`
	Orders     int        `json:"orders"`
	NextExpiry *time.Time `json:"next_expiry,omitempty"`
}
