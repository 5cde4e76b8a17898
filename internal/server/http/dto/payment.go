package dto

// PaymentWebhookRequest is the payment gateway's settlement notification.
type PaymentWebhookRequest struct {
	OrderID       string `json:"order_id" binding:"required"`
	Status        string `json:"status" binding:"required"`
	TransactionID string `json:"transaction_id"`
}
