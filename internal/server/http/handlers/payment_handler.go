package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/verigate/internal/domain/model"
	"github.com/polkiloo/verigate/internal/server/http/dto"
)

// WebhookSecretHeader carries the shared secret of the payment gateway.
const WebhookSecretHeader = "X-Webhook-Secret"

// SecretVerifier checks a presented shared secret.
type SecretVerifier interface {
	Verify(presented string) bool
}

// PaymentHandler receives payment gateway notifications.
type PaymentHandler struct {
	facade PaymentFacade
	secret SecretVerifier
	logger *slog.Logger
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade, secret SecretVerifier, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{facade: facade, secret: secret, logger: logger}
}

// Webhook handles POST /api/payments/webhook.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	if !h.secret.Verify(c.GetHeader(WebhookSecretHeader)) {
		h.logger.Warn("payment webhook rejected", slog.String("remote", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "invalid webhook secret"})
		return
	}

	var req dto.PaymentWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "order_id and status are required")
		return
	}

	order, err := h.facade.SettlePayment(c.Request.Context(), req.OrderID, model.PaymentStatus(req.Status), req.TransactionID)
	if err != nil {
		h.logger.Warn("payment settlement failed",
			slog.String("order_id", req.OrderID),
			slog.String("status", req.Status),
			slog.String("error", err.Error()),
		)
		writeError(c, err)
		return
	}

	h.logger.Info("payment settled",
		slog.String("order_id", order.OrderID),
		slog.String("payment_status", string(order.PaymentStatus)),
	)
	c.JSON(http.StatusOK, toOrderResponse(*order))
}
