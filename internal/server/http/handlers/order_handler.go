package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/verigate/internal/domain/model"
	"github.com/polkiloo/verigate/internal/server/http/dto"
)

// OrderHandler manages order and quota endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Purchase handles POST /api/orders.
func (h *OrderHandler) Purchase(c *gin.Context) {
	var req dto.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "check_type, billing_period, payment_method are required")
		return
	}

	order, err := h.facade.Purchase(c.Request.Context(), CurrentUserID(c), model.PurchaseRequest{
		CheckType:     req.CheckType,
		BillingPeriod: model.BillingPeriod(req.BillingPeriod),
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.facade.Orders(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.facade.Order(c.Request.Context(), CurrentUserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Quota handles GET /api/quota.
func (h *OrderHandler) Quota(c *gin.Context) {
	summary, err := h.facade.QuotaSummary(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]dto.BalanceResponse, 0, len(summary))
	for _, b := range summary {
		resp = append(resp, dto.BalanceResponse{
			CheckType:  b.CheckType,
			Remaining:  b.Remaining,
			Orders:     b.Orders,
			NextExpiry: b.NextExpiry,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		OrderID:       order.OrderID,
		ServiceName:   order.ServiceName,
		CheckType:     order.CheckType,
		BillingPeriod: string(order.BillingPeriod),
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		PaymentMethod: string(order.PaymentMethod),
		TransactionID: order.TransactionID,
		Amount:        order.Amount,
		Currency:      order.Currency,
		StartDate:     order.StartDate,
		EndDate:       order.EndDate,
		Quota: dto.QuotaResponse{
			TotalAllowed: order.Quota.TotalAllowed,
			Used:         order.Quota.Used,
			Remaining:    order.Quota.Remaining,
			ValidityDays: order.Quota.ValidityDays,
			ExpiresAt:    order.Quota.ExpiresAt,
		},
		CreatedAt: order.CreatedAt,
	}
}
