package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/verigate/internal/domain/model"
	"github.com/polkiloo/verigate/internal/server/http/dto"
)

// VerificationHandler manages check endpoints.
type VerificationHandler struct {
	facade VerificationFacade
}

// NewVerificationHandler constructs VerificationHandler.
func NewVerificationHandler(facade VerificationFacade) *VerificationHandler {
	return &VerificationHandler{facade: facade}
}

// List handles GET /api/checks.
func (h *VerificationHandler) List(c *gin.Context) {
	checks := h.facade.Checks()
	resp := make([]dto.CheckResponse, 0, len(checks))
	for _, check := range checks {
		item := dto.CheckResponse{
			Name:           check.Name,
			CheckType:      check.CheckType,
			FallbackTypes:  check.FallbackTypes,
			RequiredFields: check.RequiredFields,
			Consent:        check.Consent,
			Deferred:       check.Deferred(),
		}
		if item.Deferred {
			item.PrepareFields = check.Prepare.RequiredFields
			item.ConfirmFields = check.Confirm.RequiredFields
		}
		resp = append(resp, item)
	}
	c.JSON(http.StatusOK, resp)
}

// Verify handles POST /api/verify/:check.
func (h *VerificationHandler) Verify(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	result, err := h.facade.Verify(c.Request.Context(), CurrentUserID(c), c.Param("check"), payload)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.VerificationResponse{Success: true, Data: result})
}

// Prepare handles POST /api/verify/:check/prepare.
func (h *VerificationHandler) Prepare(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	result, err := h.facade.Prepare(c.Request.Context(), CurrentUserID(c), c.Param("check"), payload)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.VerificationResponse{Success: true, Data: result})
}

// Confirm handles POST /api/verify/:check/confirm. A result the provider did not
// confirm is returned with success=false and no credit spent.
func (h *VerificationHandler) Confirm(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	result, committed, err := h.facade.Confirm(c.Request.Context(), CurrentUserID(c), c.Param("check"), payload)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.VerificationResponse{Success: committed, Data: result})
}

func bindPayload(c *gin.Context) (model.Payload, bool) {
	payload := model.Payload{}
	if err := bindOptionalJSON(c, &payload); err != nil {
		badRequest(c, "request body must be a JSON object")
		return nil, false
	}
	return payload, true
}
