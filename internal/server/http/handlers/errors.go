package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/verigate/internal/domain/errors"
	"github.com/polkiloo/verigate/internal/server/http/dto"
)

const internalErrorMessage = "internal server error"

// writeError maps domain failures onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var (
		validationErr *domainErrors.ValidationError
		quotaErr      *domainErrors.QuotaError
		providerErr   *domainErrors.ProviderError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: validationErr.Message, Fields: validationErr.Fields})
	case errors.Is(err, domainErrors.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	case errors.As(err, &quotaErr):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Message: quotaErr.Error(), Types: quotaErr.Types})
	case errors.Is(err, domainErrors.ErrQuotaExhausted):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Message: err.Error()})
	case errors.As(err, &providerErr):
		status := providerErr.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		c.JSON(status, dto.ErrorResponse{Message: providerErr.Message, Code: providerErr.Code, Details: providerErr.Details})
	case errors.Is(err, domainErrors.ErrUnknownCheck), errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, domainErrors.ErrInvalidOrder):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, domainErrors.ErrInvalidTransition), errors.Is(err, domainErrors.ErrAlreadyExists):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: internalErrorMessage})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: message})
}
