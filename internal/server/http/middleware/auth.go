package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/polkiloo/verigate/internal/pkg/auth"
	"github.com/polkiloo/verigate/internal/server/http/dto"
)

const (
	// UserIDContextKey is a gin context key for authenticated user identifier.
	UserIDContextKey = "userID"
	authCookieName   = "verigate_token"
	bearerChallenge  = `Bearer realm="verigate"`
)

// AuthRequired admits requests carrying a valid bearer token or auth cookie.
func AuthRequired(parser pkgAuth.TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			unauthorized(c, "authentication required")
			return
		}

		userID, err := parser.ParseToken(token)
		switch {
		case errors.Is(err, pkgAuth.ErrInvalidToken):
			unauthorized(c, "invalid or expired token")
			return
		case err != nil:
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "internal server error"})
			return
		}

		c.Set(UserIDContextKey, userID)
		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", bearerChallenge)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: message})
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}
