package middleware

import (
	"compress/gzip"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/verigate/internal/server/http/dto"
)

// maxDecompressedBody bounds inflated request bodies; document images arrive base64 encoded.
const maxDecompressedBody = 16 << 20

// DecompressRequest inflates gzip request bodies and refuses encodings it cannot read.
func DecompressRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch encoding := strings.ToLower(strings.TrimSpace(c.GetHeader("Content-Encoding"))); encoding {
		case "", "identity":
			c.Next()
			return
		case "gzip", "x-gzip":
		default:
			c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, dto.ErrorResponse{Message: "unsupported content encoding " + encoding})
			return
		}

		body := c.Request.Body
		reader, err := gzip.NewReader(body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Message: "malformed gzip body"})
			return
		}
		defer reader.Close()
		defer body.Close()

		c.Request.Body = http.MaxBytesReader(c.Writer, reader, maxDecompressedBody)
		c.Request.Header.Del("Content-Encoding")
		c.Request.ContentLength = -1
		c.Next()
	}
}
