package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopcore/backend/internal/interfaces/http/dto"
)

// BodyLimit caps request bodies at maxBytes. A declared Content-Length over
// the cap is refused before the handler runs; an undeclared one fails the
// bind once the reader passes the cap. Zero disables the limit.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 || c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, tooLargeResponse(maxBytes, c.GetString(RequestIDKey)))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func tooLargeResponse(limit int64, requestID string) dto.Response {
	return dto.NewErrorResponseWithRequestID(dto.ErrCodeRequestTooLarge,
		fmt.Sprintf("request body exceeds %d bytes", limit), requestID)
}
