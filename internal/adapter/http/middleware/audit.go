package middleware

import (
	"net/http"
	"time"

	"subscription-ledger/internal/core/domain"
	"subscription-ledger/internal/core/ports"
	"subscription-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// AccessAudit records a security.access_denied event for every request
// answered with 401 or 403. The subject is the principal when known,
// otherwise the client IP.
func AccessAudit(recorder ports.EventRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status != http.StatusUnauthorized && status != http.StatusForbidden {
			return
		}

		subject := Principal(c)
		if subject == "" {
			subject = c.ClientIP()
		}

		evt, err := domain.NewEvent(domain.EventAccessDenied, subject, domain.AccessDeniedData{
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			Status:    status,
			ErrorCode: c.GetString(response.ErrorCodeKey),
			ClientIP:  c.ClientIP(),
			RequestID: c.GetString(response.RequestIDKey),
		}, time.Now().UTC())
		if err != nil {
			return
		}
		recorder.Record(c.Request.Context(), evt)
	}
}
