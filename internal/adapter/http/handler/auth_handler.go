package handler

import (
	"net/http"

	"subscription-ledger/internal/adapter/http/dto"
	"subscription-ledger/internal/core/ports"
	"subscription-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// WhoAmI handles GET /api/v1/auth/whoami.
func WhoAmI(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	response.OK(c, dto.WhoAmIResponse{Principal: p})
}

// HealthCheck handles GET /health by pinging every dependency.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		type depStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}

		deps := make(map[string]depStatus)
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = depStatus{Status: "unhealthy", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = depStatus{Status: "healthy"}
			}
		}

		status := "healthy"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}
