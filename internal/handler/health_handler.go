package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck 依存サービスの疎通確認
type HealthCheck func(ctx context.Context) error

// HealthHandler ホームページとヘルスチェック
type HealthHandler struct {
	checks map[string]HealthCheck
}

func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{
		checks: checks,
	}
}

// Home GET / - ホームページ
func (h *HealthHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", nil)
}

// Health GET /api/health - ヘルスチェック
func (h *HealthHandler) Health(c *gin.Context) {
	for name, check := range h.checks {
		if err := check(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"service": "ecoleta",
				"failing": name,
				"message": err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "ecoleta",
	})
}
