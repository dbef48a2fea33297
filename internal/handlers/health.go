package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (h *Handler) HealthCheck(ctx *gin.Context) {
	sqlDB, err := h.db.DB()

	if err == nil {
		err = sqlDB.Ping()
	}

	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "degraded",
			"message": "Database unreachable",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"message":   "Ladle is running",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
