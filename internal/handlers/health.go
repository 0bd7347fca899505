package handlers

import (
	"time"

	"newsapi/internal/config"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const apiVersion = "1.0.0"

type HealthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewHealthHandler(gdb *gorm.DB, cfg *config.Config) *HealthHandler {
	return &HealthHandler{db: gdb, cfg: cfg}
}

func (h *HealthHandler) Check(c *gin.Context) {
	data := gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"version":   apiVersion,
		"service":   h.cfg.Server.Name,
		"database":  "connected",
	}

	if err := h.db.Exec("SELECT 1").Error; err != nil {
		data["status"] = "unhealthy"
		data["database"] = "disconnected"
		data["error"] = err.Error()
	}

	OK(c, data)
}
