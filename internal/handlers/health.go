package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check reports service liveness and database reachability.
// GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	dbStatus := "ok"
	if sqlDB, err := h.db.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "unreachable"
	}

	c.JSON(200, gin.H{
		"status":   "ok",
		"service":  "tic-projects",
		"database": dbStatus,
	})
}
