package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db  *gorm.DB
	rdb *goredis.Client
}

func NewHealthHandler(db *gorm.DB, rdb *goredis.Client) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// Readiness reports whether the backing stores answer. Redis being down is
// degraded, not fatal: the cache layer fails open.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx := c.Request.Context()
	out := gin.H{"database": "ok", "redis": "ok"}
	status := http.StatusOK

	if h.db != nil {
		if sqlDB, err := h.db.DB(); err != nil {
			out["database"] = err.Error()
			status = http.StatusServiceUnavailable
		} else if err := sqlDB.PingContext(ctx); err != nil {
			out["database"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}
	if h.rdb != nil {
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			out["redis"] = "degraded: " + err.Error()
		}
	}

	c.JSON(status, out)
}
