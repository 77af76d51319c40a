package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/mystickies/store-api/internal/cache"
	"github.com/mystickies/store-api/internal/utils"
)

// HealthHandler reports service liveness and its dependencies.
type HealthHandler struct {
	db    *sqlx.DB
	redis *cache.RedisClient
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(db *sqlx.DB, redis *cache.RedisClient) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// GetHealth handles GET /api/health
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx := c.Request.Context()

	dbOK := h.db.PingContext(ctx) == nil
	redisOK := h.redis.Ping(ctx) == nil

	status := http.StatusOK
	if !dbOK {
		status = http.StatusServiceUnavailable
	}
	utils.Success(c, status, "Health status", gin.H{
		"database": dbOK,
		"redis":    redisOK,
	})
}
