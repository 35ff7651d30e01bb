package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const readinessTimeout = 2 * time.Second

// Pinger is the minimal contract needed from storage to check readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler exposes liveness and readiness endpoints.
type HealthHandler struct {
	storage Pinger
	started time.Time
}

func NewHealthHandler(storage Pinger) *HealthHandler {
	return &HealthHandler{storage: storage, started: time.Now()}
}

// Liveness responds OK if the process is up; it doesn't check dependencies.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive", "uptime": time.Since(h.started).Round(time.Second).String()})
}

// Readiness reports whether the storage backend answers a ping.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()
	start := time.Now()
	err := h.storage.Ping(ctx)
	took := time.Since(start).String()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unavailable",
			"storage": "down",
			"error":   err.Error(),
			"took":    took,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "storage": "up", "took": took})
}
