package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

const healthCheckTimeout = 2 * time.Second

// HealthHandler reports process liveness and dependency reachability
type HealthHandler struct {
	checks map[string]HealthCheck
}

// NewHealthHandler creates a health handler over named dependency
// probes (nil probes are skipped).
func NewHealthHandler(db, redis, chain HealthCheck) *HealthHandler {
	checks := make(map[string]HealthCheck)
	if db != nil {
		checks["database"] = db
	}
	if redis != nil {
		checks["redis"] = redis
	}
	if chain != nil {
		checks["blockchain"] = chain
	}
	return &HealthHandler{checks: checks}
}

// Health returns overall status plus per-dependency reachability. The
// endpoint answers 200 even when degraded so orchestrators keep the
// process alive while a dependency recovers.
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := "ok"
	components := gin.H{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			status = "degraded"
			components[name] = "down"
			continue
		}
		components[name] = "up"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     status,
		"components": components,
		"time":       time.Now().UTC(),
	})
}
