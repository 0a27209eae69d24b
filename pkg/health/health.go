package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Check reports the health of one dependency.
type Check func(ctx context.Context) error

// Handler serves the liveness and readiness endpoints.
type Handler struct {
	service string
	checks  map[string]Check
}

// NewHandler creates a health handler. db may be nil when the service runs
// without a database.
func NewHandler(db *gorm.DB, service string) *Handler {
	h := &Handler{service: service, checks: make(map[string]Check)}
	if db != nil {
		h.AddCheck("database", DatabaseCheck(db))
	}
	return h
}

// AddCheck registers a named readiness check.
func (h *Handler) AddCheck(name string, check Check) {
	h.checks[name] = check
}

// RegisterRoutes mounts /health and /ready.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Liveness)
	r.GET("/ready", h.Readiness)
}

// Liveness handles GET /health.
func (h *Handler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": h.service})
}

// Readiness handles GET /ready, running every registered check.
func (h *Handler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	status := http.StatusOK
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "unavailable"
	}
	c.JSON(status, gin.H{"status": state, "service": h.service, "checks": results})
}

// DatabaseCheck pings the database behind db.
func DatabaseCheck(db *gorm.DB) Check {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

// RedisCheck pings a Redis server.
func RedisCheck(client *redis.Client) Check {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
