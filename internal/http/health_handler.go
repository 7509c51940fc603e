package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// HealthHandler reports backing store health. A nil db or redis means the
// memory fallback is in use.
type HealthHandler struct {
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

func NewHealthHandler(db *sql.DB, redisClient *redis.Client, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{db: db, redisClient: redisClient, logger: logger}
}

type HealthCheckResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// HealthCheck handles GET /healthz.
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	status := "ok"
	services := map[string]string{}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		err := h.db.PingContext(ctx)
		cancel()
		if err != nil {
			status = "unhealthy"
			services["database"] = "unhealthy"
			h.logger.Warn("database health check failed", zap.Error(err))
		} else {
			services["database"] = "healthy"
		}
	} else {
		services["database"] = "memory"
	}

	if h.redisClient != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		err := h.redisClient.Ping(ctx).Err()
		cancel()
		if err != nil {
			status = "unhealthy"
			services["redis"] = "unhealthy"
			h.logger.Warn("redis health check failed", zap.Error(err))
		} else {
			services["redis"] = "healthy"
		}
	} else {
		services["redis"] = "memory"
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, HealthCheckResponse{Status: status, Timestamp: time.Now().UTC(), Services: services})
}
