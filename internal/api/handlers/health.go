package handlers

import (
	"net/http"
	"time"

	"github.com/REHANAMD/InternGenie/internal/logging"
	"github.com/REHANAMD/InternGenie/internal/storage"
	"github.com/REHANAMD/InternGenie/pkg/models"
	"github.com/REHANAMD/InternGenie/pkg/utils"

	"github.com/labstack/echo/v4"
)

var startTime = time.Now()

const version = "1.0.0"

// HealthHandler handles health check requests
func HealthHandler(store *storage.Store, redis *utils.RedisClient) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.GetGlobalLogger()
		logger.Debug("Health check requested", map[string]interface{}{
			"request_id": c.Response().Header().Get("X-Request-ID"),
		})

		checks := map[string]string{"api": "ok"}
		status := "healthy"
		httpStatus := http.StatusOK

		if err := store.Ping(c.Request().Context()); err != nil {
			checks["database"] = "unreachable"
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["database"] = "ok"
		}

		if redis != nil {
			if err := redis.IsHealthy(c.Request().Context()); err != nil {
				// Chat history degrades gracefully without Redis.
				checks["redis"] = "unreachable"
			} else {
				checks["redis"] = "ok"
			}
		}

		return c.JSON(httpStatus, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   version,
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}

// ReadinessHandler handles readiness probe requests
func ReadinessHandler(store *storage.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := store.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, models.HealthResponse{
				Status:    "not_ready",
				Timestamp: time.Now(),
				Version:   version,
				Uptime:    time.Since(startTime),
				Checks:    map[string]string{"database": "unreachable"},
			})
		}

		return c.JSON(http.StatusOK, models.HealthResponse{
			Status:    "ready",
			Timestamp: time.Now(),
			Version:   version,
			Uptime:    time.Since(startTime),
			Checks:    map[string]string{"api": "ok", "database": "ok"},
		})
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   version,
		Uptime:    time.Since(startTime),
	})
}
