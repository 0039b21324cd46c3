package handler

import (
	"encoding/json"
	"net/http"

	"marketing-api/pkg/database"
	"marketing-api/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HealthCheck reports service readiness. The database is the hard
// dependency: 503 when it is unreachable. The AI service status is included
// for visibility but never affects the status code.
func HealthCheck(c echo.Context) error {
	log := logger.FromContext(c)

	dbOk := true
	if err := database.Ping(c.Request().Context()); err != nil {
		log.Warn("Database health check failed", zap.Error(err))
		dbOk = false
	}

	var aiService interface{} = "unknown"
	aiOk := false
	if AIClient != nil {
		if body, err := AIClient.Health(c.Request().Context()); err == nil {
			var parsed interface{}
			if json.Unmarshal(body, &parsed) == nil {
				aiService = parsed
			}
			aiOk = true
		} else {
			aiService = "down"
		}
	}

	if !dbOk {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"status":    "degraded",
			"api":       "up",
			"db":        "down",
			"aiService": aiService,
			"aiOk":      aiOk,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":    "ok",
		"api":       "up",
		"db":        "up",
		"aiService": aiService,
		"aiOk":      aiOk,
	})
}

// MetricsHandler serves the Prometheus metrics endpoint
func MetricsHandler(c echo.Context) error {
	metricsHandler().ServeHTTP(c.Response(), c.Request())
	return nil
}
