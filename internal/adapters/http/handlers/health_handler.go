package handlers

import (
	"ecothreads/internal/config"
	"ecothreads/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check endpoints
type HealthHandler struct{}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Root returns basic API info
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return response.Success(c, "EcoThreads API", fiber.Map{
		"version": "1.0",
		"docs":    "/swagger/index.html",
	})
}

// Check returns service and database health
// @Summary Health check
// @Description Check API and database connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if err := config.HealthCheck(); err != nil {
		return response.Error(c, fiber.StatusServiceUnavailable, "Database unavailable")
	}

	return response.Success(c, "OK", fiber.Map{
		"status": "healthy",
	})
}
