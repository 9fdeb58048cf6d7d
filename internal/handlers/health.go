package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/statcalc/internal/models"
)

// NotFoundMessage is the error of unknown routes
const NotFoundMessage = "Route not found"

// Health handles health check requests
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Version:   models.AppVersion,
	})
}

// Version reports the calculator name and version
func (h *Handler) Version(c *fiber.Ctx) error {
	return c.JSON(models.CurrentVersion())
}

// NotFound handles 404 errors
func (h *Handler) NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(models.NewErrorResponse(NotFoundMessage))
}
