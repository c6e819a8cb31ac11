package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/rainflow/internal/models"
	"github.com/soltixdb/rainflow/internal/utils"
)

// Health reports liveness together with the counting defaults
// GET /health
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   utils.Version,
		Counting: models.CountingLimits{
			DefaultMode:     h.countingService.DefaultMode(),
			MaxSeriesLength: h.countingService.MaxSeriesLength(),
			MaxBins:         h.countingService.MaxBins(),
		},
	})
}

// NotFound answers every unmatched route
func (h *Handler) NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "NOT_FOUND",
			Message: "Route not found",
			Path:    c.Path(),
		},
	})
}
