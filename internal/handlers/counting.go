package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/rainflow/internal/models"
	"github.com/soltixdb/rainflow/internal/services"
)

// parseSeriesRequest decodes the common request body. A non-nil
// ErrorResponse is meant to be sent with status 400.
func (h *Handler) parseSeriesRequest(c *fiber.Ctx) (*models.SeriesRequest, *models.ErrorResponse) {
	var body models.SeriesRequest
	if err := c.BodyParser(&body); err != nil {
		h.logger.WithContext(c.UserContext()).Debug("Rejected request body", "path", c.Path(), "error", err)
		return nil, &models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_JSON",
				Message: "Failed to parse JSON body",
				Details: map[string]interface{}{"error": err.Error()},
			},
		}
	}

	if body.Series == nil {
		return nil, &models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    services.CodeInvalidSeries,
				Message: "series is required",
			},
		}
	}

	return &body, nil
}

// Reversals returns the reversal points of a series
// POST /v1/reversals
func (h *Handler) Reversals(c *fiber.Ctx) error {
	body, errResp := h.parseSeriesRequest(c)
	if errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errResp)
	}

	result, err := h.countingService.Reversals(c.UserContext(), body.Series)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Cycles returns the half and full cycles of a series
// POST /v1/cycles
func (h *Handler) Cycles(c *fiber.Ctx) error {
	body, errResp := h.parseSeriesRequest(c)
	if errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errResp)
	}

	result, err := h.countingService.Cycles(c.UserContext(), body.Series)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Counts returns the cycle histogram of a series. Without ndigits, nbins or
// binsize in the body the configured default binning applies.
// POST /v1/counts
func (h *Handler) Counts(c *fiber.Ctx) error {
	body, errResp := h.parseSeriesRequest(c)
	if errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errResp)
	}

	req := &services.CountRequest{Series: body.Series}
	if body.HasBinning() {
		cfg := body.CountConfig()
		req.Binning = &cfg
	}

	result, err := h.countingService.Counts(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
