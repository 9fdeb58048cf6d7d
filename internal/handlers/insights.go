package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/statcalc/internal/models"
)

// CategoryBreakdown handles POST /v1/category-breakdown
func (h *Handler) CategoryBreakdown(c *fiber.Ctx) error {
	var req models.ExpensesRequest
	if err := parseBody(c, &req); err != nil {
		return invalidJSON(c, err)
	}

	resp, err := h.analysis.CategoryBreakdown(c.UserContext(), req)
	if err != nil {
		return h.serviceError(c, err)
	}
	return c.JSON(resp)
}

// SpendingSummary handles POST /v1/spending-summary
func (h *Handler) SpendingSummary(c *fiber.Ctx) error {
	var req models.ExpensesRequest
	if err := parseBody(c, &req); err != nil {
		return invalidJSON(c, err)
	}

	resp, err := h.analysis.SpendingSummary(c.UserContext(), req)
	if err != nil {
		return h.serviceError(c, err)
	}
	return c.JSON(resp)
}

// Insights handles POST /v1/insights
func (h *Handler) Insights(c *fiber.Ctx) error {
	var req models.ExpensesRequest
	if err := parseBody(c, &req); err != nil {
		return invalidJSON(c, err)
	}

	resp, err := h.analysis.Insights(c.UserContext(), req)
	if err != nil {
		return h.serviceError(c, err)
	}
	return c.JSON(resp)
}
