package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/statcalc/internal/models"
)

// Report handles POST /v1/report
func (h *Handler) Report(c *fiber.Ctx) error {
	var req models.ValuesRequest
	if err := parseBody(c, &req); err != nil {
		return invalidJSON(c, err)
	}
	return c.JSON(h.analysis.Report(c.UserContext(), req.Values))
}

// Statistics handles POST /v1/stats
func (h *Handler) Statistics(c *fiber.Ctx) error {
	var req models.ValuesRequest
	if err := parseBody(c, &req); err != nil {
		return invalidJSON(c, err)
	}
	return c.JSON(h.analysis.Statistics(c.UserContext(), req.Values))
}

// MovingAverage handles POST /v1/moving-average
func (h *Handler) MovingAverage(c *fiber.Ctx) error {
	var req models.MovingAverageRequest
	if err := parseBody(c, &req); err != nil {
		return invalidJSON(c, err)
	}
	return c.JSON(h.analysis.MovingAverage(c.UserContext(), req))
}

// EMA handles POST /v1/ema
func (h *Handler) EMA(c *fiber.Ctx) error {
	var req models.EMARequest
	if err := parseBody(c, &req); err != nil {
		return invalidJSON(c, err)
	}
	return c.JSON(h.analysis.EMA(c.UserContext(), req))
}

// Outliers handles POST /v1/outliers. The body is the bare index array.
func (h *Handler) Outliers(c *fiber.Ctx) error {
	var req models.OutliersRequest
	if err := parseBody(c, &req); err != nil {
		return invalidJSON(c, err)
	}
	return c.JSON(h.analysis.Outliers(c.UserContext(), req).Outliers)
}

// Correlation handles POST /v1/correlation
func (h *Handler) Correlation(c *fiber.Ctx) error {
	var req models.CorrelationRequest
	if err := parseBody(c, &req); err != nil {
		return invalidJSON(c, err)
	}

	view, err := h.analysis.Correlation(c.UserContext(), req)
	if err != nil {
		return h.serviceError(c, err)
	}
	return c.JSON(view)
}

// Percentile handles POST /v1/percentile
func (h *Handler) Percentile(c *fiber.Ctx) error {
	var req models.PercentileRequest
	if err := parseBody(c, &req); err != nil {
		return invalidJSON(c, err)
	}

	resp, err := h.analysis.Percentile(c.UserContext(), req)
	if err != nil {
		return h.serviceError(c, err)
	}
	return c.JSON(resp)
}

// MonthlyTotals handles POST /v1/monthly-totals
func (h *Handler) MonthlyTotals(c *fiber.Ctx) error {
	var req models.MonthlyTotalsRequest
	if err := parseBody(c, &req); err != nil {
		return invalidJSON(c, err)
	}

	resp, err := h.analysis.MonthlyTotals(c.UserContext(), req)
	if err != nil {
		return h.serviceError(c, err)
	}
	return c.JSON(resp)
}

// Anomalies handles POST /v1/anomalies
func (h *Handler) Anomalies(c *fiber.Ctx) error {
	var req models.AnomalyRequest
	if err := parseBody(c, &req); err != nil {
		return invalidJSON(c, err)
	}

	resp, err := h.analysis.Anomalies(c.UserContext(), req)
	if err != nil {
		return h.serviceError(c, err)
	}
	return c.JSON(resp)
}

// Forecast handles POST /v1/forecast
func (h *Handler) Forecast(c *fiber.Ctx) error {
	var req models.ForecastRequest
	if err := parseBody(c, &req); err != nil {
		return invalidJSON(c, err)
	}

	resp, err := h.analysis.Forecast(c.UserContext(), req)
	if err != nil {
		return h.serviceError(c, err)
	}
	return c.JSON(resp)
}

// Trend handles POST /v1/trend
func (h *Handler) Trend(c *fiber.Ctx) error {
	var req models.TrendRequest
	if err := parseBody(c, &req); err != nil {
		return invalidJSON(c, err)
	}
	return c.JSON(h.analysis.Trend(c.UserContext(), req))
}
