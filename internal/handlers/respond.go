package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/statcalc/internal/models"
	"github.com/soltixdb/statcalc/internal/services"
)

// parseBody decodes the JSON body into v. The Content-Type header is not
// required.
func parseBody(c *fiber.Ctx, v any) error {
	body := c.Body()
	if len(body) == 0 {
		return errors.New("request body is required")
	}
	return json.Unmarshal(body, v)
}

// badRequest answers 400 with the failure object
func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.NewErrorResponse(message))
}

// invalidJSON answers a body that could not be decoded
func invalidJSON(c *fiber.Ctx, err error) error {
	return badRequest(c, "Invalid JSON: "+err.Error())
}

// serviceError maps a service error to its status. Messages of unexpected
// errors are logged, not returned.
func (h *Handler) serviceError(c *fiber.Ctx, err error) error {
	var svcErr *services.ServiceError
	if !errors.As(err, &svcErr) {
		h.logger.Error("Unexpected service error", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.NewErrorResponse("Internal Server Error"))
	}

	status := fiber.StatusInternalServerError
	switch svcErr.Code {
	case services.CodeInvalidArgument:
		status = fiber.StatusBadRequest
	case services.CodeInsufficientData:
		status = fiber.StatusUnprocessableEntity
	}
	if status == fiber.StatusInternalServerError {
		h.logger.Error("Service failed", "path", c.Path(), "code", svcErr.Code, "error", svcErr.Message)
	}
	return c.Status(status).JSON(models.NewErrorResponse(svcErr.Message))
}
