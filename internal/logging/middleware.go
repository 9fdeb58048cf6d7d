package logging

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID in both directions
const RequestIDHeader = "X-Request-ID"

// quietPaths are polled often and not logged
var quietPaths = map[string]bool{"/health": true, "/version": true}

// FiberMiddleware gives every request an ID (the caller's X-Request-ID or a
// fresh UUID), echoes it in the response, stores it with the logger in the
// user context and logs one line per request at a level chosen by status.
func FiberMiddleware(logger *Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if quietPaths[c.Path()] {
			return c.Next()
		}

		start := time.Now()

		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(RequestIDHeader, requestID)
		c.SetUserContext(WithLogger(WithRequestID(c.UserContext(), requestID), logger))

		err := c.Next()

		// Errors reach the app's error handler after this returns, so the
		// status is taken from the error.
		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		log := logger.With(
			"method", c.Method(),
			"path", c.Path(),
			"ip", c.IP(),
			"status", status,
			"bytes_in", len(c.Body()),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", requestID,
		)

		switch {
		case err != nil:
			log.Error("Request failed", "error", err)
		case status >= 500:
			log.Error("Server error")
		case status >= 400:
			log.Warn("Client error")
		default:
			log.Info("Request completed")
		}
		return err
	}
}
