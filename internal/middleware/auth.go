package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/statcalc/internal/logging"
	"github.com/soltixdb/statcalc/internal/models"
)

// MinAPIKeyLength is the minimum required length for API keys
const MinAPIKeyLength = 32

// Failure messages of the bridge's /v1 group
const (
	MissingAPIKeyMessage = "API key is required. Provide it via X-API-Key header or Authorization header."
	InvalidAPIKeyMessage = "Invalid API key."
)

// ValidateAPIKey reports whether a configured key is long enough and not
// blank.
func ValidateAPIKey(key string) bool {
	return len(key) >= MinAPIKeyLength && strings.TrimSpace(key) != ""
}

// APIKeyAuth guards a route group. The key is read from X-API-Key, then from
// Authorization with or without a "Bearer " prefix. Keys failing
// ValidateAPIKey are ignored with a warning.
func APIKeyAuth(logger *logging.Logger, apiKeys []string, enabled bool) fiber.Handler {
	if !enabled {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	var keys [][]byte
	for _, key := range apiKeys {
		if key == "" {
			continue
		}
		if !ValidateAPIKey(key) {
			logger.Warn("API key does not meet security requirements",
				"key_length", len(key),
				"min_required", MinAPIKeyLength,
				"key_prefix", maskAPIKey(key),
			)
			continue
		}
		keys = append(keys, []byte(key))
	}
	if len(keys) == 0 && len(apiKeys) > 0 {
		logger.Error("No valid API keys configured - all provided keys failed validation",
			"total_keys", len(apiKeys),
			"min_required_length", MinAPIKeyLength,
		)
	}

	return func(c *fiber.Ctx) error {
		log := logger.WithContext(c.UserContext()).With("path", c.Path(), "method", c.Method(), "ip", c.IP())

		apiKey := extractAPIKey(c)
		if apiKey == "" {
			log.Warn("API key missing")
			return c.Status(fiber.StatusUnauthorized).JSON(models.NewErrorResponse(MissingAPIKeyMessage))
		}
		if !matchKey(keys, apiKey) {
			log.Warn("Invalid API key", "api_key_prefix", maskAPIKey(apiKey))
			return c.Status(fiber.StatusUnauthorized).JSON(models.NewErrorResponse(InvalidAPIKeyMessage))
		}

		log.Debug("API key authenticated")
		return c.Next()
	}
}

func extractAPIKey(c *fiber.Ctx) string {
	if key := c.Get("X-API-Key"); key != "" {
		return key
	}
	auth := c.Get("Authorization")
	if after, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return after
	}
	return auth
}

// matchKey compares against every key in constant time
func matchKey(keys [][]byte, candidate string) bool {
	c := []byte(candidate)
	found := 0
	for _, k := range keys {
		found |= subtle.ConstantTimeCompare(k, c)
	}
	return found == 1
}

// maskAPIKey keeps the first 4 characters for logs
func maskAPIKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "****"
}
