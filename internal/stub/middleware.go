package stub

import (
	"strings"
	"time"

	"github.com/ecotrack/console/internal/logger"
	"github.com/gofiber/fiber/v2"
)

// AuthConfig defines the config for the bearer-token middleware
type AuthConfig struct {
	// Token is the accepted development token.
	Token string

	// Next defines a function to skip middleware.
	// Optional. Default: nil
	Next func(c *fiber.Ctx) bool
}

// BearerAuth guards the API with a fixed development token. The real
// EcoTrack backend validates JWTs; the stub only needs the console's
// request shape, including the 401 body for a missing or wrong token.
func BearerAuth(cfg AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			logger.Get().Warn().
				Str("method", c.Method()).
				Str("path", c.Path()).
				Str("ip", c.IP()).
				Msg("Request without bearer token")

			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Missing bearer token",
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token != cfg.Token {
			logger.Get().Warn().
				Str("method", c.Method()).
				Str("path", c.Path()).
				Str("ip", c.IP()).
				Msg("Request with invalid bearer token")

			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid bearer token",
			})
		}

		c.Locals("token", token)
		return c.Next()
	}
}

// RequestLogger logs one structured line per request
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		event := logger.Get().Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Str("ip", c.IP()).
			Dur("latency", time.Since(start))
		if err != nil {
			event = event.Err(err)
		}
		event.Msg("request")

		return err
	}
}
