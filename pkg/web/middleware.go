package web

import (
	"context"
	"log/slog"

	"github.com/dukex/flowcheck/pkg/log"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	loggerLocal     = "flowcheck.logger"
)

// RequestLogger tags every request with an id and stores a request scoped logger.
func RequestLogger(logger *slog.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		requestID := c.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(requestIDHeader, requestID)
		c.Locals(loggerLocal, logger.With("request_id", requestID, "method", c.Method(), "path", c.Path()))

		return c.Next()
	}
}

func requestLogger(c fiber.Ctx) *slog.Logger {
	if logger, ok := c.Locals(loggerLocal).(*slog.Logger); ok {
		return logger
	}

	return slog.Default()
}

// requestContext returns a context carrying the request logger.
func requestContext(c fiber.Ctx) context.Context {
	return log.WithLogger(c.Context(), requestLogger(c))
}
