package middleware

import (
	"time"

	"inventory_commerce/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// AccessLog ghi method/path/status/thời gian xử lý của mỗi request vào performance logger
func AccessLog() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		entry := logger.GetPerformanceLogger().WithFields(logrus.Fields{
			"method":      c.Method(),
			"path":        c.Path(),
			"status":      c.Response().StatusCode(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		if rid := logger.RequestID(c); rid != "" {
			entry = entry.WithField("request_id", rid)
		}
		entry.Info("HTTP request")
		return err
	}
}
