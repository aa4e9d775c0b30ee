package logger

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/sirupsen/logrus"
)

// ContextKey là type cho context keys
type ContextKey string

const (
	// RequestIDKey là key cho request ID trong context
	RequestIDKey ContextKey = "requestID"
	// ReportIDKey là key cho report id đang chạy
	ReportIDKey ContextKey = "reportID"
)

// WithContext trả về logger entry kèm request_id/report_id nếu có trong ctx
func WithContext(ctx context.Context) *logrus.Entry {
	entry := GetAppLogger().WithContext(ctx)
	if v := ctx.Value(RequestIDKey); v != nil {
		entry = entry.WithField("request_id", v)
	}
	if v := ctx.Value(ReportIDKey); v != nil {
		entry = entry.WithField("report_id", v)
	}
	return entry
}

// RequestID lấy request id do middleware requestid gắn vào
func RequestID(c fiber.Ctx) string {
	if rid := requestid.FromContext(c); rid != "" {
		return rid
	}
	if rid := c.Get(fiber.HeaderXRequestID); rid != "" {
		return rid
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

// WithRequest trả về logger entry với request context từ Fiber
func WithRequest(c fiber.Ctx) *logrus.Entry {
	entry := GetAppLogger().WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"ip":     c.IP(),
	})
	if rid := RequestID(c); rid != "" {
		entry = entry.WithField("request_id", rid)
	}
	return entry
}

// WithModule trả về logger entry với module name (report, analytics, filters...)
func WithModule(module string) *logrus.Entry {
	return GetAppLogger().WithField("module", module)
}

// ContextFromRequest tạo context cho tầng service, mang theo request id
func ContextFromRequest(c fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if rid := RequestID(c); rid != "" {
		ctx = context.WithValue(ctx, RequestIDKey, rid)
	}
	return ctx
}
