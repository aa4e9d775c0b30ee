package main

import (
	"fmt"
	"time"

	basehdl "inventory_commerce/internal/api/base/handler"
	"inventory_commerce/internal/api/middleware"
	reporthdl "inventory_commerce/internal/api/report/handler"
	reportrouter "inventory_commerce/internal/api/report/router"
	"inventory_commerce/internal/api/router"
	"inventory_commerce/internal/common"
	"inventory_commerce/internal/global"
	"inventory_commerce/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"
)

// isHealthPath health check không bị rate limit / recover trace
func isHealthPath(c fiber.Ctx) bool {
	return c.Path() == "/health" || c.Path() == "/api/v1/system/health"
}

// InitFiberApp khởi tạo ứng dụng Fiber với các middleware cần thiết
func InitFiberApp(reportHandler *reporthdl.ReportHandler) *fiber.App {
	cfg := global.MongoDB_ServerConfig

	app := fiber.New(fiber.Config{
		// =========================================
		// 1. CẤU HÌNH CƠ BẢN
		// =========================================
		AppName:       "Inventory Commerce Reports",
		ServerHeader:  "Inventory Commerce Reports",
		CaseSensitive: true,
		UnescapePath:  true,

		// =========================================
		// 2. CẤU HÌNH PERFORMANCE
		// =========================================
		BodyLimit:       1 * 1024 * 1024, // API chỉ đọc, body nhỏ
		ReadBufferSize:  8192,            // query filter dạng JSON có thể dài
		WriteBufferSize: 4096,

		// =========================================
		// 3. CẤU HÌNH TIMEOUT
		// =========================================
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // file xuất lớn
		IdleTimeout:  120 * time.Second,

		// =========================================
		// 4. CẤU HÌNH ERROR HANDLING
		// =========================================
		ErrorHandler: middleware.ErrorHandler,
	})

	// =========================================
	// MIDDLEWARE STACK
	// =========================================

	// 1. Request ID Middleware - Tạo ID duy nhất cho mỗi request để trace
	app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}))

	// 2. CORS Middleware - đặt sớm để xử lý preflight
	origins := cfg.CORSOrigins()
	allowCredentials := cfg.CORS_AllowCredentials
	for _, o := range origins {
		if o == "*" {
			// cors không cho phép wildcard đi kèm credentials
			allowCredentials = false
		}
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", fiber.HeaderXRequestID},
		AllowCredentials: allowCredentials,
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", fiber.HeaderXRequestID},
		MaxAge:           24 * 60 * 60,
	}))

	// 3. Security Headers Middleware
	app.Use(func(c fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		return c.Next()
	})

	// 4. Rate Limiting Middleware - chỉ bật khi enabled và Max > 0
	if cfg.RateLimit_Enabled && cfg.RateLimit_Max > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit_Max,
			Expiration: time.Duration(cfg.RateLimit_Window) * time.Second,
			KeyGenerator: func(c fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c fiber.Ctx) error {
				return basehdl.WriteError(c, common.NewError(common.ErrCodeRateLimit, common.MsgTooManyRequests, common.StatusTooManyRequests, nil))
			},
			Next: func(c fiber.Ctx) bool {
				return isHealthPath(c) || c.Method() == fiber.MethodOptions
			},
		}))
		logger.GetAppLogger().Infof("Rate limiting enabled: %d requests per %d seconds", cfg.RateLimit_Max, cfg.RateLimit_Window)
	} else {
		logger.GetAppLogger().Info("Rate limiting disabled")
	}

	// 5. Recover Middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			logger.WithRequest(c).WithFields(map[string]interface{}{
				"panic": fmt.Sprintf("%v", e),
			}).Error("Panic recovered")
		},
	}))

	// 6. Access log vào performance logger
	app.Use(middleware.AccessLog())

	system := basehdl.NewSystemHandler(aggregator)
	app.Get("/health", system.HandleHealth)

	systemRoutes := func(v1 fiber.Router, r *router.Router) error {
		router.RegisterRouteWithMiddleware(v1, "/system", fiber.MethodGet, "/health", nil, system.HandleHealth)
		return nil
	}
	if err := router.SetupRoutes(app, systemRoutes, reportrouter.Register(reportHandler)); err != nil {
		logger.GetAppLogger().Fatalf("Failed to setup routes: %v", err)
	}

	return app
}
