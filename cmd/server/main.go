package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"inventory_commerce/internal/database"
	"inventory_commerce/internal/global"
	"inventory_commerce/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// initLogger khởi tạo logger theo cấu hình (LOG_LEVEL, LOG_DIR)
func initLogger() {
	cfg := logger.DefaultConfig()
	if c := global.MongoDB_ServerConfig; c != nil {
		if c.LogLevel != "" {
			cfg.Level = c.LogLevel
		}
		if c.LogDir != "" {
			cfg.LogPath = c.LogDir
		}
	}
	if err := logger.Init(cfg); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	logger.GetAppLogger().Info("Logger system initialized successfully")
}

// main_thread khởi tạo và chạy Fiber server, dừng khi nhận SIGINT/SIGTERM
func main_thread(app *fiber.App) {
	log := logger.GetAppLogger()
	address := global.MongoDB_ServerConfig.Address

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(map[string]interface{}{
			"address":  address,
			"protocol": "HTTP",
		}).Info("Starting server with HTTP")
		errCh <- app.Listen(address, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Error("Error in Fiber Listen")
		}
	case <-ctx.Done():
		log.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("Server shutdown failed")
		}
	}
}

// Hàm main
func main() {
	// Cấu hình phải có trước logger (mức log, thư mục log)
	initConfig()
	initLogger()
	defer logger.Shutdown()

	// Khởi tạo các biến toàn cục
	InitGlobal()

	// Khởi tạo registry
	InitRegistry()

	// Index cho các collection báo cáo đọc
	InitDataIndexes()

	app := InitFiberApp(InitReportHandler())
	main_thread(app)

	ReleaseRegistry()
	if global.MongoDB_Session != nil {
		_ = database.CloseInstance(global.MongoDB_Session)
	}
}
