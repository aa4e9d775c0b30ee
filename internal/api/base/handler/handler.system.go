package basehdl

import (
	"context"
	"time"

	"inventory_commerce/internal/common"

	"github.com/gofiber/fiber/v3"
)

// Pinger kiểm tra kết nối store
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler xử lý các route liên quan đến system operations
type SystemHandler struct {
	store Pinger
}

// NewSystemHandler tạo một instance mới của SystemHandler; store nil nghĩa là chưa kết nối
func NewSystemHandler(store Pinger) *SystemHandler {
	return &SystemHandler{store: store}
}

// HandleHealth kiểm tra tình trạng hệ thống
// @Summary Kiểm tra tình trạng hệ thống
// @Description Kiểm tra trạng thái của API và database connection
// @Produce json
// @Success 200 {object} map[string]interface{} "Hệ thống hoạt động bình thường"
// @Failure 503 {object} map[string]interface{} "Hệ thống đang gặp sự cố"
// @Router /health [get]
func (h *SystemHandler) HandleHealth(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	services := fiber.Map{"api": "ok"}
	healthData := fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"services":  services,
	}

	if h.store == nil {
		healthData["status"] = "degraded"
		services["database"] = "not_initialized"
		return JSONResponse(c, common.StatusServiceUnavailable, fiber.Map{"success": false, "data": healthData})
	}
	if err := h.store.Ping(ctx); err != nil {
		healthData["status"] = "degraded"
		services["database"] = "error"
		return JSONResponse(c, common.StatusServiceUnavailable, fiber.Map{"success": false, "data": healthData})
	}

	services["database"] = "ok"
	return WriteSuccess(c, healthData)
}
