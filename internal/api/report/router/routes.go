// Package router đăng ký các route thuộc domain Report.
package router

import (
	reporthdl "inventory_commerce/internal/api/report/handler"
	apirouter "inventory_commerce/internal/api/router"

	"github.com/gofiber/fiber/v3"
)

// Register trả về hàm đăng ký route báo cáo lên v1: danh mục, lựa chọn filter, chạy/xuất báo cáo, dashboard bán hàng.
func Register(h *reporthdl.ReportHandler, reportMiddlewares ...fiber.Handler) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		apirouter.RegisterRouteWithMiddleware(v1, "/reports", fiber.MethodGet, "/", nil, h.HandleListReports)
		// /filters phải đăng ký trước /:category/:reportId
		apirouter.RegisterRouteWithMiddleware(v1, "/reports", fiber.MethodGet, "/filters", nil, h.HandleFilterOptions)
		apirouter.RegisterRouteWithMiddleware(v1, "/reports", fiber.MethodGet, "/:category/:reportId", reportMiddlewares, h.HandleReport)
		apirouter.RegisterRouteWithMiddleware(v1, "/analytics", fiber.MethodGet, "/sales", reportMiddlewares, h.HandleSalesAnalytics)
		return nil
	}
}
