package basehdl

import (
	"errors"
	"fmt"
	"runtime/debug"

	"inventory_commerce/internal/common"
	"inventory_commerce/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// JSONResponse trả về JSON response với Content-Type: application/json; charset=utf-8
// Helper function này đảm bảo tất cả JSON responses đều có charset=utf-8 để hỗ trợ UTF-8 encoding đúng cách
func JSONResponse(c fiber.Ctx, statusCode int, data interface{}) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(statusCode).JSON(data)
}

// SafeHandlerWrapper bọc handler với recover: panic trả về 500 thay vì làm rơi kết nối
func SafeHandlerWrapper(c fiber.Ctx, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithRequest(c).WithField("stack", string(debug.Stack())).Errorf("Panic in handler: %v", r)
			err = WriteError(c, common.NewError(
				common.ErrCodeInternalServer,
				common.MsgInternalError,
				common.StatusInternalServerError,
				nil,
			))
		}
	}()
	return fn()
}

// WriteSuccess trả về {success: true, data}
func WriteSuccess(c fiber.Ctx, data interface{}) error {
	return JSONResponse(c, common.StatusOK, fiber.Map{
		"success": true,
		"data":    data,
	})
}

// WriteError chuẩn hóa lỗi thành {success: false, code, error, details?}.
// Lỗi không thuộc taxonomy trả về 500 với message chung, chi tiết chỉ ghi log.
func WriteError(c fiber.Ctx, err error) error {
	var customErr *common.Error
	if errors.As(err, &customErr) {
		body := fiber.Map{
			"success": false,
			"code":    customErr.Code.Code,
			"error":   customErr.Message,
		}
		if customErr.Details != nil {
			body["details"] = customErr.Details
		}
		status := common.StatusCodeOf(err)
		if status >= common.StatusInternalServerError {
			logger.WithRequest(c).WithError(errors.Unwrap(err)).WithField("code", customErr.Code.Code).Error(customErr.Message)
		}
		return JSONResponse(c, status, body)
	}

	logger.WithRequest(c).WithError(err).Error("Unhandled error")
	return JSONResponse(c, common.StatusInternalServerError, fiber.Map{
		"success": false,
		"code":    common.ErrCodeInternalServer.Code,
		"error":   common.MsgInternalError,
	})
}

// WriteFiberError lỗi do chính fiber sinh ra (route không tồn tại, limiter...)
func WriteFiberError(c fiber.Ctx, fe *fiber.Error) error {
	code := common.ErrCodeInternalServer.Code
	switch {
	case fe.Code == common.StatusTooManyRequests:
		code = common.ErrCodeRateLimit.Code
	case fe.Code < common.StatusInternalServerError:
		code = fmt.Sprintf("HTTP_%d", fe.Code)
	}
	return JSONResponse(c, fe.Code, fiber.Map{
		"success": false,
		"code":    code,
		"error":   fe.Message,
	})
}
