package middleware

import (
	"errors"

	basehdl "inventory_commerce/internal/api/base/handler"

	"github.com/gofiber/fiber/v3"
)

// ErrorHandler dùng cho fiber.Config.ErrorHandler: mọi lỗi lọt ra khỏi handler đều về cùng một format
func ErrorHandler(c fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return basehdl.WriteFiberError(c, fe)
	}
	return basehdl.WriteError(c, err)
}
