package global

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var reportIDPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// InitValidator khởi tạo validator và đăng ký các custom validator
func InitValidator() {
	Validate = NewValidator()
}

// NewValidator tạo validator mới; tên field trong lỗi lấy theo tag query/uri/json
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"query", "uri", "json"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	_ = v.RegisterValidation("report_id", validateReportID)
	return v
}

// validateReportID kiểm tra id báo cáo dạng kebab-case (sales-by-product)
func validateReportID(fl validator.FieldLevel) bool {
	return reportIDPattern.MatchString(fl.Field().String())
}
