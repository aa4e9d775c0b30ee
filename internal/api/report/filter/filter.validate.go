// Package filter kiểm tra và parse giá trị filter của báo cáo theo FilterSpec.
// Các hàm trong package là thuần, không truy cập store.
package filter

import (
	"fmt"
	"math"

	"inventory_commerce/internal/api/report/models"
)

// Mã lỗi filter
const (
	CodeMissingFilter    = "MissingFilter"
	CodeInvalidDateRange = "InvalidDateRange"
	CodeInvalidNumber    = "InvalidNumber"
	CodeInvalidType      = "InvalidFilterType"
)

// FilterError một lỗi filter, trả về trong details của ValidationError
type FilterError struct {
	Key     string `json:"key"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e FilterError) Error() string {
	return fmt.Sprintf("%s: %s", e.Key, e.Message)
}

// MissingFilter lỗi thiếu filter bắt buộc
func MissingFilter(key string) FilterError {
	return FilterError{Key: key, Code: CodeMissingFilter, Message: "Thiếu filter bắt buộc"}
}

// InvalidDateRange lỗi khoảng ngày không hợp lệ
func InvalidDateRange(key string) FilterError {
	return FilterError{Key: key, Code: CodeInvalidDateRange, Message: "Khoảng ngày không hợp lệ (start phải <= end)"}
}

// InvalidNumber lỗi giá trị số không hợp lệ
func InvalidNumber(key string) FilterError {
	return FilterError{Key: key, Code: CodeInvalidNumber, Message: "Giá trị số không hợp lệ"}
}

func invalidType(key string, want models.FilterType) FilterError {
	return FilterError{Key: key, Code: CodeInvalidType, Message: fmt.Sprintf("Filter phải có kiểu %s", want)}
}

// IsEmpty true nếu giá trị coi như không được cung cấp
func IsEmpty(v models.FilterValue) bool {
	switch x := v.(type) {
	case nil:
		return true
	case models.SelectValue:
		return x.Value == ""
	case models.MultiSelectValue:
		return len(x.Values) == 0
	case models.SearchValue:
		return x.Text == ""
	}
	return false
}

// ValidateFilters kiểm tra raw theo specs. Key không có trong specs bị bỏ qua.
// Không bao giờ panic; trả về danh sách lỗi (rỗng nếu hợp lệ).
func ValidateFilters(raw map[string]models.FilterValue, specs []models.FilterSpec) []FilterError {
	errs := make([]FilterError, 0)
	for _, spec := range specs {
		v, ok := raw[spec.Key]
		if !ok || IsEmpty(v) {
			if spec.Required {
				errs = append(errs, MissingFilter(spec.Key))
			}
			continue
		}
		if v.Type() != spec.Type {
			errs = append(errs, invalidType(spec.Key, spec.Type))
			continue
		}

		switch x := v.(type) {
		case models.DateRangeValue:
			if x.Start.IsZero() || x.End.IsZero() || x.Start.After(x.End) {
				errs = append(errs, InvalidDateRange(spec.Key))
			}
		case models.NumberValue:
			if math.IsNaN(x.Value) || math.IsInf(x.Value, 0) {
				errs = append(errs, InvalidNumber(spec.Key))
			}
		}
	}
	return errs
}
