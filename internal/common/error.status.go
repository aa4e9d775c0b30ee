package common

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// HTTP Status Code Constants
const (
	StatusOK = 200 // Thành công

	StatusBadRequest          = 400 // Yêu cầu không hợp lệ
	StatusNotFound            = 404 // Không tìm thấy tài nguyên
	StatusTooManyRequests     = 429 // Quá nhiều yêu cầu
	StatusInternalServerError = 500 // Lỗi server
	StatusServiceUnavailable  = 503 // Store không sẵn sàng
)

// Response Messages
const (
	MsgSuccess         = "Thao tác thành công"
	MsgBadRequest      = "Yêu cầu không hợp lệ"
	MsgNotFound        = "Không tìm thấy tài nguyên"
	MsgInternalError   = "Lỗi hệ thống"
	MsgValidationError = "Dữ liệu không hợp lệ"
	MsgDatabaseError   = "Lỗi truy vấn dữ liệu báo cáo"
	MsgReportNotFound  = "Không tìm thấy báo cáo"
	MsgExportError     = "Không thể xuất file báo cáo"
	MsgTooManyRequests = "Quá nhiều yêu cầu, vui lòng thử lại sau"
)

// ErrorCode định nghĩa mã lỗi chi tiết
type ErrorCode struct {
	Code        string // Mã lỗi (ví dụ: VAL_001)
	Category    string // Phân loại lỗi (ví dụ: Validation)
	SubCategory string // Phân loại con (ví dụ: Input)
	Description string // Mô tả chi tiết
}

// Định nghĩa các mã lỗi theo hệ thống phân cấp
var (
	// System Errors (SYS_xxx)
	ErrCodeInternalServer = ErrorCode{
		Code:        "SYS_001",
		Category:    "System",
		SubCategory: "Internal",
		Description: "Lỗi hệ thống nội bộ",
	}

	ErrCodeRateLimit = ErrorCode{
		Code:        "SYS_002",
		Category:    "System",
		SubCategory: "RateLimit",
		Description: "Vượt quá số request cho phép",
	}

	// Validation Errors (VAL_xxx)
	ErrCodeValidationInput = ErrorCode{
		Code:        "VAL_001",
		Category:    "Validation",
		SubCategory: "Input",
		Description: "Lỗi dữ liệu đầu vào",
	}

	ErrCodeValidationFormat = ErrorCode{
		Code:        "VAL_002",
		Category:    "Validation",
		SubCategory: "Format",
		Description: "Lỗi định dạng dữ liệu",
	}

	// Database Errors (DB_xxx)
	ErrCodeDatabase = ErrorCode{
		Code:        "DB",
		Category:    "Database",
		SubCategory: "General",
		Description: "Lỗi cơ sở dữ liệu chung",
	}

	ErrCodeDatabaseConnection = ErrorCode{
		Code:        "DB_001",
		Category:    "Database",
		SubCategory: "Connection",
		Description: "Lỗi kết nối cơ sở dữ liệu",
	}

	ErrCodeDatabaseQuery = ErrorCode{
		Code:        "DB_002",
		Category:    "Database",
		SubCategory: "Query",
		Description: "Lỗi truy vấn dữ liệu",
	}

	// Report Errors (RPT_xxx)
	ErrCodeReportNotFound = ErrorCode{
		Code:        "RPT_001",
		Category:    "Report",
		SubCategory: "Registry",
		Description: "Không có báo cáo với id này trong danh mục",
	}

	ErrCodeReportExport = ErrorCode{
		Code:        "RPT_002",
		Category:    "Report",
		SubCategory: "Export",
		Description: "Lỗi tuần tự hóa file xuất (csv/excel/pdf)",
	}
)

// Error định nghĩa cấu trúc lỗi chi tiết
type Error struct {
	Code       ErrorCode // Mã lỗi chi tiết
	Message    string    // Thông báo lỗi (trả về cho client)
	StatusCode int       // HTTP status code
	Details    any       // Thông tin chi tiết thêm về lỗi (trả về cho client)
	cause      error     // Lỗi gốc, chỉ dùng để log
}

// Error trả về message của lỗi
func (e *Error) Error() string {
	return e.Message
}

// Unwrap trả về lỗi gốc (hỗ trợ errors.Is/As qua chuỗi wrap)
func (e *Error) Unwrap() error {
	return e.cause
}

// Is so sánh theo mã lỗi: hai *Error cùng Code.Code được coi là cùng loại
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code.Code == t.Code.Code && (t.Message == "" || e.Message == t.Message)
}

// NewError tạo một error mới với đầy đủ thông tin
func NewError(code ErrorCode, message string, statusCode int, details any) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// WrapError giống NewError nhưng giữ lại lỗi gốc để log
func WrapError(code ErrorCode, message string, statusCode int, cause error) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		cause:      cause,
	}
}

// Các sentinel dùng cho errors.Is
var (
	ErrInvalidInput  = &Error{Code: ErrCodeValidationInput, StatusCode: StatusBadRequest}
	ErrInvalidFormat = &Error{Code: ErrCodeValidationFormat, StatusCode: StatusBadRequest}
	ErrRequiredField = NewError(ErrCodeValidationInput, "Thiếu thông tin bắt buộc", StatusBadRequest, nil)
	ErrNotFound      = &Error{Code: ErrCodeReportNotFound, StatusCode: StatusNotFound}
	ErrExport        = &Error{Code: ErrCodeReportExport, StatusCode: StatusInternalServerError}
	ErrStore         = &Error{Code: ErrCodeDatabaseQuery, StatusCode: StatusInternalServerError}
)

// NewValidationError lỗi 400, details là danh sách lỗi filter/phân trang
func NewValidationError(message string, details any) error {
	if message == "" {
		message = MsgValidationError
	}
	return NewError(ErrCodeValidationInput, message, StatusBadRequest, details)
}

// NewFormatError lỗi 400 khi giá trị đúng kiểu nhưng sai định dạng cho phép (ví dụ định dạng xuất)
func NewFormatError(field, value string) error {
	return NewError(ErrCodeValidationFormat, "Định dạng không được hỗ trợ", StatusBadRequest, map[string]string{field: value})
}

// NewNotFoundError lỗi 404 khi reportId không có trong danh mục
func NewNotFoundError(reportID string) error {
	return NewError(ErrCodeReportNotFound, MsgReportNotFound, StatusNotFound, map[string]string{"reportId": reportID})
}

// NewExportError lỗi 500 khi không tuần tự hóa được file; không bao giờ trả file dở dang
func NewExportError(cause error) error {
	return WrapError(ErrCodeReportExport, MsgExportError, StatusInternalServerError, cause)
}

// NewStoreError lỗi 500 chung cho mọi lỗi truy vấn store; message không lộ chi tiết
func NewStoreError(cause error) error {
	return WrapError(ErrCodeDatabaseQuery, MsgDatabaseError, StatusInternalServerError, cause)
}

// ConvertMongoError chuyển đổi lỗi MongoDB sang lỗi hệ thống.
// Mọi lỗi store (timeout, mất kết nối, lỗi pipeline) đều là 500 với message chung.
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}

	// Đã là lỗi hệ thống thì giữ nguyên
	var sysErr *Error
	if errors.As(err, &sysErr) {
		return err
	}

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), mongo.IsTimeout(err):
		return WrapError(ErrCodeDatabaseConnection, "Truy vấn báo cáo bị hủy hoặc quá thời gian", StatusInternalServerError, err)
	case mongo.IsNetworkError(err):
		return WrapError(ErrCodeDatabaseConnection, "Lỗi kết nối cơ sở dữ liệu", StatusInternalServerError, err)
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return WrapError(ErrCodeDatabaseQuery, MsgDatabaseError, StatusInternalServerError, err)
	}

	return NewStoreError(err)
}

// StatusCodeOf trả về HTTP status tương ứng với err (mặc định 500)
func StatusCodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) && e.StatusCode != 0 {
		return e.StatusCode
	}
	return StatusInternalServerError
}

// IsStoreError true nếu err thuộc nhóm lỗi cơ sở dữ liệu (DB_xxx)
func IsStoreError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code.Category == ErrCodeDatabase.Category
}
