// Package export tuần tự hóa kết quả báo cáo ra csv, excel, pdf.
// Thứ tự và tiêu đề cột lấy từ definition; lỗi giữa chừng không bao giờ trả file dở dang.
package export

import (
	"fmt"
	"strconv"
	"time"

	"inventory_commerce/internal/api/report/models"
	"inventory_commerce/internal/common"
	"inventory_commerce/internal/utility"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document dữ liệu một lần xuất file
type Document struct {
	Title    string
	Columns  []models.ColumnSpec
	Rows     []models.Row
	Location *time.Location
}

// Write tuần tự hóa doc theo format; lỗi được bọc thành ExportError
func Write(format models.ExportFormat, doc Document) ([]byte, error) {
	if doc.Location == nil {
		doc.Location = time.UTC
	}

	var (
		out []byte
		err error
	)
	switch format {
	case models.ExportCSV:
		out, err = writeCSV(doc)
	case models.ExportExcel:
		out, err = writeExcel(doc)
	case models.ExportPDF:
		out, err = writePDF(doc)
	default:
		return nil, common.NewFormatError("export", string(format))
	}
	if err != nil {
		return nil, common.NewExportError(err)
	}
	return out, nil
}

// ContentType MIME type của file xuất
func ContentType(format models.ExportFormat) string {
	switch format {
	case models.ExportCSV:
		return "text/csv; charset=utf-8"
	case models.ExportExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case models.ExportPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Extension phần mở rộng file
func Extension(format models.ExportFormat) string {
	switch format {
	case models.ExportExcel:
		return "xlsx"
	case models.ExportPDF:
		return "pdf"
	}
	return "csv"
}

// FileName <report-id>-<yyyyMMdd-HHmmss>.<ext>
func FileName(reportID string, format models.ExportFormat, at time.Time) string {
	return fmt.Sprintf("%s-%s.%s", reportID, utility.FileTimestamp(at), Extension(format))
}

// Valid true nếu format được hỗ trợ
func Valid(format models.ExportFormat) bool {
	switch format {
	case models.ExportCSV, models.ExportExcel, models.ExportPDF:
		return true
	}
	return false
}

// headers tiêu đề cột; cột không có Header dùng nhãn sinh từ key
func headers(cols []models.ColumnSpec) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Header
		if out[i] == "" {
			out[i] = utility.Label(c.Key)
		}
	}
	return out
}

// FormatCell chuỗi hiển thị của một ô theo định dạng cột
func FormatCell(col models.ColumnSpec, v any, loc *time.Location) string {
	if v == nil {
		return ""
	}
	switch col.Format {
	case models.FormatMoney, models.FormatPercent:
		if f, ok := utility.ToFloat64(v); ok {
			return strconv.FormatFloat(utility.Round2(f), 'f', 2, 64)
		}
	case models.FormatNumber:
		if f, ok := utility.ToFloat64(v); ok {
			return strconv.FormatFloat(utility.Round2(f), 'f', -1, 64)
		}
	case models.FormatDate:
		if t, ok := toTime(v); ok {
			return t.In(loc).Format("2006-01-02")
		}
	}
	return utility.KeyString(v)
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case primitive.DateTime:
		return t.Time(), true
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// numericValue giá trị số của ô cho excel (ô số giữ kiểu số)
func numericValue(col models.ColumnSpec, v any) (float64, bool) {
	switch col.Format {
	case models.FormatMoney, models.FormatPercent, models.FormatNumber:
		if f, ok := utility.ToFloat64(v); ok {
			return utility.Round2(f), true
		}
	}
	return 0, false
}
