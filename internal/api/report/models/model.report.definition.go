package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// FilterType loại filter của báo cáo
type FilterType string

const (
	FilterDateRange   FilterType = "date_range"
	FilterSelect      FilterType = "select"
	FilterMultiSelect FilterType = "multi_select"
	FilterNumber      FilterType = "number"
	FilterSearch      FilterType = "search"
)

// Giá trị select đặc biệt nghĩa là không lọc
const AllValue = "all"

// OptionsSource chỉ nguồn danh sách lựa chọn (GET /reports/filters?type=&collection=)
type OptionsSource struct {
	Type       string `json:"type"`
	Collection string `json:"collection"`
}

// FilterSpec mô tả một filter mà báo cáo chấp nhận.
// Field là field của document được lọc; Operator chỉ dùng cho filter số (eq, gte, lte).
type FilterSpec struct {
	Key          string         `json:"key"`
	Type         FilterType     `json:"type"`
	Label        string         `json:"label"`
	Required     bool           `json:"required"`
	Field        string         `json:"-"`
	Operator     string         `json:"-"`
	SearchFields []string       `json:"-"`
	Options      *OptionsSource `json:"options,omitempty"`
}

// ColumnFormat định dạng hiển thị của cột khi xuất file
type ColumnFormat string

const (
	FormatText    ColumnFormat = "text"
	FormatNumber  ColumnFormat = "number"
	FormatMoney   ColumnFormat = "money"
	FormatPercent ColumnFormat = "percent"
	FormatDate    ColumnFormat = "date"
)

// ColumnSpec cột của báo cáo, thứ tự cột là thứ tự xuất file
type ColumnSpec struct {
	Key      string       `json:"key"`
	Header   string       `json:"header"`
	Format   ColumnFormat `json:"format"`
	Sortable bool         `json:"sortable"`
}

// SortDirection chiều sắp xếp
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
	// SortCanonical thứ tự của bộ key chuẩn (funnel), chỉ dùng cho DefaultSort
	SortCanonical SortDirection = "canonical"
)

// SortSpec cột sắp xếp và chiều
type SortSpec struct {
	Column    string        `json:"column"`
	Direction SortDirection `json:"direction"`
}

// Order trả về 1 hoặc -1 cho $sort
func (s SortSpec) Order() int {
	if s.Direction == SortDesc {
		return -1
	}
	return 1
}

// SummarySpec một giá trị tổng hợp trên toàn bộ kết quả (không phân trang)
type SummarySpec struct {
	Key   string `json:"key"`
	Field string `json:"-"`
	Op    string `json:"op"` // sum | count | avg
}

// PercentSpec cột tỷ trọng: OutKey = ValueKey / tổng ValueKey * 100
type PercentSpec struct {
	ValueKey string `json:"valueKey"`
	OutKey   string `json:"outKey"`
}

// BuildOptions tham số hạ tầng truyền cho builder
type BuildOptions struct {
	Location                *time.Location
	TrendWeekThresholdDays  int
	TrendMonthThresholdDays int
}

// BuildRequest đầu vào của builder: filter đã validate + options
type BuildRequest struct {
	Filters map[string]FilterValue
	Specs   []FilterSpec
	Options BuildOptions
}

// BuildFunc dựng các stage cơ sở (đã lọc, gom nhóm, project về key cột).
// Sort và phân trang do generator thêm vào sau.
type BuildFunc func(req BuildRequest) []bson.M

// ReportDefinition mô tả một loại báo cáo trong danh mục.
// Bất biến sau khi đăng ký; ID duy nhất và ổn định.
type ReportDefinition struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Category    string        `json:"category"`
	Collection  string        `json:"collection"`
	Description string        `json:"description"`
	Filters     []FilterSpec  `json:"filters"`
	DefaultSort SortSpec      `json:"defaultSort"`
	Columns     []ColumnSpec  `json:"columns"`
	Summary     []SummarySpec `json:"summary,omitempty"`

	// ExpectedKeys: báo cáo dạng funnel/bucket, các key luôn có mặt theo thứ tự chuẩn
	ExpectedKeys []string `json:"expectedKeys,omitempty"`
	// KeysFor: key phụ thuộc tham số (ví dụ các bucket ngày của trend), ưu tiên hơn ExpectedKeys
	KeysFor func(req BuildRequest) []string `json:"-"`
	// KeyColumn: cột nhận giá trị _id của nhóm
	KeyColumn  string       `json:"keyColumn,omitempty"`
	Percentage *PercentSpec `json:"percentage,omitempty"`

	Build BuildFunc `json:"-"`
}

// Column tìm cột theo key
func (d ReportDefinition) Column(key string) (ColumnSpec, bool) {
	for _, c := range d.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return ColumnSpec{}, false
}

// DateFilter trả về filter date_range đầu tiên (nếu có)
func (d ReportDefinition) DateFilter() (FilterSpec, bool) {
	for _, f := range d.Filters {
		if f.Type == FilterDateRange {
			return f, true
		}
	}
	return FilterSpec{}, false
}

// ExpectedKeysFor trả về danh sách key chuẩn cho lần chạy này (nil nếu báo cáo không backfill)
func (d ReportDefinition) ExpectedKeysFor(req BuildRequest) []string {
	if d.KeysFor != nil {
		return d.KeysFor(req)
	}
	return d.ExpectedKeys
}
