package models

// Row một dòng kết quả, key là key cột
type Row = map[string]any

// ExportFormat định dạng file xuất
type ExportFormat string

const (
	ExportCSV   ExportFormat = "csv"
	ExportExcel ExportFormat = "excel"
	ExportPDF   ExportFormat = "pdf"
)

// Pagination tham số phân trang (Page >= 1, PageSize >= 1)
type Pagination struct {
	Page     int
	PageSize int
}

// ReportParams tham số một lần chạy báo cáo
type ReportParams struct {
	Filters    map[string]FilterValue
	Pagination Pagination
	Sort       *SortSpec
	Export     ExportFormat
}

// PageInfo thông tin phân trang của kết quả
type PageInfo struct {
	Page       int   `json:"currentPage"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"totalRecords"`
	TotalPages int64 `json:"totalPages"`
}

// ReportResult kết quả một trang báo cáo
type ReportResult struct {
	Results    []Row              `json:"data"`
	Pagination PageInfo           `json:"pagination"`
	Summary    map[string]float64 `json:"summary,omitempty"`
	Metadata   map[string]any     `json:"metadata,omitempty"`
}
