// Package reportdto request/response của API báo cáo.
package reportdto

import (
	"inventory_commerce/internal/api/report/models"
)

// Giá trị mặc định khi query không có
const (
	DefaultPage     = 1
	DefaultPageSize = 20
)

// ReportPath tham số đường dẫn /reports/:category/:reportId
type ReportPath struct {
	Category string `uri:"category" validate:"required"`
	ReportID string `uri:"reportId" validate:"required,report_id"`
}

// ReportQuery tham số điều khiển của báo cáo; filter đọc riêng theo key của definition
type ReportQuery struct {
	Page      int    `query:"page" validate:"omitempty,min=1"`
	PageSize  int    `query:"pageSize" validate:"omitempty,min=1"`
	SortBy    string `query:"sortBy"`
	SortOrder string `query:"sortOrder" validate:"omitempty,oneof=asc desc"`
	Export    string `query:"export" validate:"omitempty,oneof=csv excel pdf"`
}

// ApplyDefaults page/pageSize mặc định
func (q *ReportQuery) ApplyDefaults() {
	if q.Page == 0 {
		q.Page = DefaultPage
	}
	if q.PageSize == 0 {
		q.PageSize = DefaultPageSize
	}
}

// ToParams ghép query + filter đã parse thành ReportParams
func (q ReportQuery) ToParams(filters map[string]models.FilterValue) models.ReportParams {
	p := models.ReportParams{
		Filters:    filters,
		Pagination: models.Pagination{Page: q.Page, PageSize: q.PageSize},
		Export:     models.ExportFormat(q.Export),
	}
	if q.SortBy != "" {
		p.Sort = &models.SortSpec{Column: q.SortBy, Direction: models.SortDirection(q.SortOrder)}
	}
	return p
}

// PaginationResponse phân trang trong response
type PaginationResponse struct {
	TotalPages   int64 `json:"totalPages"`
	TotalRecords int64 `json:"totalRecords"`
	CurrentPage  int   `json:"currentPage"`
	PageSize     int   `json:"pageSize"`
}

// ReportResponse {success, data, pagination, summary?, metadata?}
type ReportResponse struct {
	Success    bool               `json:"success"`
	Data       []models.Row       `json:"data"`
	Pagination PaginationResponse `json:"pagination"`
	Summary    map[string]float64 `json:"summary,omitempty"`
	Metadata   map[string]any     `json:"metadata,omitempty"`
}

// NewReportResponse đổi ReportResult sang response
func NewReportResponse(r *models.ReportResult) ReportResponse {
	data := r.Results
	if data == nil {
		data = []models.Row{}
	}
	return ReportResponse{
		Success: true,
		Data:    data,
		Pagination: PaginationResponse{
			TotalPages:   r.Pagination.TotalPages,
			TotalRecords: r.Pagination.Total,
			CurrentPage:  r.Pagination.Page,
			PageSize:     r.Pagination.PageSize,
		},
		Summary:  r.Summary,
		Metadata: r.Metadata,
	}
}
