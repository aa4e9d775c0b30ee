package reportdto

import "inventory_commerce/internal/api/report/models"

// CatalogQuery lọc danh mục theo nhóm
type CatalogQuery struct {
	Category string `query:"category"`
}

// CatalogItem một báo cáo trong danh mục (không gồm builder)
type CatalogItem struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Category    string               `json:"category"`
	Description string               `json:"description"`
	Filters     []models.FilterSpec  `json:"filters"`
	Columns     []models.ColumnSpec  `json:"columns"`
	DefaultSort models.SortSpec      `json:"defaultSort"`
	Summary     []models.SummarySpec `json:"summary,omitempty"`
}

// NewCatalogItems đổi definition sang item trả về client
func NewCatalogItems(defs []models.ReportDefinition) []CatalogItem {
	out := make([]CatalogItem, 0, len(defs))
	for _, d := range defs {
		out = append(out, CatalogItem{
			ID:          d.ID,
			Name:        d.Name,
			Category:    d.Category,
			Description: d.Description,
			Filters:     d.Filters,
			Columns:     d.Columns,
			DefaultSort: d.DefaultSort,
			Summary:     d.Summary,
		})
	}
	return out
}

// FilterOptionsQuery GET /reports/filters?type=&collection=
type FilterOptionsQuery struct {
	Type       string `query:"type" validate:"required"`
	Collection string `query:"collection" validate:"required"`
}
