// Package catalog danh mục báo cáo: tạo một lần khi khởi động, sau đó chỉ đọc.
package catalog

import (
	"fmt"
	"slices"
	"sort"

	"inventory_commerce/internal/api/report/models"
	"inventory_commerce/internal/common"
)

// Các nhóm báo cáo
const (
	CategorySales     = "sales"
	CategoryPurchases = "purchases"
	CategoryInventory = "inventory"
	CategoryCustomers = "customers"
)

// Catalog danh mục báo cáo bất biến, an toàn khi đọc đồng thời
type Catalog struct {
	defs map[string]models.ReportDefinition
	ids  []string
}

// New tạo catalog từ các definition; id rỗng, trùng hoặc thiếu Build bị từ chối
func New(defs ...models.ReportDefinition) (*Catalog, error) {
	c := &Catalog{defs: make(map[string]models.ReportDefinition, len(defs))}
	for _, d := range defs {
		if err := validateDefinition(d); err != nil {
			return nil, err
		}
		if _, dup := c.defs[d.ID]; dup {
			return nil, fmt.Errorf("report %s đăng ký trùng: %w", d.ID, common.ErrInvalidInput)
		}
		c.defs[d.ID] = clone(d)
		c.ids = append(c.ids, d.ID)
	}
	sort.Strings(c.ids)
	return c, nil
}

func validateDefinition(d models.ReportDefinition) error {
	switch {
	case d.ID == "":
		return fmt.Errorf("report id rỗng: %w", common.ErrRequiredField)
	case d.Category == "" || d.Collection == "":
		return fmt.Errorf("report %s thiếu category/collection: %w", d.ID, common.ErrRequiredField)
	case d.Build == nil:
		return fmt.Errorf("report %s thiếu stage builder: %w", d.ID, common.ErrRequiredField)
	}
	if _, ok := d.Column(d.DefaultSort.Column); !ok && d.DefaultSort.Column != "_id" {
		return fmt.Errorf("report %s: cột sắp xếp mặc định %q không tồn tại: %w", d.ID, d.DefaultSort.Column, common.ErrInvalidInput)
	}
	return nil
}

func clone(d models.ReportDefinition) models.ReportDefinition {
	d.Filters = slices.Clone(d.Filters)
	d.Columns = slices.Clone(d.Columns)
	d.Summary = slices.Clone(d.Summary)
	d.ExpectedKeys = slices.Clone(d.ExpectedKeys)
	if d.Percentage != nil {
		p := *d.Percentage
		d.Percentage = &p
	}
	return d
}

// Get tra cứu definition theo id (trả về bản sao)
func (c *Catalog) Get(id string) (models.ReportDefinition, bool) {
	d, ok := c.defs[id]
	if !ok {
		return models.ReportDefinition{}, false
	}
	return clone(d), true
}

// List toàn bộ definition, sắp xếp theo id
func (c *Catalog) List() []models.ReportDefinition {
	out := make([]models.ReportDefinition, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, clone(c.defs[id]))
	}
	return out
}

// ByCategory definition thuộc một nhóm, sắp xếp theo id
func (c *Catalog) ByCategory(category string) []models.ReportDefinition {
	out := make([]models.ReportDefinition, 0)
	for _, id := range c.ids {
		if d := c.defs[id]; d.Category == category {
			out = append(out, clone(d))
		}
	}
	return out
}

// Categories các nhóm đang có, sắp xếp tăng dần
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, id := range c.ids {
		cat := c.defs[id].Category
		if !seen[cat] {
			seen[cat] = true
			out = append(out, cat)
		}
	}
	sort.Strings(out)
	return out
}
