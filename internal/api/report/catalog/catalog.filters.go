package catalog

import (
	"inventory_commerce/internal/api/report/models"
	"inventory_commerce/internal/api/report/pipeline"
	"inventory_commerce/internal/global"
)

// Bộ key chuẩn cho các báo cáo backfill
var (
	OrderStatuses    = []string{"draft", "pending", "confirmed", "processing", "shipped", "delivered", "cancelled"}
	PurchaseStatuses = []string{"draft", "ordered", "partially_received", "received", "cancelled"}
	PaymentMethods   = []string{"cash", "credit_card", "bank_transfer", "e_wallet", "cod"}
)

func dateRangeFilter(field string, required bool) models.FilterSpec {
	return models.FilterSpec{Key: "dateRange", Type: models.FilterDateRange, Label: "Khoảng thời gian", Required: required, Field: field}
}

func selectFilter(key, label, field, optionsCollection string) models.FilterSpec {
	return models.FilterSpec{
		Key: key, Type: models.FilterSelect, Label: label, Field: field,
		Options: &models.OptionsSource{Type: key, Collection: optionsCollection},
	}
}

func multiFilter(key, label, field, optionsCollection string) models.FilterSpec {
	return models.FilterSpec{
		Key: key, Type: models.FilterMultiSelect, Label: label, Field: field,
		Options: &models.OptionsSource{Type: key, Collection: optionsCollection},
	}
}

func searchFilter(fields ...string) models.FilterSpec {
	return models.FilterSpec{Key: "q", Type: models.FilterSearch, Label: "Tìm kiếm", SearchFields: fields}
}

func minAmountFilter() models.FilterSpec {
	return models.FilterSpec{Key: "minTotal", Type: models.FilterNumber, Label: "Giá trị tối thiểu", Field: pipeline.AmountField, Operator: "gte"}
}

// salesFilters filter chung của báo cáo bán hàng
func salesFilters(n global.MongoDB_Data_CollectionName) []models.FilterSpec {
	return []models.FilterSpec{
		dateRangeFilter(pipeline.OrderDateField, true),
		selectFilter("warehouse", "Kho", "warehouse", n.Warehouses),
		selectFilter("channel", "Kênh bán", "channel", n.SalesOrders),
		selectFilter("salesRep", "Nhân viên bán hàng", "salesRep", n.SalesOrders),
		selectFilter("paymentMethod", "Phương thức thanh toán", "paymentMethod", n.SalesOrders),
		selectFilter("customer", "Khách hàng", "customerName", n.Customers),
		multiFilter("category", "Danh mục", "items.category", n.Categories),
		multiFilter("brand", "Thương hiệu", "items.brand", n.Brands),
	}
}

// purchaseFilters filter chung của báo cáo mua hàng
func purchaseFilters(n global.MongoDB_Data_CollectionName) []models.FilterSpec {
	return []models.FilterSpec{
		dateRangeFilter(pipeline.OrderDateField, true),
		selectFilter("warehouse", "Kho", "warehouse", n.Warehouses),
		selectFilter("supplier", "Nhà cung cấp", "supplierName", n.Suppliers),
	}
}

// inventoryFilters filter của báo cáo tồn kho
func inventoryFilters(n global.MongoDB_Data_CollectionName) []models.FilterSpec {
	return []models.FilterSpec{
		selectFilter("warehouse", "Kho", "warehouse", n.Warehouses),
		multiFilter("category", "Danh mục", "category", n.Categories),
		multiFilter("brand", "Thương hiệu", "brand", n.Brands),
		searchFilter("name", "sku"),
	}
}

// windowAndMatch đọc khoảng ngày và điều kiện chiều từ request
func windowAndMatch(req models.BuildRequest) (pipeline.DateWindow, pipeline.Match) {
	w, _, _ := pipeline.WindowFromFilters(req.Filters, req.Specs)
	return w, pipeline.DimensionMatch(req.Filters, req.Specs)
}

func with(specs []models.FilterSpec, extra ...models.FilterSpec) []models.FilterSpec {
	out := make([]models.FilterSpec, 0, len(specs)+len(extra))
	out = append(out, specs...)
	return append(out, extra...)
}
