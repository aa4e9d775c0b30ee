package catalog

import (
	"inventory_commerce/internal/api/report/models"
	"inventory_commerce/internal/api/report/pipeline"
	"inventory_commerce/internal/global"

	"go.mongodb.org/mongo-driver/bson"
)

func purchaseDefinitions(n global.MongoDB_Data_CollectionName) []models.ReportDefinition {
	base := purchaseFilters(n)

	orders := models.ReportDefinition{
		ID:          "purchase-orders",
		Name:        "Danh sách đơn mua hàng",
		Category:    CategoryPurchases,
		Collection:  n.PurchaseOrders,
		Description: "Đơn mua hàng trong khoảng thời gian theo nhà cung cấp, kho, trạng thái",
		Filters: with(base,
			multiFilter("status", "Trạng thái", "status", n.PurchaseOrders),
			searchFilter("poNumber", "supplierName"),
			minAmountFilter(),
		),
		DefaultSort: models.SortSpec{Column: "orderDate", Direction: models.SortDesc},
		Columns: []models.ColumnSpec{
			{Key: "poNumber", Header: "Số PO", Format: models.FormatText, Sortable: true},
			{Key: "orderDate", Header: "Ngày đặt", Format: models.FormatDate, Sortable: true},
			{Key: "supplierName", Header: "Nhà cung cấp", Format: models.FormatText, Sortable: true},
			{Key: "warehouse", Header: "Kho", Format: models.FormatText},
			{Key: "status", Header: "Trạng thái", Format: models.FormatText, Sortable: true},
			{Key: "itemCount", Header: "Số dòng hàng", Format: models.FormatNumber},
			{Key: "grandTotal", Header: "Tổng tiền", Format: models.FormatMoney, Sortable: true},
		},
		Summary: []models.SummarySpec{
			{Key: "totalAmount", Field: "grandTotal", Op: "sum"},
			{Key: "orderCount", Op: "count"},
		},
		Build: func(req models.BuildRequest) []bson.M {
			w, m := windowAndMatch(req)
			return pipeline.BuildPurchaseOrderListing(w, m)
		},
	}

	bySupplier := breakdownReport(CategoryPurchases, n.PurchaseOrders, "purchase-by-supplier", "Giá trị mua theo nhà cung cấp",
		"Giá trị đơn mua đã chốt theo nhà cung cấp", "Mã nhà cung cấp", pipeline.DimSupplier, base)

	status := models.ReportDefinition{
		ID:           "purchase-order-status",
		Name:         "Đơn mua theo trạng thái",
		Category:     CategoryPurchases,
		Collection:   n.PurchaseOrders,
		Description:  "Số đơn mua và giá trị theo trạng thái",
		Filters:      base,
		DefaultSort:  models.SortSpec{Column: "status", Direction: models.SortCanonical},
		Columns:      statusColumns,
		ExpectedKeys: PurchaseStatuses,
		KeyColumn:    "status",
		Percentage:   &models.PercentSpec{ValueKey: "orders", OutKey: "percentage"},
		Build: func(req models.BuildRequest) []bson.M {
			w, m := windowAndMatch(req)
			return pipeline.BuildFunnelPipeline(w, m)
		},
	}

	return []models.ReportDefinition{orders, bySupplier, status}
}

var stockColumns = []models.ColumnSpec{
	{Key: "name", Header: "Sản phẩm", Format: models.FormatText, Sortable: true},
	{Key: "sku", Header: "SKU", Format: models.FormatText, Sortable: true},
	{Key: "category", Header: "Danh mục", Format: models.FormatText, Sortable: true},
	{Key: "brand", Header: "Thương hiệu", Format: models.FormatText},
	{Key: "warehouse", Header: "Kho", Format: models.FormatText, Sortable: true},
	{Key: "stockQuantity", Header: "Tồn kho", Format: models.FormatNumber, Sortable: true},
	{Key: "reorderLevel", Header: "Mức đặt lại", Format: models.FormatNumber},
	{Key: "costPrice", Header: "Giá vốn", Format: models.FormatMoney},
	{Key: "sellingPrice", Header: "Giá bán", Format: models.FormatMoney},
	{Key: "stockValue", Header: "Giá trị tồn", Format: models.FormatMoney, Sortable: true},
}

func inventoryDefinitions(n global.MongoDB_Data_CollectionName) []models.ReportDefinition {
	filters := inventoryFilters(n)
	summary := []models.SummarySpec{
		{Key: "productCount", Op: "count"},
		{Key: "totalQuantity", Field: "stockQuantity", Op: "sum"},
		{Key: "totalStockValue", Field: "stockValue", Op: "sum"},
	}

	lowCols := append([]models.ColumnSpec{}, stockColumns...)
	lowCols = append(lowCols, models.ColumnSpec{Key: "shortage", Header: "Thiếu hụt", Format: models.FormatNumber, Sortable: true})

	return []models.ReportDefinition{
		{
			ID:          "stock-levels",
			Name:        "Tồn kho hiện tại",
			Category:    CategoryInventory,
			Collection:  n.Products,
			Description: "Số lượng và giá trị tồn kho của sản phẩm đang kinh doanh",
			Filters:     filters,
			DefaultSort: models.SortSpec{Column: "name", Direction: models.SortAsc},
			Columns:     stockColumns,
			Summary:     summary,
			Build: func(req models.BuildRequest) []bson.M {
				return pipeline.BuildStockLevels(pipeline.DimensionMatch(req.Filters, req.Specs))
			},
		},
		{
			ID:          "low-stock",
			Name:        "Sản phẩm sắp hết hàng",
			Category:    CategoryInventory,
			Collection:  n.Products,
			Description: "Sản phẩm có tồn kho không vượt quá mức đặt hàng lại",
			Filters:     filters,
			DefaultSort: models.SortSpec{Column: "shortage", Direction: models.SortDesc},
			Columns:     lowCols,
			Summary:     summary[:2],
			Build: func(req models.BuildRequest) []bson.M {
				return pipeline.BuildLowStock(pipeline.DimensionMatch(req.Filters, req.Specs))
			},
		},
	}
}

func customerDefinitions(n global.MongoDB_Data_CollectionName) []models.ReportDefinition {
	top := breakdownReport(CategoryCustomers, n.SalesOrders, "top-customers", "Khách hàng mua nhiều nhất",
		"Doanh thu đơn đã chốt theo khách hàng", "Mã khách hàng", pipeline.DimCustomer, salesFilters(n))

	list := models.ReportDefinition{
		ID:          "customer-list",
		Name:        "Danh sách khách hàng",
		Category:    CategoryCustomers,
		Collection:  n.Customers,
		Description: "Khách hàng kèm số đơn và tổng chi tiêu (đơn đã chốt)",
		Filters: []models.FilterSpec{
			dateRangeFilter("createdAt", false),
			searchFilter("name", "email", "phone"),
		},
		DefaultSort: models.SortSpec{Column: "totalSpent", Direction: models.SortDesc},
		Columns: []models.ColumnSpec{
			{Key: "name", Header: "Khách hàng", Format: models.FormatText, Sortable: true},
			{Key: "email", Header: "Email", Format: models.FormatText},
			{Key: "phone", Header: "Điện thoại", Format: models.FormatText},
			{Key: "orders", Header: "Số đơn", Format: models.FormatNumber, Sortable: true},
			{Key: "totalSpent", Header: "Tổng chi tiêu", Format: models.FormatMoney, Sortable: true},
			{Key: "createdAt", Header: "Ngày tạo", Format: models.FormatDate, Sortable: true},
		},
		Summary: []models.SummarySpec{
			{Key: "customerCount", Op: "count"},
			{Key: "totalSpent", Field: "totalSpent", Op: "sum"},
		},
		Build: func(req models.BuildRequest) []bson.M {
			var window *pipeline.DateWindow
			if w, _, ok := pipeline.WindowFromFilters(req.Filters, req.Specs); ok {
				window = &w
			}
			return pipeline.BuildCustomerList(window, pipeline.DimensionMatch(req.Filters, req.Specs), n.SalesOrders)
		},
	}

	return []models.ReportDefinition{top, list}
}

// DefaultWith danh mục báo cáo dựng sẵn với tên collection cho trước
func DefaultWith(n global.MongoDB_Data_CollectionName) (*Catalog, error) {
	var defs []models.ReportDefinition
	defs = append(defs, salesDefinitions(n)...)
	defs = append(defs, purchaseDefinitions(n)...)
	defs = append(defs, inventoryDefinitions(n)...)
	defs = append(defs, customerDefinitions(n)...)
	return New(defs...)
}

// Default danh mục báo cáo dựng sẵn với tên collection mặc định
func Default() *Catalog {
	c, err := DefaultWith(global.DefaultCollectionNames())
	if err != nil {
		panic(err)
	}
	return c
}
