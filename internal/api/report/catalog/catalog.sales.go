package catalog

import (
	"inventory_commerce/internal/api/report/models"
	"inventory_commerce/internal/api/report/pipeline"
	"inventory_commerce/internal/global"

	"go.mongodb.org/mongo-driver/bson"
)

var breakdownColumns = []models.ColumnSpec{
	{Key: "name", Header: "Tên", Format: models.FormatText, Sortable: true},
	{Key: "quantity", Header: "Số lượng", Format: models.FormatNumber, Sortable: true},
	{Key: "orders", Header: "Số đơn", Format: models.FormatNumber, Sortable: true},
	{Key: "revenue", Header: "Doanh thu", Format: models.FormatMoney, Sortable: true},
	{Key: "percentage", Header: "Tỷ trọng (%)", Format: models.FormatPercent},
}

var breakdownSummary = []models.SummarySpec{
	{Key: "totalRevenue", Field: "revenue", Op: "sum"},
	{Key: "totalQuantity", Field: "quantity", Op: "sum"},
	{Key: "totalOrders", Field: "orders", Op: "sum"},
}

// breakdownReport báo cáo doanh thu theo một chiều, có tỷ trọng doanh thu
func breakdownReport(category, collection, id, name, desc, keyHeader string, dim pipeline.Dimension, filters []models.FilterSpec) models.ReportDefinition {
	cols := []models.ColumnSpec{{Key: dim.Name, Header: keyHeader, Format: models.FormatText, Sortable: true}}
	for _, c := range breakdownColumns {
		if c.Key == "name" && dim.LabelField == "" {
			continue
		}
		cols = append(cols, c)
	}
	return models.ReportDefinition{
		ID:          id,
		Name:        name,
		Category:    category,
		Collection:  collection,
		Description: desc,
		Filters:     filters,
		DefaultSort: models.SortSpec{Column: "revenue", Direction: models.SortDesc},
		Columns:     cols,
		Summary:     breakdownSummary,
		KeyColumn:   dim.Name,
		Percentage:  &models.PercentSpec{ValueKey: "revenue", OutKey: "percentage"},
		Build: func(req models.BuildRequest) []bson.M {
			w, m := windowAndMatch(req)
			return pipeline.BreakdownStages(w, m, dim)
		},
	}
}

func salesDefinitions(n global.MongoDB_Data_CollectionName) []models.ReportDefinition {
	base := salesFilters(n)

	orders := models.ReportDefinition{
		ID:          "sales-orders",
		Name:        "Danh sách đơn bán hàng",
		Category:    CategorySales,
		Collection:  n.SalesOrders,
		Description: "Đơn bán hàng trong khoảng thời gian, lọc theo kho, kênh, trạng thái, khách hàng",
		Filters: with(base,
			multiFilter("status", "Trạng thái", "status", n.SalesOrders),
			searchFilter("orderNumber", "customerName"),
			minAmountFilter(),
		),
		DefaultSort: models.SortSpec{Column: "orderDate", Direction: models.SortDesc},
		Columns: []models.ColumnSpec{
			{Key: "orderNumber", Header: "Số đơn", Format: models.FormatText, Sortable: true},
			{Key: "orderDate", Header: "Ngày đặt", Format: models.FormatDate, Sortable: true},
			{Key: "customerName", Header: "Khách hàng", Format: models.FormatText, Sortable: true},
			{Key: "warehouse", Header: "Kho", Format: models.FormatText},
			{Key: "channel", Header: "Kênh", Format: models.FormatText},
			{Key: "salesRep", Header: "Nhân viên", Format: models.FormatText},
			{Key: "paymentMethod", Header: "Thanh toán", Format: models.FormatText},
			{Key: "status", Header: "Trạng thái", Format: models.FormatText, Sortable: true},
			{Key: "itemCount", Header: "Số dòng hàng", Format: models.FormatNumber},
			{Key: "grandTotal", Header: "Tổng tiền", Format: models.FormatMoney, Sortable: true},
		},
		Summary: []models.SummarySpec{
			{Key: "totalRevenue", Field: "grandTotal", Op: "sum"},
			{Key: "orderCount", Op: "count"},
			{Key: "avgOrderValue", Field: "grandTotal", Op: "avg"},
		},
		Build: func(req models.BuildRequest) []bson.M {
			w, m := windowAndMatch(req)
			return pipeline.BuildSalesOrderListing(w, m)
		},
	}

	trend := models.ReportDefinition{
		ID:          "sales-trend",
		Name:        "Xu hướng doanh thu",
		Category:    CategorySales,
		Collection:  n.SalesOrders,
		Description: "Doanh thu và số đơn theo ngày/tuần/tháng tùy độ dài khoảng thời gian",
		Filters:     base,
		DefaultSort: models.SortSpec{Column: "period", Direction: models.SortAsc},
		Columns: []models.ColumnSpec{
			{Key: "period", Header: "Kỳ", Format: models.FormatText, Sortable: true},
			{Key: "orders", Header: "Số đơn", Format: models.FormatNumber, Sortable: true},
			{Key: "revenue", Header: "Doanh thu", Format: models.FormatMoney, Sortable: true},
		},
		KeyColumn: "period",
		KeysFor: func(req models.BuildRequest) []string {
			w, _ := windowAndMatch(req)
			return pipeline.TrendKeys(w, trendBucket(w, req.Options), req.Options.Location)
		},
		Build: func(req models.BuildRequest) []bson.M {
			w, m := windowAndMatch(req)
			return pipeline.BuildTrendPipeline(w, m, pipeline.TrendOptions{
				Bucket:   trendBucket(w, req.Options),
				Location: req.Options.Location,
			})
		},
	}

	status := models.ReportDefinition{
		ID:           "order-status",
		Name:         "Đơn hàng theo trạng thái",
		Category:     CategorySales,
		Collection:   n.SalesOrders,
		Description:  "Phễu trạng thái đơn bán, gồm cả đơn nháp và đơn hủy",
		Filters:      base,
		DefaultSort:  models.SortSpec{Column: "status", Direction: models.SortCanonical},
		Columns:      statusColumns,
		ExpectedKeys: OrderStatuses,
		KeyColumn:    "status",
		Percentage:   &models.PercentSpec{ValueKey: "orders", OutKey: "percentage"},
		Build: func(req models.BuildRequest) []bson.M {
			w, m := windowAndMatch(req)
			return pipeline.BuildFunnelPipeline(w, m)
		},
	}

	payment := breakdownReport(CategorySales, n.SalesOrders, "sales-by-payment-method", "Doanh thu theo phương thức thanh toán",
		"Doanh thu đơn đã chốt theo phương thức thanh toán", "Phương thức", pipeline.DimPaymentMethod, base)
	payment.ExpectedKeys = PaymentMethods

	return []models.ReportDefinition{
		orders,
		breakdownReport(CategorySales, n.SalesOrders, "sales-by-product", "Doanh thu theo sản phẩm",
			"Số lượng và doanh thu theo sản phẩm (theo dòng hàng)", "Mã sản phẩm", pipeline.DimProduct, base),
		breakdownReport(CategorySales, n.SalesOrders, "sales-by-category", "Doanh thu theo danh mục",
			"Doanh thu theo danh mục sản phẩm", "Danh mục", pipeline.DimCategory, base),
		breakdownReport(CategorySales, n.SalesOrders, "sales-by-brand", "Doanh thu theo thương hiệu",
			"Doanh thu theo thương hiệu", "Thương hiệu", pipeline.DimBrand, base),
		breakdownReport(CategorySales, n.SalesOrders, "sales-by-channel", "Doanh thu theo kênh bán",
			"Doanh thu và tỷ trọng theo kênh bán", "Kênh", pipeline.DimChannel, base),
		payment,
		breakdownReport(CategorySales, n.SalesOrders, "sales-by-rep", "Doanh thu theo nhân viên",
			"Hiệu quả bán hàng theo nhân viên", "Nhân viên", pipeline.DimSalesRep, base),
		trend,
		status,
	}
}

var statusColumns = []models.ColumnSpec{
	{Key: "status", Header: "Trạng thái", Format: models.FormatText, Sortable: true},
	{Key: "orders", Header: "Số đơn", Format: models.FormatNumber, Sortable: true},
	{Key: "revenue", Header: "Giá trị", Format: models.FormatMoney, Sortable: true},
	{Key: "percentage", Header: "Tỷ trọng (%)", Format: models.FormatPercent},
}

func trendBucket(w pipeline.DateWindow, opts models.BuildOptions) pipeline.TrendBucket {
	return pipeline.TrendBucketFor(w, opts.TrendWeekThresholdDays, opts.TrendMonthThresholdDays)
}
