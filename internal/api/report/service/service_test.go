package reportsvc

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"sync"
	"testing"
	"time"

	"inventory_commerce/internal/api/report/catalog"
	"inventory_commerce/internal/api/report/models"
	"inventory_commerce/internal/api/report/pipeline"
	"inventory_commerce/internal/common"
	"inventory_commerce/internal/global"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// fakeStore Aggregator giả: ghi lại pipeline và trả lời qua respond
type fakeStore struct {
	mu      sync.Mutex
	calls   []pipeline.Stages
	colls   []string
	respond func(collection string, stages []bson.M) ([]bson.M, error)
}

func (f *fakeStore) Aggregate(_ context.Context, collection string, stages []bson.M) ([]bson.M, error) {
	f.mu.Lock()
	f.calls = append(f.calls, stages)
	f.colls = append(f.colls, collection)
	f.mu.Unlock()
	if f.respond == nil {
		return nil, nil
	}
	return f.respond(collection, stages)
}

func (f *fakeStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func fixedNow() time.Time { return time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC) }

func newTestGenerator(store Aggregator) *Generator {
	return NewGenerator(store, catalog.Default(), Options{Now: fixedNow, MaxPageSize: 100, ExportMaxRows: 1000})
}

func january() models.DateRangeValue {
	return models.DateRangeValue{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC),
	}
}

func params(page, size int) models.ReportParams {
	return models.ReportParams{
		Filters:    map[string]models.FilterValue{"dateRange": january()},
		Pagination: models.Pagination{Page: page, PageSize: size},
	}
}

func facetDoc(results bson.A, total int32, summary bson.M) []bson.M {
	doc := bson.M{
		pipeline.FacetResults: results,
		pipeline.FacetTotal:   bson.A{bson.M{"count": total}},
	}
	if summary != nil {
		doc[pipeline.FacetSummary] = bson.A{summary}
	}
	return []bson.M{doc}
}

func lastFacet(t *testing.T, stages pipeline.Stages) bson.M {
	t.Helper()
	require.NotEmpty(t, stages)
	facet, ok := stages[len(stages)-1]["$facet"].(bson.M)
	require.True(t, ok, "stage cuối phải là $facet")
	return facet
}

func TestLookup(t *testing.T) {
	g := newTestGenerator(&fakeStore{})

	def, err := g.Lookup(catalog.CategorySales, "sales-by-channel")
	require.NoError(t, err)
	assert.Equal(t, "sales-by-channel", def.ID)

	_, err = g.Lookup(catalog.CategorySales, "does-not-exist")
	assert.True(t, errors.Is(err, common.ErrNotFound))
	assert.Equal(t, common.StatusNotFound, common.StatusCodeOf(err))

	_, err = g.Lookup(catalog.CategoryInventory, "sales-by-channel")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestGenerateReport_ValidationBeforeStore(t *testing.T) {
	store := &fakeStore{}
	g := newTestGenerator(store)
	def, _ := g.Lookup("", "sales-by-channel")

	_, err := g.GenerateReport(context.Background(), def, models.ReportParams{Pagination: models.Pagination{Page: 1, PageSize: 10}})
	require.Error(t, err)
	assert.Equal(t, common.StatusBadRequest, common.StatusCodeOf(err))

	p := params(1, 10)
	p.Sort = &models.SortSpec{Column: "percentage", Direction: models.SortAsc}
	_, err = g.GenerateReport(context.Background(), def, p)
	assert.True(t, errors.Is(err, common.ErrInvalidInput), "cột không sortable")

	_, err = g.GenerateReport(context.Background(), def, params(0, 10))
	assert.True(t, errors.Is(err, common.ErrInvalidInput))

	_, err = g.GenerateReport(context.Background(), def, params(1, 1000))
	assert.True(t, errors.Is(err, common.ErrInvalidInput), "pageSize vượt giới hạn")

	assert.Zero(t, store.callCount(), "lỗi validate không được chạm store")
}

func TestGenerateReport_PaginatedBreakdown(t *testing.T) {
	store := &fakeStore{respond: func(string, []bson.M) ([]bson.M, error) {
		return facetDoc(
			bson.A{bson.M{"_id": "online", "revenue": 300.0, "orders": int32(3), "quantity": int32(5)}},
			21,
			bson.M{"_id": nil, "totalRevenue": 1000.0, "totalQuantity": int32(40), "totalOrders": int32(21), percentTotalKey: 1000.0},
		), nil
	}}
	g := newTestGenerator(store)
	def, _ := g.Lookup(catalog.CategorySales, "sales-by-channel")

	res, err := g.GenerateReport(context.Background(), def, params(3, 10))
	require.NoError(t, err)

	assert.Equal(t, models.PageInfo{Page: 3, PageSize: 10, Total: 21, TotalPages: 3}, res.Pagination)
	require.Len(t, res.Results, 1)
	row := res.Results[0]
	assert.Equal(t, "online", row["channel"])
	assert.NotContains(t, row, "_id")
	assert.Equal(t, 30.0, row["percentage"], "tỷ trọng tính trên tổng toàn bộ, không phải trang")
	assert.Equal(t, 1000.0, res.Summary["totalRevenue"])
	assert.NotContains(t, res.Summary, percentTotalKey)
	assert.Equal(t, "sales-by-channel", res.Metadata["reportId"])
	assert.Contains(t, res.Metadata, "comparisonRange")

	require.Equal(t, 1, store.callCount())
	assert.Equal(t, global.DefaultCollectionNames().SalesOrders, store.colls[0])
	facet := lastFacet(t, store.calls[0])
	results := facet[pipeline.FacetResults].(bson.A)
	assert.Equal(t, bson.M{"$skip": int64(20)}, results[0])
	assert.Equal(t, bson.M{"$limit": int64(10)}, results[1])
}

func TestGenerateReport_SortOnKeyColumnUsesID(t *testing.T) {
	store := &fakeStore{}
	g := newTestGenerator(store)
	def, _ := g.Lookup("", "sales-by-channel")

	p := params(1, 10)
	p.Sort = &models.SortSpec{Column: "channel", Direction: models.SortDesc}
	_, err := g.GenerateReport(context.Background(), def, p)
	require.NoError(t, err)

	stages := store.calls[0]
	sortStage := stages[len(stages)-2]["$sort"].(bson.D)
	assert.Equal(t, "_id", sortStage[0].Key)
	assert.Equal(t, -1, sortStage[0].Value)
}

func TestGenerateReport_PageBeyondTotal(t *testing.T) {
	store := &fakeStore{respond: func(string, []bson.M) ([]bson.M, error) {
		return facetDoc(bson.A{}, 5, nil), nil
	}}
	g := newTestGenerator(store)
	def, _ := g.Lookup("", "sales-orders")

	res, err := g.GenerateReport(context.Background(), def, params(4, 10))
	require.NoError(t, err)
	assert.NotNil(t, res.Results)
	assert.Empty(t, res.Results)
	assert.Equal(t, int64(5), res.Pagination.Total)
	assert.Equal(t, int64(1), res.Pagination.TotalPages)
}

func TestGenerateReport_EmptyStoreResult(t *testing.T) {
	g := newTestGenerator(&fakeStore{})
	def, _ := g.Lookup("", "sales-by-brand")

	res, err := g.GenerateReport(context.Background(), def, params(1, 10))
	require.NoError(t, err)
	assert.Empty(t, res.Results)
	assert.Equal(t, int64(0), res.Pagination.Total)
	assert.Equal(t, 0.0, res.Summary["totalRevenue"])
}

func TestGenerateReport_FunnelBackfilled(t *testing.T) {
	store := &fakeStore{respond: func(string, []bson.M) ([]bson.M, error) {
		return []bson.M{
			{"_id": "cancelled", "orders": int32(2), "revenue": 50.0},
			{"_id": "pending", "orders": int32(2), "revenue": 150.0},
		}, nil
	}}
	g := newTestGenerator(store)
	def, _ := g.Lookup(catalog.CategorySales, "order-status")

	res, err := g.GenerateReport(context.Background(), def, params(1, 5))
	require.NoError(t, err)

	assert.Equal(t, int64(len(catalog.OrderStatuses)), res.Pagination.Total)
	assert.Equal(t, int64(2), res.Pagination.TotalPages)
	require.Len(t, res.Results, 5)
	for i, row := range res.Results {
		assert.Equal(t, catalog.OrderStatuses[i], row["status"])
	}
	assert.Equal(t, 0.0, res.Results[0]["orders"], "draft không có đơn vẫn có mặt")
	assert.Equal(t, 50.0, res.Results[1]["percentage"])

	// trang 2 chứa hai trạng thái cuối
	res, err = g.GenerateReport(context.Background(), def, params(2, 5))
	require.NoError(t, err)
	require.Len(t, res.Results, 2)
	assert.Equal(t, "cancelled", res.Results[1]["status"])
}

func TestGenerateReport_FunnelExplicitSort(t *testing.T) {
	store := &fakeStore{respond: func(string, []bson.M) ([]bson.M, error) {
		return []bson.M{{"_id": "shipped", "orders": int32(7), "revenue": 10.0}}, nil
	}}
	g := newTestGenerator(store)
	def, _ := g.Lookup("", "order-status")

	p := params(1, 10)
	p.Sort = &models.SortSpec{Column: "orders", Direction: models.SortDesc}
	res, err := g.GenerateReport(context.Background(), def, p)
	require.NoError(t, err)
	assert.Equal(t, "shipped", res.Results[0]["status"])
	assert.Equal(t, "draft", res.Results[1]["status"], "sort ổn định giữ thứ tự chuẩn khi bằng nhau")
}

func TestGenerateReport_TrendBuckets(t *testing.T) {
	store := &fakeStore{respond: func(string, []bson.M) ([]bson.M, error) {
		return []bson.M{{"_id": "2024-01-15", "orders": int32(1), "revenue": 99.999}}, nil
	}}
	g := newTestGenerator(store)
	def, _ := g.Lookup("", "sales-trend")

	res, err := g.GenerateReport(context.Background(), def, params(1, 100))
	require.NoError(t, err)
	require.Len(t, res.Results, 31)
	assert.Equal(t, "2024-01-01", res.Results[0]["period"])
	assert.Equal(t, 100.0, res.Results[14]["revenue"])
	assert.Equal(t, 0.0, res.Results[30]["revenue"])
}

func TestGenerateReport_KeyedDefaultSort(t *testing.T) {
	store := &fakeStore{respond: func(string, []bson.M) ([]bson.M, error) {
		return []bson.M{
			{"_id": "cash", "orders": int32(1), "revenue": 100.0},
			{"_id": "cod", "orders": int32(3), "revenue": 900.0},
		}, nil
	}}
	g := newTestGenerator(store)
	def, _ := g.Lookup(catalog.CategorySales, "sales-by-payment-method")

	res, err := g.GenerateReport(context.Background(), def, params(1, 10))
	require.NoError(t, err)
	require.Len(t, res.Results, len(catalog.PaymentMethods))

	var got []any
	for _, r := range res.Results {
		got = append(got, r["paymentMethod"])
	}
	assert.Equal(t, []any{"cod", "cash", "bank_transfer", "credit_card", "e_wallet"}, got,
		"doanh thu giảm dần, bằng nhau thì theo key")
	assert.Equal(t, def.DefaultSort, res.Metadata["sort"])
	assert.Equal(t, 90.0, res.Results[0]["percentage"])

	// chạy lại cho cùng thứ tự
	again, err := g.GenerateReport(context.Background(), def, params(1, 10))
	require.NoError(t, err)
	assert.Equal(t, res.Results, again.Results)
}

func TestGenerateReport_FunnelCanonicalMetadata(t *testing.T) {
	g := newTestGenerator(&fakeStore{})
	def, _ := g.Lookup("", "order-status")

	res, err := g.GenerateReport(context.Background(), def, params(1, 10))
	require.NoError(t, err)
	assert.Equal(t, models.SortSpec{Column: "status", Direction: models.SortCanonical}, res.Metadata["sort"])
	assert.Equal(t, "draft", res.Results[0]["status"])

	p := params(1, 10)
	p.Sort = &models.SortSpec{Column: "status", Direction: models.SortCanonical}
	_, err = g.GenerateReport(context.Background(), def, p)
	assert.True(t, errors.Is(err, common.ErrInvalidInput), "client không được yêu cầu thứ tự chuẩn")
}

func TestGenerateReport_PercentBeforeRounding(t *testing.T) {
	keyed := &fakeStore{respond: func(string, []bson.M) ([]bson.M, error) {
		return []bson.M{
			{"_id": "cash", "orders": int32(1), "revenue": 0.004},
			{"_id": "cod", "orders": int32(1), "revenue": 0.004},
		}, nil
	}}
	g := newTestGenerator(keyed)
	def, _ := g.Lookup("", "sales-by-payment-method")

	res, err := g.GenerateReport(context.Background(), def, params(1, 10))
	require.NoError(t, err)
	var sum float64
	for _, r := range res.Results {
		sum += r["percentage"].(float64)
	}
	assert.Equal(t, 100.0, sum)
	assert.Equal(t, 50.0, res.Results[0]["percentage"])
	assert.Equal(t, 0.0, res.Results[0]["revenue"], "giá trị trả về vẫn làm tròn")

	paged := &fakeStore{respond: func(string, []bson.M) ([]bson.M, error) {
		return facetDoc(bson.A{
			bson.M{"_id": "web", "orders": int32(1), "revenue": 0.004},
			bson.M{"_id": "pos", "orders": int32(1), "revenue": 0.001},
		}, 2, bson.M{percentTotalKey: 0.005}), nil
	}}
	g = newTestGenerator(paged)
	def, _ = g.Lookup("", "sales-by-channel")

	res, err = g.GenerateReport(context.Background(), def, params(1, 10))
	require.NoError(t, err)
	require.Len(t, res.Results, 2)
	assert.Equal(t, 80.0, res.Results[0]["percentage"])
	assert.Equal(t, 20.0, res.Results[1]["percentage"])

	rows, err := g.ExportRows(context.Background(), def, params(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 80.0, rows[0]["percentage"])
}

func TestGenerateReport_StoreError(t *testing.T) {
	store := &fakeStore{respond: func(string, []bson.M) ([]bson.M, error) {
		return nil, errors.New("connection reset")
	}}
	g := newTestGenerator(store)
	def, _ := g.Lookup("", "stock-levels")

	_, err := g.GenerateReport(context.Background(), def, params(1, 10))
	require.Error(t, err)
	assert.True(t, common.IsStoreError(err))
	assert.Equal(t, common.StatusInternalServerError, common.StatusCodeOf(err))
	assert.Equal(t, common.MsgDatabaseError, err.Error(), "message chung, không lộ chi tiết")
}

func TestExportReport_EmptyCSVHasHeaderOnly(t *testing.T) {
	store := &fakeStore{}
	g := newTestGenerator(store)
	def, _ := g.Lookup("", "sales-orders")

	p := params(1, 10)
	p.Export = models.ExportCSV
	out, err := g.ExportReport(context.Background(), def, p)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(out, []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Len(t, records[0], len(def.Columns))
	assert.Equal(t, def.Columns[0].Header, records[0][0])

	stages := store.calls[0]
	assert.Equal(t, bson.M{"$limit": int64(1000)}, stages[len(stages)-1], "xuất file bị giới hạn số dòng")
}

func TestExportReport_PercentUsesFullTotal(t *testing.T) {
	store := &fakeStore{respond: func(string, []bson.M) ([]bson.M, error) {
		return facetDoc(
			bson.A{bson.M{"_id": "p1", "name": "Áo", "revenue": 25.0, "orders": int32(1), "quantity": int32(1)}},
			1,
			bson.M{"_id": nil, percentTotalKey: 100.0},
		), nil
	}}
	g := newTestGenerator(store)
	def, _ := g.Lookup("", "sales-by-product")

	p := params(1, 10)
	p.Export = models.ExportExcel
	rows, err := g.ExportRows(context.Background(), def, p)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 25.0, rows[0]["percentage"])

	out, err := g.ExportReport(context.Background(), def, p)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestExportReport_Errors(t *testing.T) {
	store := &fakeStore{respond: func(string, []bson.M) ([]bson.M, error) {
		return nil, context.DeadlineExceeded
	}}
	g := newTestGenerator(store)
	def, _ := g.Lookup("", "low-stock")

	p := params(1, 10)
	p.Export = "docx"
	_, err := g.ExportReport(context.Background(), def, p)
	assert.True(t, errors.Is(err, common.ErrInvalidFormat))
	assert.Zero(t, store.callCount())

	p.Export = models.ExportPDF
	_, err = g.ExportReport(context.Background(), def, p)
	assert.True(t, common.IsStoreError(err))
}

func isKPIPipeline(stages []bson.M) bool {
	if len(stages) == 0 {
		return false
	}
	facet, ok := stages[len(stages)-1]["$facet"].(bson.M)
	if !ok {
		return false
	}
	_, ok = facet[pipeline.PeriodCurrent]
	return ok
}

func TestGetSalesAnalytics(t *testing.T) {
	store := &fakeStore{respond: func(_ string, stages []bson.M) ([]bson.M, error) {
		if isKPIPipeline(stages) {
			return []bson.M{{
				pipeline.PeriodCurrent:    bson.A{bson.M{"revenue": 5000.0, "orderCount": int32(10), "totalOrders": int32(20)}},
				pipeline.PeriodComparison: bson.A{bson.M{"revenue": 4000.0, "orderCount": int32(8), "totalOrders": int32(10)}},
			}}, nil
		}
		return nil, nil
	}}
	svc := NewAnalyticsService(store, "sales_orders", Options{})

	out, err := svc.GetSalesAnalytics(context.Background(), SalesAnalyticsQuery{StartDate: "2024-01-01", EndDate: "2024-01-31", Channel: "online"})
	require.NoError(t, err)

	assert.Equal(t, 8, store.callCount())
	assert.Equal(t, 5000.0, out.Metrics.Revenue)
	assert.Equal(t, 25.0, out.Metrics.RevenueChange)
	assert.Equal(t, 25.0, out.Metrics.OrdersChange)
	assert.Equal(t, 0.0, out.Metrics.AvgOrderValueChange)
	assert.Equal(t, 50.0, out.Metrics.ConversionRate)
	assert.Equal(t, -37.5, out.Metrics.ConversionRateChange)

	assert.Len(t, out.SalesTrend, 31)
	assert.Len(t, out.PaymentMethods, len(catalog.PaymentMethods))
	assert.Len(t, out.OrderStatusFunnel, len(catalog.OrderStatuses))
	assert.NotNil(t, out.TopProducts)
}

func TestGetSalesAnalytics_BreakdownShaping(t *testing.T) {
	breakdown := func(stages []bson.M, field string) bool {
		for _, st := range stages {
			g, ok := st["$group"].(bson.M)
			if !ok {
				continue
			}
			if id, ok := g["_id"].(bson.M); ok {
				if args, ok := id["$ifNull"].(bson.A); ok && len(args) > 0 && args[0] == "$"+field {
					return true
				}
			}
		}
		return false
	}
	store := &fakeStore{respond: func(_ string, stages []bson.M) ([]bson.M, error) {
		switch {
		case breakdown(stages, "paymentMethod"):
			return []bson.M{
				{"_id": "cash", "revenue": 100.0, "orders": int32(1)},
				{"_id": "cod", "revenue": 900.0, "orders": int32(2)},
			}, nil
		case breakdown(stages, "channel"):
			return []bson.M{
				{"_id": "web", "revenue": 0.004, "orders": int32(1)},
				{"_id": "pos", "revenue": 0.001, "orders": int32(1)},
			}, nil
		}
		return nil, nil
	}}
	svc := NewAnalyticsService(store, "sales_orders", Options{})

	out, err := svc.GetSalesAnalytics(context.Background(), SalesAnalyticsQuery{StartDate: "2024-01-01", EndDate: "2024-01-31"})
	require.NoError(t, err)

	require.Len(t, out.PaymentMethods, len(catalog.PaymentMethods))
	assert.Equal(t, "cod", out.PaymentMethods[0]["paymentMethod"])
	assert.Equal(t, "cash", out.PaymentMethods[1]["paymentMethod"])
	assert.Equal(t, "bank_transfer", out.PaymentMethods[2]["paymentMethod"])

	require.Len(t, out.ChannelPerformance, 2)
	assert.Equal(t, 80.0, out.ChannelPerformance[0]["percentage"])
	assert.Equal(t, 20.0, out.ChannelPerformance[1]["percentage"])
	assert.Equal(t, 0.0, out.ChannelPerformance[0]["revenue"])
}

func TestGetSalesAnalytics_ValidationAndFailure(t *testing.T) {
	store := &fakeStore{}
	svc := NewAnalyticsService(store, "sales_orders", Options{})

	_, err := svc.GetSalesAnalytics(context.Background(), SalesAnalyticsQuery{})
	assert.True(t, errors.Is(err, common.ErrInvalidInput), "thiếu khoảng ngày")

	_, err = svc.GetSalesAnalytics(context.Background(), SalesAnalyticsQuery{StartDate: "2024-02-01", EndDate: "2024-01-01"})
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
	assert.Zero(t, store.callCount())

	failing := &fakeStore{respond: func(_ string, stages []bson.M) ([]bson.M, error) {
		if isKPIPipeline(stages) {
			return nil, errors.New("boom")
		}
		return nil, nil
	}}
	svc = NewAnalyticsService(failing, "sales_orders", Options{})
	out, err := svc.GetSalesAnalytics(context.Background(), SalesAnalyticsQuery{StartDate: "2024-01-01", EndDate: "2024-01-31"})
	assert.Nil(t, out, "không trả dashboard dở dang")
	assert.True(t, common.IsStoreError(err))
}

func TestGetFilterOptions(t *testing.T) {
	n := global.DefaultCollectionNames()
	store := &fakeStore{respond: func(string, []bson.M) ([]bson.M, error) {
		return []bson.M{{"_id": "partially_received"}, {"_id": "received"}}, nil
	}}
	svc := NewFilterOptionsService(store, n)

	opts, err := svc.GetFilterOptions(context.Background(), "status", n.PurchaseOrders)
	require.NoError(t, err)
	assert.Equal(t, []models.FilterOption{
		{Value: "partially_received", Label: "Partially Received"},
		{Value: "received", Label: "Received"},
	}, opts)
	assert.Equal(t, n.PurchaseOrders, store.colls[0])

	_, err = svc.GetFilterOptions(context.Background(), "status", n.Products)
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
	assert.Equal(t, 1, store.callCount())

	assert.True(t, svc.Supported("warehouse", n.Warehouses))
	match := BuildOptionsPipeline("name", true)[0]["$match"].(bson.M)
	assert.Equal(t, bson.M{"$ne": false}, match["isActive"])
}
