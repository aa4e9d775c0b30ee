package reportsvc

import (
	"context"

	"inventory_commerce/internal/api/report/catalog"
	"inventory_commerce/internal/api/report/filter"
	"inventory_commerce/internal/api/report/models"
	"inventory_commerce/internal/api/report/pipeline"
	"inventory_commerce/internal/api/report/shaping"
	"inventory_commerce/internal/common"
	"inventory_commerce/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"
)

// TopProductsLimit số sản phẩm trong danh sách bán chạy của dashboard
const TopProductsLimit = 10

// SalesAnalyticsQuery tham số của dashboard bán hàng (chuỗi thô từ query)
type SalesAnalyticsQuery struct {
	StartDate string
	EndDate   string
	Warehouse string
	Channel   string
	SalesRep  string
}

// analyticsFilters filter mà dashboard chấp nhận
var analyticsFilters = []models.FilterSpec{
	{Key: "dateRange", Type: models.FilterDateRange, Required: true, Field: pipeline.OrderDateField},
	{Key: "warehouse", Type: models.FilterSelect, Field: "warehouse"},
	{Key: "channel", Type: models.FilterSelect, Field: "channel"},
	{Key: "salesRep", Type: models.FilterSelect, Field: "salesRep"},
}

// AnalyticsService dashboard bán hàng: nhiều pipeline chạy song song, lỗi một cái là lỗi cả response
type AnalyticsService struct {
	store      Aggregator
	collection string
	opts       Options
}

// NewAnalyticsService tạo mới AnalyticsService trên collection đơn bán
func NewAnalyticsService(store Aggregator, salesCollection string, opts Options) *AnalyticsService {
	return &AnalyticsService{store: store, collection: salesCollection, opts: opts.withDefaults()}
}

func (s *AnalyticsService) parse(q SalesAnalyticsQuery) (pipeline.DateWindow, pipeline.Match, error) {
	filters := map[string]models.FilterValue{}
	var errs []filter.FilterError

	if q.StartDate != "" || q.EndDate != "" {
		dr, ok := filter.DateRangeFrom(q.StartDate, q.EndDate, s.opts.Location)
		if !ok {
			errs = append(errs, filter.InvalidDateRange("dateRange"))
		} else {
			filters["dateRange"] = dr
		}
	}
	for key, v := range map[string]string{"warehouse": q.Warehouse, "channel": q.Channel, "salesRep": q.SalesRep} {
		if v != "" {
			filters[key] = models.SelectValue{Value: v}
		}
	}
	if len(errs) == 0 {
		errs = filter.ValidateFilters(filters, analyticsFilters)
	}
	if len(errs) > 0 {
		return pipeline.DateWindow{}, pipeline.Match{}, common.NewValidationError("", errs)
	}

	w, _, _ := pipeline.WindowFromFilters(filters, analyticsFilters)
	return w, pipeline.DimensionMatch(filters, analyticsFilters), nil
}

// GetSalesAnalytics chạy 8 pipeline đồng thời: KPI, trend, kênh, nguồn, thanh toán, top sản phẩm, nhân viên, phễu trạng thái
func (s *AnalyticsService) GetSalesAnalytics(ctx context.Context, q SalesAnalyticsQuery) (*models.SalesAnalytics, error) {
	w, match, err := s.parse(q)
	if err != nil {
		return nil, err
	}
	bucket := pipeline.TrendBucketFor(w, s.opts.TrendWeekThresholdDays, s.opts.TrendMonthThresholdDays)

	var (
		kpiDocs, trendDocs, channelDocs, sourceDocs   []bson.M
		paymentDocs, productDocs, repDocs, funnelDocs []bson.M
	)

	g, gctx := errgroup.WithContext(ctx)
	run := func(dst *[]bson.M, stages pipeline.Stages) {
		g.Go(func() error {
			docs, err := s.store.Aggregate(gctx, s.collection, stages)
			if err != nil {
				return err
			}
			*dst = docs
			return nil
		})
	}

	run(&kpiDocs, pipeline.BuildKPIPipeline(w, match))
	run(&trendDocs, pipeline.BuildTrendPipeline(w, match, pipeline.TrendOptions{Bucket: bucket, Location: s.opts.Location}))
	run(&channelDocs, pipeline.BuildBreakdownPipeline(w, match, pipeline.DimChannel, 0))
	run(&sourceDocs, pipeline.BuildBreakdownPipeline(w, match, pipeline.DimSource, 0))
	run(&paymentDocs, pipeline.BuildBreakdownPipeline(w, match, pipeline.DimPaymentMethod, 0))
	run(&productDocs, pipeline.BuildBreakdownPipeline(w, match, pipeline.DimProduct, TopProductsLimit))
	run(&repDocs, pipeline.BuildBreakdownPipeline(w, match, pipeline.DimSalesRep, 0))
	run(&funnelDocs, pipeline.BuildFunnelPipeline(w, match))

	if err := g.Wait(); err != nil {
		logger.WithContext(ctx).WithError(err).Error("Dashboard bán hàng thất bại")
		return nil, common.ConvertMongoError(err)
	}

	kpi := shaping.ShapeKPIs(kpiDocs)
	zero := models.Row{"revenue": 0.0, "orders": 0.0, "quantity": 0.0}

	return &models.SalesAnalytics{
		Metrics: models.SalesMetrics{
			Revenue:              kpi.Revenue.Current,
			RevenueChange:        kpi.Revenue.PercentChange,
			Orders:               kpi.Orders.Current,
			OrdersChange:         kpi.Orders.PercentChange,
			AvgOrderValue:        kpi.AvgOrderValue.Current,
			AvgOrderValueChange:  kpi.AvgOrderValue.PercentChange,
			ConversionRate:       kpi.ConversionRate.Current,
			ConversionRateChange: kpi.ConversionRate.PercentChange,
		},
		SalesTrend: roundRows(shaping.Backfill(keyedRows(trendDocs, "period"), "period",
			pipeline.TrendKeys(w, bucket, s.opts.Location), models.Row{"revenue": 0.0, "orders": 0.0})),
		ChannelPerformance:  withPercent(keyedRows(channelDocs, pipeline.DimChannel.Name), "revenue"),
		SourceDistribution:  withPercent(keyedRows(sourceDocs, pipeline.DimSource.Name), "revenue"),
		PaymentMethods:      paymentRows(paymentDocs, zero),
		TopProducts:         roundRows(keyedRows(productDocs, pipeline.DimProduct.Name)),
		SalesRepPerformance: roundRows(keyedRows(repDocs, pipeline.DimSalesRep.Name)),
		OrderStatusFunnel: withPercent(shaping.Backfill(keyedRows(funnelDocs, "status"), "status",
			catalog.OrderStatuses, models.Row{"orders": 0.0, "revenue": 0.0}), "orders"),
	}, nil
}

func keyedRows(docs []bson.M, keyColumn string) []models.Row {
	return toRows(models.ReportDefinition{KeyColumn: keyColumn}, docs)
}

// withPercent tỷ trọng tính trên giá trị chưa làm tròn
func withPercent(rows []models.Row, valueKey string) []models.Row {
	return roundRows(shaping.PercentOfTotal(rows, valueKey, "percentage"))
}

// paymentRows đủ mọi phương thức thanh toán, doanh thu giảm dần, bằng nhau thì theo tên
func paymentRows(docs []bson.M, zero models.Row) []models.Row {
	key := pipeline.DimPaymentMethod.Name
	rows := shaping.Backfill(keyedRows(docs, key), key, catalog.PaymentMethods, zero)
	sortRows(rows, models.SortSpec{Column: "revenue", Direction: models.SortDesc}, key)
	return roundRows(rows)
}
