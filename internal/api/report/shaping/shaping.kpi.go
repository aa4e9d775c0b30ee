package shaping

import (
	"inventory_commerce/internal/api/report/pipeline"
	"inventory_commerce/internal/utility"

	"go.mongodb.org/mongo-driver/bson"
)

// KPISet bốn chỉ số chính, mỗi chỉ số có kỳ hiện tại/kỳ so sánh
type KPISet struct {
	Revenue        MetricValue `json:"revenue"`
	Orders         MetricValue `json:"orders"`
	AvgOrderValue  MetricValue `json:"avgOrderValue"`
	ConversionRate MetricValue `json:"conversionRate"`
}

type periodTotals struct {
	revenue     float64
	orderCount  float64
	totalOrders float64
}

func (p periodTotals) avgOrderValue() float64 {
	return SafeDivide(p.revenue, p.orderCount)
}

// conversionRate tỷ lệ đơn đã chốt trên tổng số đơn tạo trong kỳ (%)
func (p periodTotals) conversionRate() float64 {
	return SafeDivide(p.orderCount, p.totalOrders) * 100
}

func readPeriod(facet bson.M, period string) periodTotals {
	var p periodTotals
	docs := utility.ToDocs(facet[period])
	if len(docs) == 0 {
		return p
	}
	doc := docs[0]
	p.revenue = utility.Float(doc["revenue"])
	p.orderCount = utility.Float(doc["orderCount"])
	p.totalOrders = utility.Float(doc["totalOrders"])
	return p
}

// ShapeKPIs đọc kết quả $facet của BuildKPIPipeline. Kết quả rỗng cho toàn bộ chỉ số = 0.
func ShapeKPIs(results []bson.M) KPISet {
	var facet bson.M
	if len(results) > 0 {
		facet = results[0]
	}
	cur := readPeriod(facet, pipeline.PeriodCurrent)
	cmp := readPeriod(facet, pipeline.PeriodComparison)

	return KPISet{
		Revenue:        NewMetricValue(cur.revenue, cmp.revenue),
		Orders:         NewMetricValue(cur.orderCount, cmp.orderCount),
		AvgOrderValue:  NewMetricValue(cur.avgOrderValue(), cmp.avgOrderValue()),
		ConversionRate: NewMetricValue(cur.conversionRate(), cmp.conversionRate()),
	}
}
