package pipeline

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Field chung của đơn bán/đơn mua
const (
	OrderDateField = "orderDate"
	AmountField    = "grandTotal"
	StatusField    = "status"
)

// datedOrders: chuẩn hóa ngày, lọc khoảng, điều kiện chiều
func datedOrders(w DateWindow, match Match) Stages {
	stages := Stages{
		NormalizeDateStage(OrderDateField, DateAs),
		DateRangeMatch(DateAs, w),
	}
	return appendStage(stages, MatchStage(match.Doc))
}

// committedOrders như datedOrders nhưng chỉ giữ đơn đã chốt
func committedOrders(w DateWindow, match Match) Stages {
	return datedOrders(w, match.With(CommittedStatusCondition()))
}

// BuildKPIPipeline một pipeline cho cả kỳ hiện tại và kỳ so sánh.
// Mỗi đơn được gắn period current|comparison, $facet trả về hai nhóm
// {revenue, orderCount, totalOrders}; orderCount chỉ đếm đơn đã chốt.
func BuildKPIPipeline(w DateWindow, match Match) Stages {
	comp := w.Comparison()
	stages := datedOrders(DateWindow{Start: comp.Start, End: w.End}, match)

	stages = append(stages, bson.M{"$addFields": bson.M{
		PeriodField: bson.M{"$cond": bson.A{
			bson.M{"$gte": bson.A{"$" + DateAs, w.Start}},
			PeriodCurrent,
			PeriodComparison,
		}},
		"__committed": committedExpr(),
	}})

	group := func(period string) bson.A {
		return bson.A{
			bson.M{"$match": bson.M{PeriodField: period}},
			bson.M{"$group": bson.M{
				"_id": nil,
				"revenue": bson.M{"$sum": bson.M{"$cond": bson.A{
					bson.M{"$eq": bson.A{"$__committed", 1}}, bson.M{"$ifNull": bson.A{"$" + AmountField, 0}}, 0,
				}}},
				"orderCount":  bson.M{"$sum": "$__committed"},
				"totalOrders": bson.M{"$sum": 1},
			}},
		}
	}

	return append(stages, bson.M{"$facet": bson.M{
		PeriodCurrent:    group(PeriodCurrent),
		PeriodComparison: group(PeriodComparison),
	}})
}

// StoreLocation múi giờ gửi cho $dateToString: phải là tên IANA, nil hoặc "Local" quy về UTC
func StoreLocation(loc *time.Location) *time.Location {
	if loc == nil || loc.String() == "Local" {
		return time.UTC
	}
	return loc
}

// TrendOptions tham số trend
type TrendOptions struct {
	Bucket   TrendBucket
	Location *time.Location
}

// BuildTrendPipeline doanh thu/số đơn đã chốt theo bucket, chỉ trong kỳ hiện tại, tăng dần theo bucket
func BuildTrendPipeline(w DateWindow, match Match, opts TrendOptions) Stages {
	if opts.Bucket == "" {
		opts.Bucket = BucketDay
	}
	tz := StoreLocation(opts.Location).String()

	stages := committedOrders(w, match)
	return append(stages,
		bson.M{"$group": bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format":   opts.Bucket.dateFormat(),
				"date":     "$" + DateAs,
				"timezone": tz,
			}},
			"revenue": bson.M{"$sum": bson.M{"$ifNull": bson.A{"$" + AmountField, 0}}},
			"orders":  bson.M{"$sum": 1},
		}},
		bson.M{"$sort": bson.D{{Key: "_id", Value: 1}}},
	)
}

// Dimension chiều phân tích. ItemLevel: field nằm trong items[], cần $unwind.
type Dimension struct {
	Name       string
	Field      string
	LabelField string
	ItemLevel  bool
}

// Các chiều hỗ trợ
var (
	DimChannel       = Dimension{Name: "channel", Field: "channel"}
	DimSource        = Dimension{Name: "source", Field: "source"}
	DimPaymentMethod = Dimension{Name: "paymentMethod", Field: "paymentMethod"}
	DimSalesRep      = Dimension{Name: "salesRep", Field: "salesRep"}
	DimCustomer      = Dimension{Name: "customer", Field: "customer", LabelField: "customerName"}
	DimSupplier      = Dimension{Name: "supplier", Field: "supplier", LabelField: "supplierName"}
	DimWarehouse     = Dimension{Name: "warehouse", Field: "warehouse"}
	DimProduct       = Dimension{Name: "product", Field: "items.product", LabelField: "items.productName", ItemLevel: true}
	DimCategory      = Dimension{Name: "category", Field: "items.category", ItemLevel: true}
	DimBrand         = Dimension{Name: "brand", Field: "items.brand", ItemLevel: true}
)

// UnknownKey giá trị nhóm khi field chiều bị thiếu
const UnknownKey = "unknown"

// BreakdownStages gom nhóm đơn đã chốt theo chiều: {_id, name?, revenue, orders, quantity}.
// Không sort, không limit.
func BreakdownStages(w DateWindow, match Match, dim Dimension) Stages {
	stages := committedOrders(w, match)

	group := bson.M{
		"_id": bson.M{"$ifNull": bson.A{"$" + dim.Field, UnknownKey}},
	}
	if dim.LabelField != "" {
		group["name"] = bson.M{"$first": "$" + dim.LabelField}
	}

	if dim.ItemLevel {
		stages = append(stages, bson.M{"$unwind": "$items"})
		stages = appendStage(stages, MatchStage(match.Item))
		group["revenue"] = bson.M{"$sum": bson.M{"$ifNull": bson.A{"$items.total", 0}}}
		group["quantity"] = bson.M{"$sum": bson.M{"$ifNull": bson.A{"$items.quantity", 0}}}
		group["orderIds"] = bson.M{"$addToSet": "$_id"}
		return append(stages,
			bson.M{"$group": group},
			bson.M{"$addFields": bson.M{"orders": bson.M{"$size": "$orderIds"}}},
			bson.M{"$project": bson.M{"orderIds": 0}},
		)
	}

	group["revenue"] = bson.M{"$sum": bson.M{"$ifNull": bson.A{"$" + AmountField, 0}}}
	group["orders"] = bson.M{"$sum": 1}
	group["quantity"] = bson.M{"$sum": bson.M{"$sum": "$items.quantity"}}
	return append(stages, bson.M{"$group": group})
}

// BuildBreakdownPipeline BreakdownStages + sort revenue giảm dần (_id tăng dần khi bằng nhau) + top-N
func BuildBreakdownPipeline(w DateWindow, match Match, dim Dimension, limit int) Stages {
	stages := BreakdownStages(w, match, dim)
	stages = append(stages, bson.M{"$sort": bson.D{{Key: "revenue", Value: -1}, {Key: "_id", Value: 1}}})
	if limit > 0 {
		stages = append(stages, bson.M{"$limit": int64(limit)})
	}
	return stages
}

// BuildFunnelPipeline số đơn và giá trị theo trạng thái, gồm mọi trạng thái (kể cả nháp/hủy)
func BuildFunnelPipeline(w DateWindow, match Match) Stages {
	stages := datedOrders(w, match)
	return append(stages,
		bson.M{"$group": bson.M{
			"_id":     bson.M{"$ifNull": bson.A{"$" + StatusField, UnknownKey}},
			"orders":  bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": bson.M{"$ifNull": bson.A{"$" + AmountField, 0}}},
		}},
		bson.M{"$sort": bson.D{{Key: "_id", Value: 1}}},
	)
}

// BuildSalesOrderListing danh sách đơn bán (mọi trạng thái, lọc thêm bằng filter status)
func BuildSalesOrderListing(w DateWindow, match Match) Stages {
	stages := datedOrders(w, match)
	return append(stages, bson.M{"$project": bson.M{
		"orderNumber":   1,
		"orderDate":     "$" + DateAs,
		"customerName":  1,
		"warehouse":     1,
		"channel":       1,
		"salesRep":      1,
		"paymentMethod": 1,
		"status":        1,
		"itemCount":     bson.M{"$size": bson.M{"$ifNull": bson.A{"$items", bson.A{}}}},
		"grandTotal":    bson.M{"$ifNull": bson.A{"$" + AmountField, 0}},
	}})
}
