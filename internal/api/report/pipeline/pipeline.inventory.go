package pipeline

import "go.mongodb.org/mongo-driver/bson"

// BuildPurchaseOrderListing danh sách đơn mua trong khoảng
func BuildPurchaseOrderListing(w DateWindow, match Match) Stages {
	stages := datedOrders(w, match)
	return append(stages, bson.M{"$project": bson.M{
		"poNumber":     1,
		"orderDate":    "$" + DateAs,
		"supplierName": 1,
		"warehouse":    1,
		"status":       1,
		"itemCount":    bson.M{"$size": bson.M{"$ifNull": bson.A{"$items", bson.A{}}}},
		"grandTotal":   bson.M{"$ifNull": bson.A{"$" + AmountField, 0}},
	}})
}

// activeProducts sản phẩm đang kinh doanh (isActive khác false) + điều kiện chiều
func activeProducts(match Match) Stages {
	stages := Stages{{"$match": bson.M{"isActive": bson.M{"$ne": false}}}}
	return appendStage(stages, MatchStage(match.Doc))
}

var stockProjection = bson.M{
	"name":          1,
	"sku":           1,
	"category":      1,
	"brand":         1,
	"warehouse":     1,
	"stockQuantity": bson.M{"$ifNull": bson.A{"$stockQuantity", 0}},
	"reorderLevel":  bson.M{"$ifNull": bson.A{"$reorderLevel", 0}},
	"costPrice":     bson.M{"$ifNull": bson.A{"$costPrice", 0}},
	"sellingPrice":  bson.M{"$ifNull": bson.A{"$sellingPrice", 0}},
	"stockValue": bson.M{"$multiply": bson.A{
		bson.M{"$ifNull": bson.A{"$stockQuantity", 0}},
		bson.M{"$ifNull": bson.A{"$costPrice", 0}},
	}},
}

// BuildStockLevels tồn kho hiện tại và giá trị tồn (stockQuantity * costPrice)
func BuildStockLevels(match Match) Stages {
	return append(activeProducts(match), bson.M{"$project": stockProjection})
}

// BuildLowStock sản phẩm có tồn <= mức đặt lại, kèm số lượng thiếu
func BuildLowStock(match Match) Stages {
	return append(activeProducts(match),
		bson.M{"$project": stockProjection},
		bson.M{"$match": bson.M{"$expr": bson.M{"$lte": bson.A{"$stockQuantity", "$reorderLevel"}}}},
		bson.M{"$addFields": bson.M{"shortage": bson.M{"$subtract": bson.A{"$reorderLevel", "$stockQuantity"}}}},
	)
}

// BuildCustomerList danh sách khách hàng kèm số đơn/tổng chi tiêu (đơn đã chốt) từ salesCollection.
// window (nếu có) lọc theo ngày tạo khách hàng.
func BuildCustomerList(window *DateWindow, match Match, salesCollection string) Stages {
	stages := Stages{}
	if window != nil {
		stages = append(stages, NormalizeDateStage("createdAt", DateAs), DateRangeMatch(DateAs, *window))
	}
	stages = appendStage(stages, MatchStage(match.Doc))

	lookup := bson.M{"$lookup": bson.M{
		"from": salesCollection,
		"let":  bson.M{"cid": "$_id"},
		"pipeline": bson.A{
			bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$customer", "$$cid"}}}},
			bson.M{"$match": CommittedStatusCondition()},
			bson.M{"$group": bson.M{
				"_id":        nil,
				"orders":     bson.M{"$sum": 1},
				"totalSpent": bson.M{"$sum": bson.M{"$ifNull": bson.A{"$" + AmountField, 0}}},
			}},
		},
		"as": "stats",
	}}

	return append(stages, lookup,
		bson.M{"$project": bson.M{
			"name":       1,
			"email":      1,
			"phone":      1,
			"isActive":   1,
			"createdAt":  1,
			"orders":     bson.M{"$ifNull": bson.A{bson.M{"$first": "$stats.orders"}, 0}},
			"totalSpent": bson.M{"$ifNull": bson.A{bson.M{"$first": "$stats.totalSpent"}, 0}},
		}},
	)
}
