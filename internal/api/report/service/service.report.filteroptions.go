package reportsvc

import (
	"context"
	"fmt"

	"inventory_commerce/internal/api/report/models"
	"inventory_commerce/internal/common"
	"inventory_commerce/internal/global"
	"inventory_commerce/internal/utility"

	"go.mongodb.org/mongo-driver/bson"
)

// optionSource cách lấy danh sách lựa chọn cho một cặp (type, collection)
type optionSource struct {
	field      string
	activeOnly bool
	label      bool // true: nhãn sinh từ mã (partially_received -> Partially Received)
}

// FilterOptionsService danh sách lựa chọn cho filter select/multi_select
type FilterOptionsService struct {
	store   Aggregator
	sources map[string]optionSource
}

func optionKey(optionType, collection string) string {
	return optionType + "/" + collection
}

// NewFilterOptionsService tạo mới FilterOptionsService với tên collection của hệ thống
func NewFilterOptionsService(store Aggregator, n global.MongoDB_Data_CollectionName) *FilterOptionsService {
	master := optionSource{field: "name", activeOnly: true}
	return &FilterOptionsService{
		store: store,
		sources: map[string]optionSource{
			optionKey("warehouse", n.Warehouses):      master,
			optionKey("category", n.Categories):       master,
			optionKey("brand", n.Brands):              master,
			optionKey("customer", n.Customers):        master,
			optionKey("supplier", n.Suppliers):        master,
			optionKey("status", n.SalesOrders):        {field: "status", label: true},
			optionKey("status", n.PurchaseOrders):     {field: "status", label: true},
			optionKey("channel", n.SalesOrders):       {field: "channel", label: true},
			optionKey("paymentMethod", n.SalesOrders): {field: "paymentMethod", label: true},
			optionKey("salesRep", n.SalesOrders):      {field: "salesRep"},
			optionKey("source", n.SalesOrders):        {field: "source", label: true},
			optionKey("warehouse", n.SalesOrders):     {field: "warehouse"},
			optionKey("warehouse", n.PurchaseOrders):  {field: "warehouse"},
		},
	}
}

// Supported true nếu cặp (type, collection) được hỗ trợ
func (s *FilterOptionsService) Supported(optionType, collection string) bool {
	_, ok := s.sources[optionKey(optionType, collection)]
	return ok
}

// BuildOptionsPipeline giá trị khác rỗng, không trùng, tăng dần
func BuildOptionsPipeline(field string, activeOnly bool) []bson.M {
	match := bson.M{field: bson.M{"$nin": bson.A{nil, ""}}}
	if activeOnly {
		match["isActive"] = bson.M{"$ne": false}
	}
	return []bson.M{
		{"$match": match},
		{"$group": bson.M{"_id": "$" + field}},
		{"$sort": bson.D{{Key: "_id", Value: 1}}},
	}
}

// GetFilterOptions trả về [{value,label}] cho cặp (type, collection); cặp không hỗ trợ là lỗi 400
func (s *FilterOptionsService) GetFilterOptions(ctx context.Context, optionType, collection string) ([]models.FilterOption, error) {
	src, ok := s.sources[optionKey(optionType, collection)]
	if !ok {
		return nil, common.NewValidationError(
			fmt.Sprintf("Không hỗ trợ danh sách lựa chọn %s cho %s", optionType, collection),
			map[string]string{"type": optionType, "collection": collection},
		)
	}

	docs, err := s.store.Aggregate(ctx, collection, BuildOptionsPipeline(src.field, src.activeOnly))
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}

	out := make([]models.FilterOption, 0, len(docs))
	for _, d := range docs {
		v := utility.KeyString(d["_id"])
		if v == "" {
			continue
		}
		label := v
		if src.label {
			label = utility.Label(v)
		}
		out = append(out, models.FilterOption{Value: v, Label: label})
	}
	return out, nil
}
