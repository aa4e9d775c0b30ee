package database

import (
	"context"
	"strings"

	"inventory_commerce/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReportIndexModels các index phục vụ pipeline báo cáo, theo tên collection
func ReportIndexModels(names global.MongoDB_Data_CollectionName) map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		// match theo khoảng ngày rồi loại trạng thái nháp/hủy
		names.SalesOrders: {
			{
				Keys:    bson.D{{Key: "orderDate", Value: 1}, {Key: "status", Value: 1}},
				Options: options.Index().SetName("sales_order_date_status"),
			},
			{
				Keys:    bson.D{{Key: "status", Value: 1}},
				Options: options.Index().SetName("sales_order_status"),
			},
			{
				Keys:    bson.D{{Key: "warehouse", Value: 1}, {Key: "orderDate", Value: 1}},
				Options: options.Index().SetName("sales_order_warehouse_date"),
			},
		},
		names.PurchaseOrders: {
			{
				Keys:    bson.D{{Key: "orderDate", Value: 1}},
				Options: options.Index().SetName("purchase_order_date"),
			},
		},
		names.Products: {
			{
				Keys:    bson.D{{Key: "warehouse", Value: 1}, {Key: "category", Value: 1}},
				Options: options.Index().SetName("product_warehouse_category"),
			},
		},
	}
}

// CreateReportIndexes tạo index cho các collection báo cáo; index đã tồn tại thì bỏ qua
func CreateReportIndexes(ctx context.Context, db *mongo.Database, names global.MongoDB_Data_CollectionName) error {
	for col, models := range ReportIndexModels(names) {
		for _, model := range models {
			if _, err := db.Collection(col).Indexes().CreateOne(ctx, model); err != nil && !isIndexExistsError(err) {
				return err
			}
		}
	}
	return nil
}

func isIndexExistsError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "already exists") || strings.Contains(s, "IndexOptionsConflict")
}
