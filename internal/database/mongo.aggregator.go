package database

import (
	"context"
	"time"

	"inventory_commerce/internal/common"
	"inventory_commerce/internal/registry"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAggregator chạy aggregation pipeline trên MongoDB và trả về toàn bộ kết quả.
// Handle collection lấy từ registry, chưa có thì tạo từ db.
type MongoAggregator struct {
	db          *mongo.Database
	collections *registry.Registry[*mongo.Collection]
	timeout     time.Duration
}

// NewMongoAggregator tạo aggregator; timeout <= 0 nghĩa là chỉ dùng deadline của ctx
func NewMongoAggregator(db *mongo.Database, collections *registry.Registry[*mongo.Collection], timeout time.Duration) *MongoAggregator {
	if collections == nil {
		collections = registry.NewRegistry[*mongo.Collection]()
	}
	return &MongoAggregator{db: db, collections: collections, timeout: timeout}
}

// Aggregate chạy pipeline trên collection. Mọi lỗi đều qua ConvertMongoError (500).
func (a *MongoAggregator) Aggregate(ctx context.Context, collection string, pipeline []bson.M) ([]bson.M, error) {
	col, err := a.collections.GetOrCreate(collection, func() (*mongo.Collection, error) {
		return a.db.Collection(collection), nil
	})
	if err != nil {
		return nil, common.NewStoreError(err)
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	opts := options.Aggregate().SetAllowDiskUse(true)
	if a.timeout > 0 {
		opts.SetMaxTime(a.timeout)
	}

	cursor, err := col.Aggregate(ctx, pipeline, opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	results := make([]bson.M, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return results, nil
}

// Ping kiểm tra kết nối, dùng cho /health
func (a *MongoAggregator) Ping(ctx context.Context) error {
	return common.ConvertMongoError(a.db.Client().Ping(ctx, nil))
}
