package main

import (
	"context"
	"time"

	"inventory_commerce/internal/api/report/catalog"
	reporthdl "inventory_commerce/internal/api/report/handler"
	reportsvc "inventory_commerce/internal/api/report/service"
	"inventory_commerce/internal/database"
	"inventory_commerce/internal/global"
	"inventory_commerce/internal/logger"
)

// aggregator dùng chung cho report handler và /health
var aggregator *database.MongoAggregator

// InitDataIndexes tạo index phục vụ pipeline báo cáo; lỗi chỉ log, server vẫn chạy
func InitDataIndexes() {
	log := logger.GetAppLogger()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := global.MongoDB_Session.Database(global.MongoDB_ServerConfig.MongoDB_DBName_Data)
	if err := database.CreateReportIndexes(ctx, db, global.MongoDB_ColNames); err != nil {
		log.WithError(err).Warn("Failed to create report indexes")
		return
	}
	log.Info("Report indexes ensured")
}

// InitReportHandler dựng catalog, các service báo cáo và handler
func InitReportHandler() *reporthdl.ReportHandler {
	log := logger.GetAppLogger()
	cfg := global.MongoDB_ServerConfig

	db := global.MongoDB_Session.Database(cfg.MongoDB_DBName_Data)
	aggregator = database.NewMongoAggregator(db, global.RegistryCollections, cfg.QueryTimeout())

	cat, err := catalog.DefaultWith(global.MongoDB_ColNames)
	if err != nil {
		log.Fatalf("Failed to build report catalog: %v", err)
	}

	opts := reportsvc.OptionsFromConfig(cfg)
	h := reporthdl.NewReportHandler(
		reportsvc.NewGenerator(aggregator, cat, opts),
		reportsvc.NewAnalyticsService(aggregator, global.MongoDB_ColNames.SalesOrders, opts),
		reportsvc.NewFilterOptionsService(aggregator, global.MongoDB_ColNames),
	)
	logger.WithModule("report").WithField("reports", len(cat.List())).Info("Report catalog loaded")
	return h
}
