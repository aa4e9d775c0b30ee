package main

import (
	"inventory_commerce/config"
	"inventory_commerce/internal/database"
	"inventory_commerce/internal/global"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

func InitRegistry() {
	logrus.Info("Initialized registry")

	err := InitCollections(global.MongoDB_Session, global.MongoDB_ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to initialize collections: %v", err)
	}
	logrus.Info("Initialized collection registry")
}

// ReleaseRegistry bỏ các handle collection trước khi đóng kết nối
func ReleaseRegistry() {
	count, err := global.RegistryCollections.ClearAll(nil)
	if err != nil {
		logrus.Errorf("Failed to clear collection registry: %v", err)
		return
	}
	logrus.Infof("Released %d collections", count)
}

// InitCollections đăng ký handle các collection nghiệp vụ mà báo cáo đọc
func InitCollections(client *mongo.Client, cfg *config.Configuration) error {
	db := client.Database(cfg.MongoDB_DBName_Data)
	names := global.MongoDB_ColNames.All()
	if err := database.RegisterCollections(db, global.RegistryCollections, names...); err != nil {
		logrus.Errorf("Failed to register collections: %v", err)
		return err
	}
	logrus.WithField("collections", global.RegistryCollections.Names()).Infof("Registered %d collections", len(names))
	return nil
}
