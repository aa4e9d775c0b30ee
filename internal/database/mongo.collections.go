package database

import (
	"inventory_commerce/internal/registry"

	"go.mongodb.org/mongo-driver/mongo"
)

// RegisterCollections đăng ký handle của các collection vào registry
func RegisterCollections(db *mongo.Database, reg *registry.Registry[*mongo.Collection], names ...string) error {
	for _, name := range names {
		if _, err := reg.Register(name, db.Collection(name)); err != nil {
			return err
		}
	}
	return nil
}
