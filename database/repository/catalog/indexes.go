package catalogRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the catalogue indexes.
func EnsureIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := db.Collection("services").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_id")},
		{Keys: bson.D{{Key: "active", Value: 1}, {Key: "name", Value: 1}}, Options: options.Index().SetName("active_name_idx")},
	})
	if err != nil {
		return fmt.Errorf("failed to create service indexes: %w", err)
	}

	_, err = db.Collection("service_pricing").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "serviceId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_service_id"),
	})
	if err != nil {
		return fmt.Errorf("failed to create pricing indexes: %w", err)
	}
	return nil
}
