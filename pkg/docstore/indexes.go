package docstore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// indexes is the Mongo counterpart of the SQL migrations.
var indexes = map[string][]mongo.IndexModel{
	Coupons: {
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	Orders: {
		{Keys: bson.D{{Key: "orderNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "customerId", Value: 1}}},
	},
	CustomOrders: {
		{Keys: bson.D{{Key: "requestNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	},
	Paintings: {
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "available", Value: 1}}},
		{Keys: bson.D{{Key: "featured", Value: 1}}},
	},
	Reviews: {
		{Keys: bson.D{{Key: "paintingId", Value: 1}, {Key: "approved", Value: 1}}},
	},
	BlogPosts: {
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "published", Value: 1}, {Key: "publishedAt", Value: -1}}},
	},
	Users: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
}

// EnsureIndexes creates every index the repositories rely on. Safe to re-run.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("docstore: indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// IndexCount returns how many indexes EnsureIndexes manages, for migrate:status.
func IndexCount() map[string]int {
	out := make(map[string]int, len(indexes))
	for coll, models := range indexes {
		out[coll] = len(models)
	}
	return out
}
