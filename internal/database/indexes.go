package database

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ecommerce-seeder/internal/dataset"
)

// The seven indexes backing the course query workload: unique emails,
// geo lookups on customer location, category/price catalog filters,
// product text search, per-customer order history, order lookups by
// product, and chronological event scans per order.
var collectionIndexes = map[string][]mongo.IndexModel{
	dataset.CollCustomers: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "address.location", Value: "2dsphere"}}},
	},
	dataset.CollProducts: {
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}}},
	},
	dataset.CollOrders: {
		{Keys: bson.D{{Key: "customerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "items.productId", Value: 1}}},
	},
	dataset.CollEvents: {
		{Keys: bson.D{{Key: "orderId", Value: 1}, {Key: "at", Value: 1}}},
	},
}
