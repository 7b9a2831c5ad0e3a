package database

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ecommerce-seeder/internal/dataset"
)

// MongoStore implements dataset.Store on a single MongoDB database.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func Connect(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}
	return &MongoStore{client: client, db: client.Database(dbName)}, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Reset drops the whole database. A run never merges into leftover
// data, so this runs before every generation.
func (s *MongoStore) Reset(ctx context.Context) error {
	return s.db.Drop(ctx)
}

func (s *MongoStore) InsertMany(ctx context.Context, collection string, docs []interface{}) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := s.db.Collection(collection).InsertMany(ctx, docs)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &dataset.UniquenessViolation{Collection: collection, Err: err}
		}
		return err
	}
	return nil
}

// EnsureIndexes declares the indexes registered for the collection.
// CreateMany is idempotent, re-declaring an existing index is a no-op.
func (s *MongoStore) EnsureIndexes(ctx context.Context, collection string) error {
	models, ok := collectionIndexes[collection]
	if !ok {
		return nil
	}
	_, err := s.db.Collection(collection).Indexes().CreateMany(ctx, models)
	return err
}
