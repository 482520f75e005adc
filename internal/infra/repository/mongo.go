package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoRepository is the generic document store backing auxiliary collections
// (currently only users). Call records have their own dedicated repository
// because of the aggregation queries they need.
type MongoRepository[T any] struct {
	mongo *mongo.Database
}

func NewMongoRepository[T any](mongo *mongo.Database) *MongoRepository[T] {
	return &MongoRepository[T]{mongo: mongo}
}

func (r *MongoRepository[T]) Create(ctx context.Context, collectionName string, entity T) (T, error) {
	collection := r.mongo.Collection(collectionName)
	_, err := collection.InsertOne(ctx, entity)
	return entity, err
}

func (r *MongoRepository[T]) FindOne(ctx context.Context, collectionName string, filter map[string]any) (T, error) {
	var entity T
	collection := r.mongo.Collection(collectionName)
	err := collection.FindOne(ctx, bson.M(filter)).Decode(&entity)
	return entity, err
}

func (r *MongoRepository[T]) Find(ctx context.Context, collectionName string, filter map[string]any) ([]T, error) {
	collection := r.mongo.Collection(collectionName)
	cursor, err := collection.Find(ctx, bson.M(filter))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entities []T
	for cursor.Next(ctx) {
		var entity T
		if err := cursor.Decode(&entity); err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, cursor.Err()
}

func (r *MongoRepository[T]) DeleteOne(ctx context.Context, collectionName string, filter map[string]any) error {
	collection := r.mongo.Collection(collectionName)
	_, err := collection.DeleteOne(ctx, bson.M(filter))
	return err
}
