package repository

import (
	"context"
	"time"

	"emotional-analysis/internal/domain/entities"
	Irepository "emotional-analysis/internal/domain/interfaces/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CallRepository stores classified calls in the calls collection.
type CallRepository struct {
	mongo *mongo.Database
}

func NewCallRepository(mongo *mongo.Database) *CallRepository {
	return &CallRepository{mongo: mongo}
}

func (r *CallRepository) collection() *mongo.Collection {
	return r.mongo.Collection(Irepository.CallCollection)
}

// Save inserts the call and returns it with the storage-assigned id. InsertOne
// is atomic, so a saved call is either fully visible to readers or absent.
func (r *CallRepository) Save(ctx context.Context, call entities.Call) (entities.Call, error) {
	result, err := r.collection().InsertOne(ctx, call)
	if err != nil {
		return entities.Call{}, err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		call.ID = oid
	}
	return call, nil
}

// MostRecent returns up to limit calls ordered newest first.
func (r *CallRepository) MostRecent(ctx context.Context, limit int64) ([]entities.Call, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)
	return r.find(ctx, bson.M{}, opts)
}

func (r *CallRepository) FindByCallerID(ctx context.Context, callerID int64) ([]entities.Call, error) {
	return r.find(ctx, bson.M{"caller_id": callerID}, options.Find())
}

func (r *CallRepository) FindByPhone(ctx context.Context, phoneNumber string) ([]entities.Call, error) {
	return r.find(ctx, bson.M{"phone_number": phoneNumber}, options.Find())
}

// CountSince counts calls with a timestamp at or after since, optionally
// restricted to the given emotion labels.
func (r *CallRepository) CountSince(ctx context.Context, since time.Time, emotions []string) (int64, error) {
	filter := bson.M{"timestamp": bson.M{"$gte": since}}
	if len(emotions) > 0 {
		filter["emotion"] = bson.M{"$in": emotions}
	}
	return r.collection().CountDocuments(ctx, filter)
}

// GroupByDay buckets calls since the given instant by calendar day
// (YYYY-MM-DD, server timezone of the mongod).
func (r *CallRepository) GroupByDay(ctx context.Context, since time.Time) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"timestamp": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$timestamp"}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	return r.aggregateCounts(ctx, pipeline)
}

// GroupByLabel buckets calls since the given instant by emotion label.
func (r *CallRepository) GroupByLabel(ctx context.Context, since time.Time) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"timestamp": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$emotion",
			"count": bson.M{"$sum": 1},
		}}},
	}
	return r.aggregateCounts(ctx, pipeline)
}

func (r *CallRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]entities.Call, error) {
	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var calls []entities.Call
	if err := cursor.All(ctx, &calls); err != nil {
		return nil, err
	}
	return calls, nil
}

func (r *CallRepository) aggregateCounts(ctx context.Context, pipeline mongo.Pipeline) (map[string]int64, error) {
	cursor, err := r.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ID] = row.Count
	}
	return counts, nil
}
