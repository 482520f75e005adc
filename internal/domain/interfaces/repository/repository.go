package repository

import (
	"context"
	"time"

	"emotional-analysis/internal/domain/entities"
)

// Collection names used by the mongo repositories.
const (
	CallCollection = "calls"
	UserCollection = "users"
)

// Repository is the generic document store used for auxiliary collections.
type Repository[T any] interface {
	Create(ctx context.Context, collectionName string, entity T) (T, error)
	FindOne(ctx context.Context, collectionName string, filter map[string]any) (T, error)
	Find(ctx context.Context, collectionName string, filter map[string]any) ([]T, error)
	DeleteOne(ctx context.Context, collectionName string, filter map[string]any) error
}

// CallRepository persists classified calls and serves the dashboard queries.
// Save is atomic: a call is either fully visible to subsequent reads or not
// visible at all. The aggregate queries are snapshot reads with no isolation
// guarantees against concurrent writers.
type CallRepository interface {
	Save(ctx context.Context, call entities.Call) (entities.Call, error)
	MostRecent(ctx context.Context, limit int64) ([]entities.Call, error)
	FindByCallerID(ctx context.Context, callerID int64) ([]entities.Call, error)
	FindByPhone(ctx context.Context, phoneNumber string) ([]entities.Call, error)
	CountSince(ctx context.Context, since time.Time, emotions []string) (int64, error)
	GroupByDay(ctx context.Context, since time.Time) (map[string]int64, error)
	GroupByLabel(ctx context.Context, since time.Time) (map[string]int64, error)
}
