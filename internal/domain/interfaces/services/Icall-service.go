package Iservices

import (
	"context"

	"emotional-analysis/internal/domain/dto"
	"emotional-analysis/internal/domain/entities"
)

// ICallService is the business facade over the call record store.
type ICallService interface {
	Save(ctx context.Context, call entities.Call) (entities.Call, error)
	MostRecent(ctx context.Context, limit int64) ([]entities.Call, error)
	Search(ctx context.Context, searchType, query string) ([]entities.Call, error)
	EmotionCounts(ctx context.Context) (map[string]int64, error)
	Statistics(ctx context.Context) (dto.StatisticsResponse, error)
}
