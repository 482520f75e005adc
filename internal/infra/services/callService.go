package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"emotional-analysis/internal/domain/dto"
	"emotional-analysis/internal/domain/entities"
	Irepository "emotional-analysis/internal/domain/interfaces/repository"
	"emotional-analysis/internal/infra/logger"
)

// CallService is the business facade over the call record store. It backs the
// dashboard endpoints; its aggregates are snapshot reads and may trail
// concurrent saves.
type CallService struct {
	CallRepository Irepository.CallRepository
	Logger         *logger.Logger
}

func NewCallService(callRepository Irepository.CallRepository, logger *logger.Logger) *CallService {
	return &CallService{CallRepository: callRepository, Logger: logger}
}

func (cs *CallService) Save(ctx context.Context, call entities.Call) (entities.Call, error) {
	return cs.CallRepository.Save(ctx, call)
}

func (cs *CallService) MostRecent(ctx context.Context, limit int64) ([]entities.Call, error) {
	return cs.CallRepository.MostRecent(ctx, limit)
}

// Search finds calls by caller id ("uid") or phone number ("phone").
func (cs *CallService) Search(ctx context.Context, searchType, query string) ([]entities.Call, error) {
	switch searchType {
	case "uid":
		callerID, err := strconv.ParseInt(query, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid caller id %q", query)
		}
		return cs.CallRepository.FindByCallerID(ctx, callerID)
	case "phone":
		return cs.CallRepository.FindByPhone(ctx, query)
	default:
		return nil, fmt.Errorf("unknown search type %q", searchType)
	}
}

// EmotionCounts returns the all-time number of calls per emotion label.
func (cs *CallService) EmotionCounts(ctx context.Context) (map[string]int64, error) {
	return cs.CallRepository.GroupByLabel(ctx, time.Time{})
}

// Statistics assembles the dashboard counters and chart series: today's
// totals, high-priority cases, the last-24h active set, and 7-day groupings
// by day, label and derived call type.
func (cs *CallService) Statistics(ctx context.Context) (dto.StatisticsResponse, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	last24h := now.Add(-24 * time.Hour)
	last7d := now.AddDate(0, 0, -7)

	totalToday, err := cs.CallRepository.CountSince(ctx, midnight, nil)
	if err != nil {
		return dto.StatisticsResponse{}, err
	}

	highPriority, err := cs.CallRepository.CountSince(ctx, midnight, entities.HighPriorityEmotions)
	if err != nil {
		return dto.StatisticsResponse{}, err
	}

	active, err := cs.CallRepository.CountSince(ctx, last24h, nil)
	if err != nil {
		return dto.StatisticsResponse{}, err
	}

	byDay, err := cs.CallRepository.GroupByDay(ctx, last7d)
	if err != nil {
		return dto.StatisticsResponse{}, err
	}

	byLabel, err := cs.CallRepository.GroupByLabel(ctx, last7d)
	if err != nil {
		return dto.StatisticsResponse{}, err
	}

	return dto.StatisticsResponse{
		TotalCallsToday:      totalToday,
		HighPriorityCases:    highPriority,
		ActiveInvestigations: active,
		DailyCallVolume:      sortedSeries(byDay),
		EmotionDistribution:  sortedSeries(byLabel),
		CallTypes:            callTypeSeries(byLabel),
	}, nil
}

// sortedSeries flattens a bucket map into a chart series with labels in
// ascending order, which for day buckets is chronological order.
func sortedSeries(buckets map[string]int64) dto.ChartSeries {
	labels := make([]string, 0, len(buckets))
	for label := range buckets {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	series := dto.ChartSeries{Labels: labels, Data: make([]int64, 0, len(labels))}
	for _, label := range labels {
		series.Data = append(series.Data, buckets[label])
	}
	return series
}

// callTypeSeries folds emotion buckets into the dashboard's call type
// categories: negative labels are High Priority, neutral is Normal, happy is
// Positive, anything else is Other.
func callTypeSeries(byLabel map[string]int64) dto.ChartSeries {
	types := map[string]int64{}
	for label, count := range byLabel {
		switch label {
		case entities.EmotionAngry, entities.EmotionFear, entities.EmotionSad:
			types["High Priority"] += count
		case entities.EmotionNeutral:
			types["Normal"] += count
		case entities.EmotionHappy:
			types["Positive"] += count
		default:
			types["Other"] += count
		}
	}
	return sortedSeries(types)
}
