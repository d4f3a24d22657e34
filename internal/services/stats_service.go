package services

import (
	"context"

	"soravault/internal/models"
	"soravault/internal/stats"
	"soravault/internal/timeutil"
)

type StatsService struct {
	Items       ItemStore
	Collections CollectionStore
	Wear        WearStore
	Water       WaterStore
}

// Overview summarises every item the user owns or has owned.
func (s *StatsService) Overview(ctx context.Context, userID string) (stats.Summary, error) {
	return s.summarize(ctx, userID, models.ItemFilter{})
}

func (s *StatsService) Collection(ctx context.Context, userID, id string) (stats.Summary, error) {
	if _, err := s.Collections.Get(ctx, userID, id); err != nil {
		return stats.Summary{}, err
	}
	return s.summarize(ctx, userID, models.ItemFilter{CollectionID: id})
}

func (s *StatsService) summarize(ctx context.Context, userID string, f models.ItemFilter) (stats.Summary, error) {
	items, err := s.Items.List(ctx, userID, f)
	if err != nil {
		return stats.Summary{}, err
	}
	wears, err := s.Wear.List(ctx, userID, models.WearFilter{})
	if err != nil {
		return stats.Summary{}, err
	}
	water, err := s.Water.List(ctx, userID, "")
	if err != nil {
		return stats.Summary{}, err
	}
	return stats.Summarize(items, wears, water, models.NewDate(timeutil.Today())), nil
}
