package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"soravault/internal/models"
	"soravault/internal/realtime"
)

type WaterService struct {
	Water WaterStore
	Items ItemStore
	changes
}

func NewWaterService(water WaterStore, items ItemStore, pub realtime.Publisher, logger *slog.Logger) *WaterService {
	return &WaterService{Water: water, Items: items, changes: newChanges(pub, logger)}
}

// Record logs water exposure. Going deeper than the item's rated water
// resistance is allowed but comes back with a warning.
func (s *WaterService) Record(ctx context.Context, userID string, u models.WaterUsage) (models.WaterResult, error) {
	if err := required("item_id", u.ItemID); err != nil {
		return models.WaterResult{}, err
	}
	if u.UsedOn.IsZero() {
		return models.WaterResult{}, models.Invalid("used_on", "is required")
	}
	if !models.ValidWaterActivity(u.Activity) {
		return models.WaterResult{}, models.Invalid("activity", "must be swim, dive, shower, rain or other")
	}
	if u.DurationMinutes != nil && *u.DurationMinutes < 0 {
		return models.WaterResult{}, models.Invalid("duration_minutes", "must not be negative")
	}
	if err := nonNegative("depth_m", u.DepthM); err != nil {
		return models.WaterResult{}, err
	}
	u.Notes = trimPtr(u.Notes)

	item, err := s.Items.Get(ctx, userID, u.ItemID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.WaterResult{}, models.Invalid("item_id", "unknown item")
		}
		return models.WaterResult{}, err
	}

	u.UserID = userID
	out, err := s.Water.Create(ctx, u)
	if err != nil {
		return models.WaterResult{}, err
	}
	s.emit(ctx, "water_usage", realtime.Insert, out.ID, userID)
	return models.WaterResult{Usage: out, Warning: depthWarning(item, u.DepthM)}, nil
}

func depthWarning(item models.Item, depth *float64) string {
	if depth == nil || item.WaterResistanceM == nil {
		return ""
	}
	if *depth > float64(*item.WaterResistanceM) {
		return fmt.Sprintf("%s is rated to %dm; logged depth was %.1fm", item.DisplayName(), *item.WaterResistanceM, *depth)
	}
	return ""
}

func (s *WaterService) List(ctx context.Context, userID, itemID string) ([]models.WaterUsage, error) {
	return s.Water.List(ctx, userID, itemID)
}

func (s *WaterService) Delete(ctx context.Context, userID, id string) error {
	if err := s.Water.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.emit(ctx, "water_usage", realtime.Delete, id, userID)
	return nil
}
