package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"soravault/internal/models"
	"soravault/internal/realtime"
	"soravault/internal/stats"
	"soravault/internal/timeutil"
	"soravault/utils"
)

const maxPhotoBytes = 10 << 20

type ItemService struct {
	Items       ItemStore
	Collections CollectionStore
	Wear        WearStore
	Water       WaterStore
	Storage     Uploader
	changes
}

func NewItemService(items ItemStore, collections CollectionStore, wear WearStore, water WaterStore, storage Uploader, pub realtime.Publisher, logger *slog.Logger) *ItemService {
	return &ItemService{
		Items:       items,
		Collections: collections,
		Wear:        wear,
		Water:       water,
		Storage:     storage,
		changes:     newChanges(pub, logger),
	}
}

func validateItem(it *models.Item) error {
	it.Brand = strings.TrimSpace(it.Brand)
	it.Model = strings.TrimSpace(it.Model)
	if err := required("brand", it.Brand); err != nil {
		return err
	}
	if err := required("model", it.Model); err != nil {
		return err
	}
	if !models.ValidCategory(it.Category) {
		return models.Invalid("category", "must be watch, sneaker or purse")
	}
	if err := nonNegative("purchase_price", it.PurchasePrice); err != nil {
		return err
	}
	if err := nonNegative("current_value", it.CurrentValue); err != nil {
		return err
	}
	if it.WaterResistanceM != nil && *it.WaterResistanceM < 0 {
		return models.Invalid("water_resistance_m", "must not be negative")
	}
	it.Reference = trimPtr(it.Reference)
	it.SerialNumber = trimPtr(it.SerialNumber)
	it.Nickname = trimPtr(it.Nickname)
	it.CollectionID = trimPtr(it.CollectionID)
	if it.Metadata == nil {
		it.Metadata = models.Metadata{}
	}
	return nil
}

func (s *ItemService) checkCollection(ctx context.Context, userID string, id *string) error {
	if id == nil {
		return nil
	}
	if _, err := s.Collections.Get(ctx, userID, *id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.Invalid("collection_id", "unknown collection")
		}
		return err
	}
	return nil
}

func (s *ItemService) Create(ctx context.Context, userID string, it models.Item) (models.Item, error) {
	if err := validateItem(&it); err != nil {
		return models.Item{}, err
	}
	if err := s.checkCollection(ctx, userID, it.CollectionID); err != nil {
		return models.Item{}, err
	}
	it.UserID = userID
	it.Status = models.StatusActive

	out, err := s.Items.Create(ctx, it)
	if err != nil {
		return models.Item{}, err
	}
	s.emit(ctx, "items", realtime.Insert, out.ID, userID)
	return out, nil
}

func (s *ItemService) List(ctx context.Context, userID string, f models.ItemFilter) ([]models.Item, error) {
	if f.Status != "" && !models.ValidStatus(f.Status) {
		return nil, models.Invalid("status", "unknown status")
	}
	if f.Category != "" && !models.ValidCategory(f.Category) {
		return nil, models.Invalid("category", "unknown category")
	}
	return s.Items.List(ctx, userID, f)
}

func (s *ItemService) Get(ctx context.Context, userID, id string) (models.Item, error) {
	return s.Items.Get(ctx, userID, id)
}

// Update edits the descriptive fields. A changed current value is stored
// as a manual valuation with its own price point.
func (s *ItemService) Update(ctx context.Context, userID, id string, it models.Item) (models.Item, error) {
	if err := validateItem(&it); err != nil {
		return models.Item{}, err
	}
	existing, err := s.Items.Get(ctx, userID, id)
	if err != nil {
		return models.Item{}, err
	}
	if err := s.checkCollection(ctx, userID, it.CollectionID); err != nil {
		return models.Item{}, err
	}
	it.ID, it.UserID = id, userID

	var value *float64
	if it.CurrentValue != nil && (existing.CurrentValue == nil || *existing.CurrentValue != *it.CurrentValue) {
		value = it.CurrentValue
	}
	out, err := s.Items.Update(ctx, it, value)
	if err != nil {
		return models.Item{}, err
	}
	s.emit(ctx, "items", realtime.Update, id, userID)
	return out, nil
}

func (s *ItemService) Delete(ctx context.Context, userID, id string) error {
	if err := s.Items.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.emit(ctx, "items", realtime.Delete, id, userID)
	return nil
}

// Sell marks the item as sold, traded or lost.
func (s *ItemService) Sell(ctx context.Context, userID, id string, req models.SellRequest) (models.Item, error) {
	if req.Status == "" {
		req.Status = models.StatusSold
	}
	if req.Status == models.StatusActive || !models.ValidStatus(req.Status) {
		return models.Item{}, models.Invalid("status", "must be sold, traded or lost")
	}
	if err := nonNegative("price", req.Price); err != nil {
		return models.Item{}, err
	}
	if req.Date.IsZero() {
		req.Date = models.NewDate(timeutil.Today())
	}
	it, err := s.Items.Get(ctx, userID, id)
	if err != nil {
		return models.Item{}, err
	}
	if it.PurchaseDate != nil && req.Date.Before(it.PurchaseDate.Time) {
		return models.Item{}, models.Invalid("date", "is before the purchase date")
	}
	out, err := s.Items.Sell(ctx, userID, id, req)
	if err != nil {
		return models.Item{}, err
	}
	s.emit(ctx, "items", realtime.Update, id, userID)
	return out, nil
}

func (s *ItemService) SetValue(ctx context.Context, userID, id string, value float64, source string) (models.Item, error) {
	if value < 0 {
		return models.Item{}, models.Invalid("value", "must not be negative")
	}
	out, err := s.Items.SetValue(ctx, userID, id, value, source)
	if err != nil {
		return models.Item{}, err
	}
	s.emit(ctx, "items", realtime.Update, id, userID)
	return out, nil
}

func (s *ItemService) PricePoints(ctx context.Context, userID, id string) ([]models.PricePoint, error) {
	return s.Items.PricePoints(ctx, userID, id)
}

// Photo stores an uploaded photo and makes it the item's image.
func (s *ItemService) Photo(ctx context.Context, userID, id string, data []byte) (models.Item, error) {
	if s.Storage == nil {
		return models.Item{}, fmt.Errorf("photo upload: %w: storage is not configured", models.ErrInvalidInput)
	}
	if len(data) == 0 || len(data) > maxPhotoBytes {
		return models.Item{}, models.Invalid("photo", "must be between 1 byte and 10 MB")
	}
	if !utils.IsImage(data) {
		return models.Item{}, models.Invalid("photo", "must be an image")
	}
	if _, err := s.Items.Get(ctx, userID, id); err != nil {
		return models.Item{}, err
	}
	url, err := s.Storage.Upload(ctx, "items/"+userID, data)
	if err != nil {
		return models.Item{}, err
	}
	out, err := s.Items.SetImage(ctx, userID, id, url)
	if err != nil {
		return models.Item{}, err
	}
	s.emit(ctx, "items", realtime.Update, id, userID)
	return out, nil
}

func (s *ItemService) Stats(ctx context.Context, userID, id string) (stats.ItemStats, error) {
	it, err := s.Items.Get(ctx, userID, id)
	if err != nil {
		return stats.ItemStats{}, err
	}
	wears, err := s.Wear.List(ctx, userID, models.WearFilter{ItemID: id})
	if err != nil {
		return stats.ItemStats{}, err
	}
	water, err := s.Water.List(ctx, userID, id)
	if err != nil {
		return stats.ItemStats{}, err
	}
	return stats.ForItem(it, wears, water, models.NewDate(timeutil.Today())), nil
}
