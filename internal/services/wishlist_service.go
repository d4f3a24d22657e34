package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"soravault/internal/models"
	"soravault/internal/realtime"
)

type WishlistService struct {
	Wishlist    WishlistStore
	Collections CollectionStore
	changes
}

func NewWishlistService(wishlist WishlistStore, collections CollectionStore, pub realtime.Publisher, logger *slog.Logger) *WishlistService {
	return &WishlistService{Wishlist: wishlist, Collections: collections, changes: newChanges(pub, logger)}
}

func validateWish(w *models.WishlistItem) error {
	w.Brand = strings.TrimSpace(w.Brand)
	w.Model = strings.TrimSpace(w.Model)
	if err := required("brand", w.Brand); err != nil {
		return err
	}
	if err := required("model", w.Model); err != nil {
		return err
	}
	if !models.ValidCategory(w.Category) {
		return models.Invalid("category", "must be watch, sneaker or purse")
	}
	if err := nonNegative("target_price", w.TargetPrice); err != nil {
		return err
	}
	if w.Priority == 0 {
		w.Priority = 3
	}
	if w.Priority < 1 || w.Priority > 5 {
		return models.Invalid("priority", "must be between 1 and 5")
	}
	w.Reference = trimPtr(w.Reference)
	w.URL = trimPtr(w.URL)
	w.Notes = trimPtr(w.Notes)
	return nil
}

func (s *WishlistService) Create(ctx context.Context, userID string, w models.WishlistItem) (models.WishlistItem, error) {
	if err := validateWish(&w); err != nil {
		return models.WishlistItem{}, err
	}
	w.UserID = userID
	w.AcquiredItemID = nil
	out, err := s.Wishlist.Create(ctx, w)
	if err != nil {
		return models.WishlistItem{}, err
	}
	s.emit(ctx, "wishlist_items", realtime.Insert, out.ID, userID)
	return out, nil
}

func (s *WishlistService) List(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	return s.Wishlist.List(ctx, userID)
}

func (s *WishlistService) Update(ctx context.Context, userID, id string, w models.WishlistItem) (models.WishlistItem, error) {
	if err := validateWish(&w); err != nil {
		return models.WishlistItem{}, err
	}
	w.ID, w.UserID = id, userID
	out, err := s.Wishlist.Update(ctx, w)
	if err != nil {
		return models.WishlistItem{}, err
	}
	s.emit(ctx, "wishlist_items", realtime.Update, id, userID)
	return out, nil
}

func (s *WishlistService) Delete(ctx context.Context, userID, id string) error {
	if err := s.Wishlist.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.emit(ctx, "wishlist_items", realtime.Delete, id, userID)
	return nil
}

// Acquire moves a wishlist entry into the collection as a new active item.
func (s *WishlistService) Acquire(ctx context.Context, userID, id string, req models.AcquireRequest) (models.Item, error) {
	if err := nonNegative("purchase_price", req.PurchasePrice); err != nil {
		return models.Item{}, err
	}
	req.CollectionID = trimPtr(req.CollectionID)
	if req.CollectionID != nil {
		if _, err := s.Collections.Get(ctx, userID, *req.CollectionID); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return models.Item{}, models.Invalid("collection_id", "unknown collection")
			}
			return models.Item{}, err
		}
	}

	item := models.Item{
		CollectionID:  req.CollectionID,
		PurchasePrice: req.PurchasePrice,
		PurchaseDate:  req.PurchaseDate,
		Metadata:      models.Metadata{},
	}
	created, wish, err := s.Wishlist.Acquire(ctx, userID, id, item)
	if err != nil {
		return models.Item{}, err
	}
	s.emit(ctx, "items", realtime.Insert, created.ID, userID)
	s.emit(ctx, "wishlist_items", realtime.Update, wish.ID, userID)
	return created, nil
}
