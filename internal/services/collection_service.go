package services

import (
	"context"
	"log/slog"
	"strings"

	"soravault/internal/models"
	"soravault/internal/realtime"
)

type CollectionService struct {
	Collections CollectionStore
	changes
}

func NewCollectionService(store CollectionStore, pub realtime.Publisher, logger *slog.Logger) *CollectionService {
	return &CollectionService{Collections: store, changes: newChanges(pub, logger)}
}

func validateCollection(c *models.Collection) error {
	c.Name = strings.TrimSpace(c.Name)
	if err := required("name", c.Name); err != nil {
		return err
	}
	if !models.ValidCategory(c.Category) {
		return models.Invalid("category", "must be watch, sneaker or purse")
	}
	c.Description = trimPtr(c.Description)
	return nil
}

func (s *CollectionService) Create(ctx context.Context, userID string, c models.Collection) (models.Collection, error) {
	if err := validateCollection(&c); err != nil {
		return models.Collection{}, err
	}
	c.UserID = userID
	out, err := s.Collections.Create(ctx, c)
	if err != nil {
		return models.Collection{}, err
	}
	s.emit(ctx, "collections", realtime.Insert, out.ID, userID)
	return out, nil
}

func (s *CollectionService) List(ctx context.Context, userID string) ([]models.Collection, error) {
	return s.Collections.List(ctx, userID)
}

func (s *CollectionService) Get(ctx context.Context, userID, id string) (models.Collection, error) {
	return s.Collections.Get(ctx, userID, id)
}

func (s *CollectionService) Update(ctx context.Context, userID, id string, c models.Collection) (models.Collection, error) {
	if err := validateCollection(&c); err != nil {
		return models.Collection{}, err
	}
	c.ID, c.UserID = id, userID
	out, err := s.Collections.Update(ctx, c)
	if err != nil {
		return models.Collection{}, err
	}
	s.emit(ctx, "collections", realtime.Update, id, userID)
	return out, nil
}

// Delete removes the collection. Its items stay and lose their collection.
func (s *CollectionService) Delete(ctx context.Context, userID, id string) error {
	if err := s.Collections.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.emit(ctx, "collections", realtime.Delete, id, userID)
	return nil
}
