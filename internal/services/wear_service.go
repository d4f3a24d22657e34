package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"soravault/internal/metrics"
	"soravault/internal/models"
	"soravault/internal/realtime"
	"soravault/internal/timeutil"
	"soravault/internal/wear"
)

type WearService struct {
	Wear   WearStore
	Items  ItemStore
	Trips  TripStore
	Events EventStore
	changes
}

func NewWearService(wearStore WearStore, items ItemStore, trips TripStore, events EventStore, pub realtime.Publisher, logger *slog.Logger) *WearService {
	return &WearService{
		Wear:    wearStore,
		Items:   items,
		Trips:   trips,
		Events:  events,
		changes: newChanges(pub, logger),
	}
}

func (s *WearService) validate(ctx context.Context, userID string, in *models.WearInput) error {
	if err := required("item_id", in.ItemID); err != nil {
		return err
	}
	if in.WornOn.IsZero() {
		return models.Invalid("worn_on", "is required")
	}
	in.Days = wear.RoundDays(in.Days)
	if !wear.ValidDays(in.Days) {
		return wear.ErrInvalidDays
	}
	if in.WornOn.After(models.NewDate(timeutil.Today()).Time) {
		return models.Invalid("worn_on", "is in the future")
	}
	in.TripID = trimPtr(in.TripID)
	in.EventID = trimPtr(in.EventID)
	in.Notes = trimPtr(in.Notes)

	item, err := s.Items.Get(ctx, userID, in.ItemID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.Invalid("item_id", "unknown item")
		}
		return err
	}
	if item.PurchaseDate != nil && in.WornOn.Before(item.PurchaseDate.Time) {
		return models.Invalid("worn_on", "is before the purchase date")
	}
	if item.Disposed() && item.SoldDate != nil && in.WornOn.After(item.SoldDate.Time) {
		return models.Invalid("worn_on", "is after the item left the collection")
	}

	if in.TripID != nil {
		if _, err := s.Trips.Get(ctx, userID, *in.TripID); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return models.Invalid("trip_id", "unknown trip")
			}
			return err
		}
	}
	if in.EventID != nil {
		if _, err := s.Events.Get(ctx, userID, *in.EventID); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return models.Invalid("event_id", "unknown event")
			}
			return err
		}
	}
	return nil
}

// planner builds the closure run inside the day lock. id is empty for a new
// entry; an entry already logged for the same item on that day is then
// updated in place.
func planner(id string, in models.WearInput) func([]models.WearEntry) (models.WearEntry, []wear.Adjustment, error) {
	return func(day []models.WearEntry) (models.WearEntry, []wear.Adjustment, error) {
		entry := models.WearEntry{
			ID:      id,
			ItemID:  in.ItemID,
			WornOn:  in.WornOn,
			Days:    in.Days,
			TripID:  in.TripID,
			EventID: in.EventID,
			Notes:   in.Notes,
		}

		for _, e := range day {
			if e.ItemID != in.ItemID || e.ID == id {
				continue
			}
			if id != "" {
				return models.WearEntry{}, nil, fmt.Errorf("%w: item already has an entry on %s", models.ErrConflict, in.WornOn)
			}
			entry.ID = e.ID
		}

		existing := make([]wear.Entry, 0, len(day))
		for _, e := range day {
			existing = append(existing, wear.Entry{ID: e.ID, Days: e.Days})
		}
		plan, err := wear.Balance(existing, wear.Entry{ID: entry.ID, Days: entry.Days})
		if err != nil {
			var capErr *models.CapacityError
			if errors.As(err, &capErr) {
				capErr.Date = in.WornOn
			}
			return models.WearEntry{}, nil, err
		}
		return entry, plan.Adjustments, nil
	}
}

// Record logs wear of an item on a day.
func (s *WearService) Record(ctx context.Context, userID string, in models.WearInput) (models.WearResult, error) {
	if err := s.validate(ctx, userID, &in); err != nil {
		return models.WearResult{}, err
	}
	plan := planner("", in)
	typ := realtime.Insert
	res, err := s.Wear.Save(ctx, userID, in.WornOn, func(day []models.WearEntry) (models.WearEntry, []wear.Adjustment, error) {
		entry, adjustments, err := plan(day)
		if entry.ID != "" {
			typ = realtime.Update
		}
		return entry, adjustments, err
	})
	if err != nil {
		return models.WearResult{}, err
	}
	s.published(ctx, userID, typ, res)
	return res, nil
}

// Update rewrites an entry. When the date moves, the new day is balanced;
// the old day only loses capacity and needs no check.
func (s *WearService) Update(ctx context.Context, userID, id string, in models.WearInput) (models.WearResult, error) {
	if _, err := s.Wear.Get(ctx, userID, id); err != nil {
		return models.WearResult{}, err
	}
	if err := s.validate(ctx, userID, &in); err != nil {
		return models.WearResult{}, err
	}
	res, err := s.Wear.Save(ctx, userID, in.WornOn, planner(id, in))
	if err != nil {
		return models.WearResult{}, err
	}
	s.published(ctx, userID, realtime.Update, res)
	return res, nil
}

func (s *WearService) published(ctx context.Context, userID, typ string, res models.WearResult) {
	metrics.AddWearAdjustments(len(res.Adjusted))
	s.emit(ctx, "wear_entries", typ, res.Entry.ID, userID)
	for _, adj := range res.Adjusted {
		s.emit(ctx, "wear_entries", realtime.Update, adj.ID, userID)
	}
}

func (s *WearService) Delete(ctx context.Context, userID, id string) error {
	if err := s.Wear.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.emit(ctx, "wear_entries", realtime.Delete, id, userID)
	return nil
}

func (s *WearService) List(ctx context.Context, userID string, f models.WearFilter) ([]models.WearEntry, error) {
	if f.From != nil && f.To != nil && f.To.Before(f.From.Time) {
		return nil, models.Invalid("to", "is before from")
	}
	return s.Wear.List(ctx, userID, f)
}

// Day returns a day's entries and how much of the day is still free.
func (s *WearService) Day(ctx context.Context, userID string, day models.Date) (models.WearDay, error) {
	entries, err := s.Wear.Day(ctx, userID, day)
	if err != nil {
		return models.WearDay{}, err
	}
	balance := make([]wear.Entry, 0, len(entries))
	for _, e := range entries {
		balance = append(balance, wear.Entry{ID: e.ID, Days: e.Days})
	}
	return models.WearDay{Date: day, Entries: entries, Remaining: wear.Remaining(balance)}, nil
}
