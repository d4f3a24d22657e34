package services

import (
	"context"
	"log/slog"
	"strings"

	"soravault/internal/models"
	"soravault/internal/realtime"
)

type TripService struct {
	Trips  TripStore
	Events EventStore
	Wear   WearStore
	changes
}

func NewTripService(trips TripStore, events EventStore, wear WearStore, pub realtime.Publisher, logger *slog.Logger) *TripService {
	return &TripService{Trips: trips, Events: events, Wear: wear, changes: newChanges(pub, logger)}
}

func validateTrip(t *models.Trip) error {
	t.Name = strings.TrimSpace(t.Name)
	if err := required("name", t.Name); err != nil {
		return err
	}
	if t.StartDate.IsZero() {
		return models.Invalid("start_date", "is required")
	}
	if t.EndDate.IsZero() {
		t.EndDate = t.StartDate
	}
	if t.EndDate.Before(t.StartDate.Time) {
		return models.Invalid("end_date", "is before start_date")
	}
	t.Location = trimPtr(t.Location)
	t.Purpose = trimPtr(t.Purpose)
	t.Notes = trimPtr(t.Notes)
	return nil
}

func (s *TripService) CreateTrip(ctx context.Context, userID string, t models.Trip) (models.Trip, error) {
	if err := validateTrip(&t); err != nil {
		return models.Trip{}, err
	}
	t.UserID = userID
	out, err := s.Trips.Create(ctx, t)
	if err != nil {
		return models.Trip{}, err
	}
	s.emit(ctx, "trips", realtime.Insert, out.ID, userID)
	return out, nil
}

func (s *TripService) ListTrips(ctx context.Context, userID string) ([]models.Trip, error) {
	return s.Trips.List(ctx, userID)
}

func (s *TripService) GetTrip(ctx context.Context, userID, id string) (models.Trip, error) {
	return s.Trips.Get(ctx, userID, id)
}

func (s *TripService) UpdateTrip(ctx context.Context, userID, id string, t models.Trip) (models.Trip, error) {
	if err := validateTrip(&t); err != nil {
		return models.Trip{}, err
	}
	t.ID, t.UserID = id, userID
	out, err := s.Trips.Update(ctx, t)
	if err != nil {
		return models.Trip{}, err
	}
	s.emit(ctx, "trips", realtime.Update, id, userID)
	return out, nil
}

func (s *TripService) DeleteTrip(ctx context.Context, userID, id string) error {
	if err := s.Trips.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.emit(ctx, "trips", realtime.Delete, id, userID)
	return nil
}

// TripWear lists the wear entries linked to a trip.
func (s *TripService) TripWear(ctx context.Context, userID, id string) ([]models.WearEntry, error) {
	if _, err := s.Trips.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.Wear.List(ctx, userID, models.WearFilter{TripID: id})
}

func validateEvent(e *models.Event) error {
	e.Name = strings.TrimSpace(e.Name)
	if err := required("name", e.Name); err != nil {
		return err
	}
	if e.EventDate.IsZero() {
		return models.Invalid("event_date", "is required")
	}
	e.Location = trimPtr(e.Location)
	e.Notes = trimPtr(e.Notes)
	return nil
}

func (s *TripService) CreateEvent(ctx context.Context, userID string, e models.Event) (models.Event, error) {
	if err := validateEvent(&e); err != nil {
		return models.Event{}, err
	}
	e.UserID = userID
	out, err := s.Events.Create(ctx, e)
	if err != nil {
		return models.Event{}, err
	}
	s.emit(ctx, "events", realtime.Insert, out.ID, userID)
	return out, nil
}

func (s *TripService) ListEvents(ctx context.Context, userID string) ([]models.Event, error) {
	return s.Events.List(ctx, userID)
}

func (s *TripService) GetEvent(ctx context.Context, userID, id string) (models.Event, error) {
	return s.Events.Get(ctx, userID, id)
}

func (s *TripService) UpdateEvent(ctx context.Context, userID, id string, e models.Event) (models.Event, error) {
	if err := validateEvent(&e); err != nil {
		return models.Event{}, err
	}
	e.ID, e.UserID = id, userID
	out, err := s.Events.Update(ctx, e)
	if err != nil {
		return models.Event{}, err
	}
	s.emit(ctx, "events", realtime.Update, id, userID)
	return out, nil
}

func (s *TripService) DeleteEvent(ctx context.Context, userID, id string) error {
	if err := s.Events.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.emit(ctx, "events", realtime.Delete, id, userID)
	return nil
}
