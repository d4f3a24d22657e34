package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"soravault/internal/models"
)

const (
	tripColumns  = `id, user_id, name, location, start_date, end_date, purpose, notes, created_at`
	eventColumns = `id, user_id, name, location, event_date, notes, created_at`
)

type TripRepository struct {
	DB *sqlx.DB
}

func (r *TripRepository) Create(ctx context.Context, t models.Trip) (models.Trip, error) {
	var out models.Trip
	err := r.DB.GetContext(ctx, &out, `
		INSERT INTO trips (user_id, name, location, start_date, end_date, purpose, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+tripColumns,
		t.UserID, t.Name, t.Location, t.StartDate, t.EndDate, t.Purpose, t.Notes)
	return out, dbError("create trip", err)
}

func (r *TripRepository) List(ctx context.Context, userID string) ([]models.Trip, error) {
	out := []models.Trip{}
	err := r.DB.SelectContext(ctx, &out, `SELECT `+tripColumns+` FROM trips WHERE user_id = $1 ORDER BY start_date DESC`, userID)
	return out, dbError("list trips", err)
}

func (r *TripRepository) Get(ctx context.Context, userID, id string) (models.Trip, error) {
	var out models.Trip
	err := r.DB.GetContext(ctx, &out, `SELECT `+tripColumns+` FROM trips WHERE id = $1 AND user_id = $2`, id, userID)
	return out, dbError("get trip", err)
}

func (r *TripRepository) Update(ctx context.Context, t models.Trip) (models.Trip, error) {
	var out models.Trip
	err := r.DB.GetContext(ctx, &out, `
		UPDATE trips SET name = $3, location = $4, start_date = $5, end_date = $6, purpose = $7, notes = $8
		WHERE id = $1 AND user_id = $2
		RETURNING `+tripColumns,
		t.ID, t.UserID, t.Name, t.Location, t.StartDate, t.EndDate, t.Purpose, t.Notes)
	return out, dbError("update trip", err)
}

func (r *TripRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM trips WHERE id = $1 AND user_id = $2`, id, userID)
	return requireAffected("delete trip", res, err)
}

type EventRepository struct {
	DB *sqlx.DB
}

func (r *EventRepository) Create(ctx context.Context, e models.Event) (models.Event, error) {
	var out models.Event
	err := r.DB.GetContext(ctx, &out, `
		INSERT INTO events (user_id, name, location, event_date, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+eventColumns,
		e.UserID, e.Name, e.Location, e.EventDate, e.Notes)
	return out, dbError("create event", err)
}

func (r *EventRepository) List(ctx context.Context, userID string) ([]models.Event, error) {
	out := []models.Event{}
	err := r.DB.SelectContext(ctx, &out, `SELECT `+eventColumns+` FROM events WHERE user_id = $1 ORDER BY event_date DESC`, userID)
	return out, dbError("list events", err)
}

func (r *EventRepository) Get(ctx context.Context, userID, id string) (models.Event, error) {
	var out models.Event
	err := r.DB.GetContext(ctx, &out, `SELECT `+eventColumns+` FROM events WHERE id = $1 AND user_id = $2`, id, userID)
	return out, dbError("get event", err)
}

func (r *EventRepository) Update(ctx context.Context, e models.Event) (models.Event, error) {
	var out models.Event
	err := r.DB.GetContext(ctx, &out, `
		UPDATE events SET name = $3, location = $4, event_date = $5, notes = $6
		WHERE id = $1 AND user_id = $2
		RETURNING `+eventColumns,
		e.ID, e.UserID, e.Name, e.Location, e.EventDate, e.Notes)
	return out, dbError("update event", err)
}

func (r *EventRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1 AND user_id = $2`, id, userID)
	return requireAffected("delete event", res, err)
}
