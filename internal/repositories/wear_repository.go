package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"soravault/internal/models"
	"soravault/internal/wear"
)

const wearColumns = `id, user_id, item_id, worn_on, days, trip_id, event_id, notes, created_at`

// WearPlanner inspects the entries already logged for a day and returns the
// entry to save (empty ID means insert) plus the downgrades to apply first.
type WearPlanner func(day []models.WearEntry) (models.WearEntry, []wear.Adjustment, error)

type WearRepository struct {
	DB *sqlx.DB
}

func dayLockKey(userID string, day models.Date) string {
	return fmt.Sprintf("wear:%s:%s", userID, day)
}

// Save runs plan while holding a transaction-scoped advisory lock on the
// user's day, so concurrent writes for the same day are serialised.
func (r *WearRepository) Save(ctx context.Context, userID string, day models.Date, plan WearPlanner) (models.WearResult, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return models.WearResult{}, dbError("begin wear", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, dayLockKey(userID, day)); err != nil {
		return models.WearResult{}, dbError("lock wear day", err)
	}

	existing := []models.WearEntry{}
	if err := tx.SelectContext(ctx, &existing, `
		SELECT `+wearColumns+` FROM wear_entries
		WHERE user_id = $1 AND worn_on = $2
		ORDER BY created_at`, userID, day); err != nil {
		return models.WearResult{}, dbError("load wear day", err)
	}

	entry, adjustments, err := plan(existing)
	if err != nil {
		return models.WearResult{}, err
	}

	result := models.WearResult{Adjusted: []models.WearEntry{}}
	for _, adj := range adjustments {
		var updated models.WearEntry
		if err := tx.GetContext(ctx, &updated, `
			UPDATE wear_entries SET days = $3 WHERE id = $1 AND user_id = $2
			RETURNING `+wearColumns, adj.ID, userID, adj.To); err != nil {
			return models.WearResult{}, dbError("adjust wear entry", err)
		}
		result.Adjusted = append(result.Adjusted, updated)
	}

	if entry.ID == "" {
		err = tx.GetContext(ctx, &result.Entry, `
			INSERT INTO wear_entries (user_id, item_id, worn_on, days, trip_id, event_id, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+wearColumns,
			userID, entry.ItemID, day, entry.Days, entry.TripID, entry.EventID, entry.Notes)
	} else {
		err = tx.GetContext(ctx, &result.Entry, `
			UPDATE wear_entries SET item_id = $3, worn_on = $4, days = $5, trip_id = $6, event_id = $7, notes = $8
			WHERE id = $1 AND user_id = $2
			RETURNING `+wearColumns,
			entry.ID, userID, entry.ItemID, day, entry.Days, entry.TripID, entry.EventID, entry.Notes)
	}
	if err != nil {
		return models.WearResult{}, dbError("save wear entry", err)
	}

	if err := tx.Commit(); err != nil {
		return models.WearResult{}, dbError("commit wear", err)
	}
	return result, nil
}

func (r *WearRepository) Get(ctx context.Context, userID, id string) (models.WearEntry, error) {
	var out models.WearEntry
	err := r.DB.GetContext(ctx, &out, `SELECT `+wearColumns+` FROM wear_entries WHERE id = $1 AND user_id = $2`, id, userID)
	return out, dbError("get wear entry", err)
}

func (r *WearRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM wear_entries WHERE id = $1 AND user_id = $2`, id, userID)
	return requireAffected("delete wear entry", res, err)
}

func (r *WearRepository) List(ctx context.Context, userID string, f models.WearFilter) ([]models.WearEntry, error) {
	w := newWhere("user_id = ?", userID)
	w.addIf(f.From != nil, "worn_on >= ?", f.From)
	w.addIf(f.To != nil, "worn_on <= ?", f.To)
	w.addIf(f.ItemID != "", "item_id = ?", f.ItemID)
	w.addIf(f.TripID != "", "trip_id = ?", f.TripID)

	out := []models.WearEntry{}
	err := r.DB.SelectContext(ctx, &out, `SELECT `+wearColumns+` FROM wear_entries`+w.sql()+` ORDER BY worn_on DESC, created_at`, w.args...)
	return out, dbError("list wear entries", err)
}

func (r *WearRepository) Day(ctx context.Context, userID string, day models.Date) ([]models.WearEntry, error) {
	out := []models.WearEntry{}
	err := r.DB.SelectContext(ctx, &out, `
		SELECT `+wearColumns+` FROM wear_entries
		WHERE user_id = $1 AND worn_on = $2
		ORDER BY created_at`, userID, day)
	return out, dbError("list wear day", err)
}
