package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"soravault/internal/models"
)

const waterColumns = `id, user_id, item_id, used_on, activity, duration_minutes, depth_m, notes, created_at`

type WaterRepository struct {
	DB *sqlx.DB
}

func (r *WaterRepository) Create(ctx context.Context, u models.WaterUsage) (models.WaterUsage, error) {
	var out models.WaterUsage
	err := r.DB.GetContext(ctx, &out, `
		INSERT INTO water_usage (user_id, item_id, used_on, activity, duration_minutes, depth_m, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+waterColumns,
		u.UserID, u.ItemID, u.UsedOn, u.Activity, u.DurationMinutes, u.DepthM, u.Notes)
	return out, dbError("create water usage", err)
}

// List returns usage rows, optionally for a single item.
func (r *WaterRepository) List(ctx context.Context, userID, itemID string) ([]models.WaterUsage, error) {
	w := newWhere("user_id = ?", userID)
	w.addIf(itemID != "", "item_id = ?", itemID)

	out := []models.WaterUsage{}
	err := r.DB.SelectContext(ctx, &out, `SELECT `+waterColumns+` FROM water_usage`+w.sql()+` ORDER BY used_on DESC`, w.args...)
	return out, dbError("list water usage", err)
}

func (r *WaterRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM water_usage WHERE id = $1 AND user_id = $2`, id, userID)
	return requireAffected("delete water usage", res, err)
}
