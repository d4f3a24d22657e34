package repositories

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"soravault/internal/models"
)

const itemColumns = `id, user_id, collection_id, category, brand, model, reference, serial_number, nickname,
	purchase_date, purchase_price, current_value, value_updated_at, condition, status, sold_date, sold_price,
	warranty_expiry, water_resistance_m, metadata, image_url, ai_image_url, notes, created_at, updated_at`

type ItemRepository struct {
	DB *sqlx.DB
}

// Create inserts an item and, when it opens with a value, its first price
// point in the same transaction.
func (r *ItemRepository) Create(ctx context.Context, it models.Item) (models.Item, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return models.Item{}, dbError("begin create item", err)
	}
	defer tx.Rollback()

	out, err := createItem(ctx, tx, it)
	if err != nil {
		return models.Item{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Item{}, dbError("commit create item", err)
	}
	return out, nil
}

func createItem(ctx context.Context, tx *sqlx.Tx, it models.Item) (models.Item, error) {
	var out models.Item
	err := tx.GetContext(ctx, &out, `
		INSERT INTO items (user_id, collection_id, category, brand, model, reference, serial_number, nickname,
			purchase_date, purchase_price, current_value, value_updated_at, condition, status,
			warranty_expiry, water_resistance_m, metadata, image_url, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			CASE WHEN $11::numeric IS NULL THEN NULL ELSE now() END,
			$12, $13, $14, $15, $16, $17, $18)
		RETURNING `+itemColumns,
		it.UserID, it.CollectionID, it.Category, it.Brand, it.Model, it.Reference, it.SerialNumber, it.Nickname,
		it.PurchaseDate, it.PurchasePrice, it.CurrentValue, it.Condition, it.Status,
		it.WarrantyExpiry, it.WaterResistanceM, it.Metadata, it.ImageURL, it.Notes)
	if err != nil {
		return models.Item{}, dbError("create item", err)
	}
	if it.CurrentValue != nil {
		if err := insertPricePoint(ctx, tx, out.ID, *it.CurrentValue, models.PriceSourceManual); err != nil {
			return models.Item{}, err
		}
	}
	return out, nil
}

func insertPricePoint(ctx context.Context, tx *sqlx.Tx, itemID string, value float64, source string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO price_points (item_id, value, source) VALUES ($1, $2, $3)`, itemID, value, source)
	return dbError("insert price point", err)
}

func (r *ItemRepository) List(ctx context.Context, userID string, f models.ItemFilter) ([]models.Item, error) {
	w := newWhere("user_id = ?", userID)
	w.addIf(f.CollectionID != "", "collection_id = ?", f.CollectionID)
	w.addIf(f.Status != "", "status = ?", f.Status)
	w.addIf(f.Category != "", "category = ?", f.Category)

	out := []models.Item{}
	err := r.DB.SelectContext(ctx, &out, `SELECT `+itemColumns+` FROM items`+w.sql()+` ORDER BY created_at DESC`, w.args...)
	return out, dbError("list items", err)
}

func (r *ItemRepository) Get(ctx context.Context, userID, id string) (models.Item, error) {
	var out models.Item
	err := r.DB.GetContext(ctx, &out, `SELECT `+itemColumns+` FROM items WHERE id = $1 AND user_id = $2`, id, userID)
	return out, dbError("get item", err)
}

// Update writes the editable fields. Valuation, sale and image fields have
// their own methods so a plain edit cannot clobber them; a non-nil value is
// stored with its price point in the same transaction as the edit.
func (r *ItemRepository) Update(ctx context.Context, it models.Item, value *float64) (models.Item, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return models.Item{}, dbError("begin update item", err)
	}
	defer tx.Rollback()

	var out models.Item
	err = tx.GetContext(ctx, &out, `
		UPDATE items SET
			collection_id = $3, category = $4, brand = $5, model = $6, reference = $7, serial_number = $8,
			nickname = $9, purchase_date = $10, purchase_price = $11, condition = $12,
			warranty_expiry = $13, water_resistance_m = $14, metadata = $15, notes = $16, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+itemColumns,
		it.ID, it.UserID, it.CollectionID, it.Category, it.Brand, it.Model, it.Reference, it.SerialNumber,
		it.Nickname, it.PurchaseDate, it.PurchasePrice, it.Condition,
		it.WarrantyExpiry, it.WaterResistanceM, it.Metadata, it.Notes)
	if err != nil {
		return models.Item{}, dbError("update item", err)
	}
	if value != nil {
		if out, err = setValue(ctx, tx, it.UserID, it.ID, *value, models.PriceSourceManual); err != nil {
			return models.Item{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Item{}, dbError("commit update item", err)
	}
	return out, nil
}

func (r *ItemRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM items WHERE id = $1 AND user_id = $2`, id, userID)
	return requireAffected("delete item", res, err)
}

func (r *ItemRepository) Sell(ctx context.Context, userID, id string, req models.SellRequest) (models.Item, error) {
	var out models.Item
	err := r.DB.GetContext(ctx, &out, `
		UPDATE items SET status = $3, sold_date = $4, sold_price = $5, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+itemColumns,
		id, userID, req.Status, req.Date, req.Price)
	return out, dbError("sell item", err)
}

func (r *ItemRepository) SetImage(ctx context.Context, userID, id, url string) (models.Item, error) {
	var out models.Item
	err := r.DB.GetContext(ctx, &out, `
		UPDATE items SET image_url = $3, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+itemColumns, id, userID, url)
	return out, dbError("set item image", err)
}

func (r *ItemRepository) SetAIImage(ctx context.Context, userID, id, url string) (models.Item, error) {
	var out models.Item
	err := r.DB.GetContext(ctx, &out, `
		UPDATE items SET ai_image_url = $3, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+itemColumns, id, userID, url)
	return out, dbError("set item ai image", err)
}

// SetValue stores a new valuation and its price point in one transaction.
func (r *ItemRepository) SetValue(ctx context.Context, userID, id string, value float64, source string) (models.Item, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return models.Item{}, dbError("begin set value", err)
	}
	defer tx.Rollback()

	out, err := setValue(ctx, tx, userID, id, value, source)
	if err != nil {
		return models.Item{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Item{}, dbError("commit set value", err)
	}
	return out, nil
}

func setValue(ctx context.Context, tx *sqlx.Tx, userID, id string, value float64, source string) (models.Item, error) {
	var out models.Item
	err := tx.GetContext(ctx, &out, `
		UPDATE items SET current_value = $3, value_updated_at = now(), updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+itemColumns, id, userID, value)
	if err != nil {
		return models.Item{}, dbError("set item value", err)
	}
	if err := insertPricePoint(ctx, tx, id, value, source); err != nil {
		return models.Item{}, err
	}
	return out, nil
}

func (r *ItemRepository) PricePoints(ctx context.Context, userID, id string) ([]models.PricePoint, error) {
	out := []models.PricePoint{}
	err := r.DB.SelectContext(ctx, &out, `
		SELECT p.id, p.item_id, p.value, p.source, p.recorded_at
		FROM price_points p JOIN items i ON i.id = p.item_id
		WHERE p.item_id = $1 AND i.user_id = $2
		ORDER BY p.recorded_at`, id, userID)
	return out, dbError("list price points", err)
}

func (r *ItemRepository) ListMissingAIImage(ctx context.Context, userID string, limit int) ([]models.Item, error) {
	out := []models.Item{}
	err := r.DB.SelectContext(ctx, &out, `
		SELECT `+itemColumns+` FROM items
		WHERE user_id = $1 AND ai_image_url IS NULL AND status = 'active'
		ORDER BY created_at
		LIMIT $2`, userID, limit)
	return out, dbError("list items missing ai image", err)
}

// BackfillCandidates returns items across all users that still lack an AI
// image. Used by the scheduler only.
func (r *ItemRepository) BackfillCandidates(ctx context.Context, limit int) ([]models.Item, error) {
	out := []models.Item{}
	err := r.DB.SelectContext(ctx, &out, `
		SELECT `+itemColumns+` FROM items
		WHERE ai_image_url IS NULL AND status = 'active'
		ORDER BY created_at
		LIMIT $1`, limit)
	return out, dbError("list backfill candidates", err)
}

// StaleValues returns active items whose valuation is missing or older than before.
func (r *ItemRepository) StaleValues(ctx context.Context, before time.Time, limit int) ([]models.Item, error) {
	out := []models.Item{}
	err := r.DB.SelectContext(ctx, &out, `
		SELECT `+itemColumns+` FROM items
		WHERE status = 'active' AND (value_updated_at IS NULL OR value_updated_at < $1)
		ORDER BY value_updated_at NULLS FIRST
		LIMIT $2`, before, limit)
	return out, dbError("list stale values", err)
}
