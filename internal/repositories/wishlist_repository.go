package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"soravault/internal/models"
)

const wishlistColumns = `id, user_id, category, brand, model, reference, target_price, priority, url, notes, acquired_item_id, created_at`

type WishlistRepository struct {
	DB *sqlx.DB
}

func (r *WishlistRepository) Create(ctx context.Context, w models.WishlistItem) (models.WishlistItem, error) {
	var out models.WishlistItem
	err := r.DB.GetContext(ctx, &out, `
		INSERT INTO wishlist_items (user_id, category, brand, model, reference, target_price, priority, url, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+wishlistColumns,
		w.UserID, w.Category, w.Brand, w.Model, w.Reference, w.TargetPrice, w.Priority, w.URL, w.Notes)
	return out, dbError("create wishlist item", err)
}

func (r *WishlistRepository) List(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	out := []models.WishlistItem{}
	err := r.DB.SelectContext(ctx, &out, `
		SELECT `+wishlistColumns+` FROM wishlist_items
		WHERE user_id = $1
		ORDER BY acquired_item_id IS NOT NULL, priority DESC, created_at`, userID)
	return out, dbError("list wishlist", err)
}

func (r *WishlistRepository) Get(ctx context.Context, userID, id string) (models.WishlistItem, error) {
	var out models.WishlistItem
	err := r.DB.GetContext(ctx, &out, `SELECT `+wishlistColumns+` FROM wishlist_items WHERE id = $1 AND user_id = $2`, id, userID)
	return out, dbError("get wishlist item", err)
}

func (r *WishlistRepository) Update(ctx context.Context, w models.WishlistItem) (models.WishlistItem, error) {
	var out models.WishlistItem
	err := r.DB.GetContext(ctx, &out, `
		UPDATE wishlist_items SET category = $3, brand = $4, model = $5, reference = $6,
			target_price = $7, priority = $8, url = $9, notes = $10
		WHERE id = $1 AND user_id = $2
		RETURNING `+wishlistColumns,
		w.ID, w.UserID, w.Category, w.Brand, w.Model, w.Reference, w.TargetPrice, w.Priority, w.URL, w.Notes)
	return out, dbError("update wishlist item", err)
}

func (r *WishlistRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM wishlist_items WHERE id = $1 AND user_id = $2`, id, userID)
	return requireAffected("delete wishlist item", res, err)
}

// Acquire turns the wishlist entry into a collection item and links the two.
// The entry row is locked so two concurrent acquisitions cannot both succeed.
func (r *WishlistRepository) Acquire(ctx context.Context, userID, id string, item models.Item) (models.Item, models.WishlistItem, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return models.Item{}, models.WishlistItem{}, dbError("begin acquire", err)
	}
	defer tx.Rollback()

	var wish models.WishlistItem
	if err := tx.GetContext(ctx, &wish, `
		SELECT `+wishlistColumns+` FROM wishlist_items
		WHERE id = $1 AND user_id = $2
		FOR UPDATE`, id, userID); err != nil {
		return models.Item{}, models.WishlistItem{}, dbError("lock wishlist item", err)
	}
	if wish.AcquiredItemID != nil {
		return models.Item{}, models.WishlistItem{}, fmt.Errorf("acquire wishlist item: %w: already acquired", models.ErrConflict)
	}

	item.UserID = userID
	item.Category = wish.Category
	item.Brand = wish.Brand
	item.Model = wish.Model
	item.Reference = wish.Reference
	item.Status = models.StatusActive
	created, err := createItem(ctx, tx, item)
	if err != nil {
		return models.Item{}, models.WishlistItem{}, err
	}

	if err := tx.GetContext(ctx, &wish, `
		UPDATE wishlist_items SET acquired_item_id = $3
		WHERE id = $1 AND user_id = $2
		RETURNING `+wishlistColumns, id, userID, created.ID); err != nil {
		return models.Item{}, models.WishlistItem{}, dbError("link wishlist item", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Item{}, models.WishlistItem{}, dbError("commit acquire", err)
	}
	return created, wish, nil
}
