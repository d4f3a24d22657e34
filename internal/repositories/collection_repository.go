package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"soravault/internal/models"
)

const collectionColumns = `id, user_id, name, category, description, is_public, created_at, updated_at`

type CollectionRepository struct {
	DB *sqlx.DB
}

func (r *CollectionRepository) Create(ctx context.Context, c models.Collection) (models.Collection, error) {
	var out models.Collection
	err := r.DB.GetContext(ctx, &out, `
		INSERT INTO collections (user_id, name, category, description, is_public)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+collectionColumns,
		c.UserID, c.Name, c.Category, c.Description, c.IsPublic)
	return out, dbError("create collection", err)
}

func (r *CollectionRepository) List(ctx context.Context, userID string) ([]models.Collection, error) {
	out := []models.Collection{}
	err := r.DB.SelectContext(ctx, &out,
		`SELECT `+collectionColumns+` FROM collections WHERE user_id = $1 ORDER BY created_at`, userID)
	return out, dbError("list collections", err)
}

func (r *CollectionRepository) Get(ctx context.Context, userID, id string) (models.Collection, error) {
	var out models.Collection
	err := r.DB.GetContext(ctx, &out,
		`SELECT `+collectionColumns+` FROM collections WHERE id = $1 AND user_id = $2`, id, userID)
	return out, dbError("get collection", err)
}

func (r *CollectionRepository) Update(ctx context.Context, c models.Collection) (models.Collection, error) {
	var out models.Collection
	err := r.DB.GetContext(ctx, &out, `
		UPDATE collections
		SET name = $3, category = $4, description = $5, is_public = $6, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+collectionColumns,
		c.ID, c.UserID, c.Name, c.Category, c.Description, c.IsPublic)
	return out, dbError("update collection", err)
}

// Delete removes the collection; its items stay and lose the reference.
func (r *CollectionRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM collections WHERE id = $1 AND user_id = $2`, id, userID)
	return requireAffected("delete collection", res, err)
}
