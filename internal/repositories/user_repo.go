package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"soravault/internal/models"
)

const profileColumns = `id, username, display_name, avatar_url, bio, created_at`

type ProfileRepository struct {
	DB *sqlx.DB
}

func (r *ProfileRepository) Get(ctx context.Context, id string) (models.Profile, error) {
	var p models.Profile
	err := r.DB.GetContext(ctx, &p, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	return p, dbError("get profile", err)
}

// Ensure creates a profile row for a user seen for the first time. The
// username defaults to a value derived from the id; existing rows are kept.
func (r *ProfileRepository) Ensure(ctx context.Context, id, username string) (models.Profile, error) {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO profiles (id, username) VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING`, id, username)
	if err != nil {
		return models.Profile{}, dbError("ensure profile", err)
	}
	return r.Get(ctx, id)
}

func (r *ProfileRepository) Update(ctx context.Context, id string, u models.ProfileUpdate) (models.Profile, error) {
	var p models.Profile
	err := r.DB.GetContext(ctx, &p, `
		UPDATE profiles SET
			username     = COALESCE($2, username),
			display_name = COALESCE($3, display_name),
			avatar_url   = COALESCE($4, avatar_url),
			bio          = COALESCE($5, bio)
		WHERE id = $1
		RETURNING `+profileColumns,
		id, u.Username, u.DisplayName, u.AvatarURL, u.Bio)
	return p, dbError("update profile", err)
}

// Search matches username or display name by prefix, case-insensitively.
func (r *ProfileRepository) Search(ctx context.Context, query, excludeID string, limit int) ([]models.Profile, error) {
	profiles := []models.Profile{}
	err := r.DB.SelectContext(ctx, &profiles, `
		SELECT `+profileColumns+` FROM profiles
		WHERE id <> $1 AND (username ILIKE $2 OR display_name ILIKE $2)
		ORDER BY username
		LIMIT $3`, excludeID, escapeLike(query)+"%", limit)
	return profiles, dbError("search profiles", err)
}
