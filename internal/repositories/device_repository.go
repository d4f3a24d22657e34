package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"soravault/internal/models"
)

type DeviceRepository struct {
	DB *sqlx.DB
}

// Upsert registers token for userID, moving it over if another account held it.
func (r *DeviceRepository) Upsert(ctx context.Context, d models.DeviceToken) (models.DeviceToken, error) {
	var out models.DeviceToken
	err := r.DB.GetContext(ctx, &out, `
		INSERT INTO device_tokens (token, user_id, platform) VALUES ($1, $2, $3)
		ON CONFLICT (token) DO UPDATE SET user_id = EXCLUDED.user_id, platform = EXCLUDED.platform, updated_at = now()
		RETURNING user_id, token, platform, updated_at`, d.Token, d.UserID, d.Platform)
	return out, dbError("upsert device token", err)
}

func (r *DeviceRepository) Tokens(ctx context.Context, userID string) ([]string, error) {
	out := []string{}
	err := r.DB.SelectContext(ctx, &out, `SELECT token FROM device_tokens WHERE user_id = $1`, userID)
	return out, dbError("list device tokens", err)
}

func (r *DeviceRepository) DeleteTokens(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM device_tokens WHERE token IN (?)`, tokens)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, r.DB.Rebind(query), args...)
	return dbError("delete device tokens", err)
}
