package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"soravault/internal/models"
)

const friendshipColumns = `id, requester_id, addressee_id, status, created_at, updated_at`

// friendIDs selects the ids of userID's accepted friends; $1 must be userID.
const friendIDs = `
	SELECT CASE WHEN f.requester_id = $1 THEN f.addressee_id ELSE f.requester_id END
	FROM friendships f
	WHERE f.status = 'accepted' AND (f.requester_id = $1 OR f.addressee_id = $1)`

type FriendshipRepository struct {
	DB *sqlx.DB
}

// Between returns the friendship row linking a and b in either direction.
func (r *FriendshipRepository) Between(ctx context.Context, a, b string) (models.Friendship, error) {
	var out models.Friendship
	err := r.DB.GetContext(ctx, &out, `
		SELECT `+friendshipColumns+` FROM friendships
		WHERE (requester_id = $1 AND addressee_id = $2) OR (requester_id = $2 AND addressee_id = $1)`, a, b)
	return out, dbError("get friendship", err)
}

func (r *FriendshipRepository) Get(ctx context.Context, id string) (models.Friendship, error) {
	var out models.Friendship
	err := r.DB.GetContext(ctx, &out, `SELECT `+friendshipColumns+` FROM friendships WHERE id = $1`, id)
	return out, dbError("get friendship", err)
}

func (r *FriendshipRepository) Create(ctx context.Context, requesterID, addresseeID string) (models.Friendship, error) {
	var out models.Friendship
	err := r.DB.GetContext(ctx, &out, `
		INSERT INTO friendships (requester_id, addressee_id) VALUES ($1, $2)
		RETURNING `+friendshipColumns, requesterID, addresseeID)
	return out, dbError("create friendship", err)
}

// Reopen resets a declined row into a fresh pending request from requesterID.
func (r *FriendshipRepository) Reopen(ctx context.Context, id, requesterID, addresseeID string) (models.Friendship, error) {
	var out models.Friendship
	err := r.DB.GetContext(ctx, &out, `
		UPDATE friendships SET requester_id = $2, addressee_id = $3, status = 'pending', updated_at = now()
		WHERE id = $1
		RETURNING `+friendshipColumns, id, requesterID, addresseeID)
	return out, dbError("reopen friendship", err)
}

func (r *FriendshipRepository) SetStatus(ctx context.Context, id, status string) (models.Friendship, error) {
	var out models.Friendship
	err := r.DB.GetContext(ctx, &out, `
		UPDATE friendships SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+friendshipColumns, id, status)
	return out, dbError("update friendship", err)
}

func (r *FriendshipRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM friendships WHERE id = $1`, id)
	return requireAffected("delete friendship", res, err)
}

func (r *FriendshipRepository) Friends(ctx context.Context, userID string) ([]models.Profile, error) {
	out := []models.Profile{}
	err := r.DB.SelectContext(ctx, &out, `
		SELECT `+profileColumns+` FROM profiles
		WHERE id IN (`+friendIDs+`)
		ORDER BY username`, userID)
	return out, dbError("list friends", err)
}

func (r *FriendshipRepository) Incoming(ctx context.Context, userID string) ([]models.FriendRequest, error) {
	out := []models.FriendRequest{}
	err := r.DB.SelectContext(ctx, &out, `
		SELECT f.id, f.requester_id, f.addressee_id, f.status, f.created_at, f.updated_at,
			COALESCE(p.display_name, p.username) AS requester_name
		FROM friendships f JOIN profiles p ON p.id = f.requester_id
		WHERE f.addressee_id = $1 AND f.status = 'pending'
		ORDER BY f.created_at DESC`, userID)
	return out, dbError("list friend requests", err)
}

func (r *FriendshipRepository) AreFriends(ctx context.Context, a, b string) (bool, error) {
	var ok bool
	err := r.DB.GetContext(ctx, &ok, `
		SELECT EXISTS (
			SELECT 1 FROM friendships
			WHERE status = 'accepted'
			  AND ((requester_id = $1 AND addressee_id = $2) OR (requester_id = $2 AND addressee_id = $1))
		)`, a, b)
	return ok, dbError("check friendship", err)
}
