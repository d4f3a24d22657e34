package repositories

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"soravault/internal/models"
)

const messageColumns = `id, sender_id, receiver_id, body, read_at, created_at`

type MessageRepository struct {
	DB *sqlx.DB
}

func (r *MessageRepository) Create(ctx context.Context, m models.Message) (models.Message, error) {
	var out models.Message
	err := r.DB.GetContext(ctx, &out, `
		INSERT INTO messages (sender_id, receiver_id, body) VALUES ($1, $2, $3)
		RETURNING `+messageColumns, m.SenderID, m.ReceiverID, m.Body)
	return out, dbError("create message", err)
}

// Conversations lists one row per counterpart, most recent first.
func (r *MessageRepository) Conversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	out := []models.Conversation{}
	err := r.DB.SelectContext(ctx, &out, `
		WITH latest AS (
			SELECT DISTINCT ON (counterpart_id)
				CASE WHEN m.sender_id = $1 THEN m.receiver_id ELSE m.sender_id END AS counterpart_id,
				m.body, m.sender_id, m.created_at
			FROM messages m
			WHERE m.sender_id = $1 OR m.receiver_id = $1
			ORDER BY counterpart_id, m.created_at DESC
		)
		SELECT l.counterpart_id,
			COALESCE(p.display_name, p.username) AS counterpart_name,
			l.body AS last_message,
			l.sender_id AS last_sender_id,
			l.created_at AS last_at,
			(SELECT count(*) FROM messages u
			 WHERE u.sender_id = l.counterpart_id AND u.receiver_id = $1 AND u.read_at IS NULL) AS unread_count
		FROM latest l JOIN profiles p ON p.id = l.counterpart_id
		ORDER BY l.created_at DESC`, userID)
	return out, dbError("list conversations", err)
}

// Thread returns messages between userID and otherID, newest first.
func (r *MessageRepository) Thread(ctx context.Context, userID, otherID string, before *time.Time, limit int) ([]models.Message, error) {
	out := []models.Message{}
	err := r.DB.SelectContext(ctx, &out, `
		SELECT `+messageColumns+` FROM messages
		WHERE ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
		  AND ($3::timestamptz IS NULL OR created_at < $3)
		ORDER BY created_at DESC
		LIMIT $4`, userID, otherID, before, limit)
	return out, dbError("list thread", err)
}

// MarkRead marks everything otherID sent to userID as read.
func (r *MessageRepository) MarkRead(ctx context.Context, userID, otherID string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE messages SET read_at = now()
		WHERE receiver_id = $1 AND sender_id = $2 AND read_at IS NULL`, userID, otherID)
	if err != nil {
		return 0, dbError("mark read", err)
	}
	n, err := res.RowsAffected()
	return n, dbError("mark read", err)
}
