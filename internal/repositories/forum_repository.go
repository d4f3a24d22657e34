package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"soravault/internal/models"
)

const threadSelect = `
	SELECT t.id, t.user_id, t.category, t.title, t.body, t.sentiment, t.reply_count, t.last_reply_at, t.created_at,
		COALESCE(p.display_name, p.username) AS author_name
	FROM forum_threads t JOIN profiles p ON p.id = t.user_id`

const replySelect = `
	SELECT r.id, r.thread_id, r.user_id, r.body, r.created_at, COALESCE(p.display_name, p.username) AS author_name
	FROM forum_replies r JOIN profiles p ON p.id = r.user_id`

type ForumRepository struct {
	DB *sqlx.DB
}

func (r *ForumRepository) CreateThread(ctx context.Context, t models.ForumThread) (models.ForumThread, error) {
	var id string
	err := r.DB.GetContext(ctx, &id, `
		INSERT INTO forum_threads (user_id, category, title, body) VALUES ($1, $2, $3, $4)
		RETURNING id`, t.UserID, t.Category, t.Title, t.Body)
	if err != nil {
		return models.ForumThread{}, dbError("create thread", err)
	}
	return r.GetThread(ctx, id)
}

func (r *ForumRepository) GetThread(ctx context.Context, id string) (models.ForumThread, error) {
	var out models.ForumThread
	err := r.DB.GetContext(ctx, &out, threadSelect+` WHERE t.id = $1`, id)
	return out, dbError("get thread", err)
}

// ListThreads orders by latest activity. An empty category lists all.
func (r *ForumRepository) ListThreads(ctx context.Context, category string, limit int) ([]models.ForumThread, error) {
	out := []models.ForumThread{}
	err := r.DB.SelectContext(ctx, &out, threadSelect+`
		WHERE ($1::text = '' OR t.category = $1::text)
		ORDER BY COALESCE(t.last_reply_at, t.created_at) DESC
		LIMIT $2`, category, limit)
	return out, dbError("list threads", err)
}

func (r *ForumRepository) DeleteThread(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM forum_threads WHERE id = $1 AND user_id = $2`, id, userID)
	return requireAffected("delete thread", res, err)
}

func (r *ForumRepository) SetSentiment(ctx context.Context, id string, score float64) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE forum_threads SET sentiment = $2 WHERE id = $1`, id, score)
	return dbError("set thread sentiment", err)
}

// AddReply inserts the reply and bumps the thread counters together.
func (r *ForumRepository) AddReply(ctx context.Context, reply models.ForumReply) (models.ForumReply, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return models.ForumReply{}, dbError("begin reply", err)
	}
	defer tx.Rollback()

	var id string
	if err := tx.GetContext(ctx, &id, `
		INSERT INTO forum_replies (thread_id, user_id, body) VALUES ($1, $2, $3)
		RETURNING id`, reply.ThreadID, reply.UserID, reply.Body); err != nil {
		return models.ForumReply{}, dbError("create reply", err)
	}
	res, err := tx.ExecContext(ctx, `
		UPDATE forum_threads SET reply_count = reply_count + 1, last_reply_at = now()
		WHERE id = $1`, reply.ThreadID)
	if err := requireAffected("bump thread", res, err); err != nil {
		return models.ForumReply{}, err
	}

	var out models.ForumReply
	if err := tx.GetContext(ctx, &out, replySelect+` WHERE r.id = $1`, id); err != nil {
		return models.ForumReply{}, dbError("get reply", err)
	}
	if err := tx.Commit(); err != nil {
		return models.ForumReply{}, dbError("commit reply", err)
	}
	return out, nil
}

func (r *ForumRepository) Replies(ctx context.Context, threadID string) ([]models.ForumReply, error) {
	out := []models.ForumReply{}
	err := r.DB.SelectContext(ctx, &out, replySelect+` WHERE r.thread_id = $1 ORDER BY r.created_at`, threadID)
	return out, dbError("list replies", err)
}
