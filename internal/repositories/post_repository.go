package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"soravault/internal/models"
)

// postSelect expects the viewer id as $1.
const postSelect = `
	SELECT p.id, p.user_id, p.item_id, p.body, p.image_url, p.sentiment, p.created_at,
		COALESCE(pr.display_name, pr.username) AS author_name,
		(SELECT count(*) FROM post_likes l WHERE l.post_id = p.id) AS like_count,
		(SELECT count(*) FROM comments c WHERE c.post_id = p.id) AS comment_count,
		EXISTS (SELECT 1 FROM post_likes l WHERE l.post_id = p.id AND l.user_id = $1) AS liked_by_me
	FROM posts p JOIN profiles pr ON pr.id = p.user_id`

// visibleTo restricts posts to the viewer's own and their friends'.
const visibleTo = `(p.user_id = $1 OR p.user_id IN (` + friendIDs + `))`

const commentSelect = `
	SELECT c.id, c.post_id, c.user_id, c.body, c.created_at, COALESCE(pr.display_name, pr.username) AS author_name
	FROM comments c JOIN profiles pr ON pr.id = c.user_id`

type PostRepository struct {
	DB *sqlx.DB
}

func (r *PostRepository) Create(ctx context.Context, p models.Post) (models.Post, error) {
	var id string
	err := r.DB.GetContext(ctx, &id, `
		INSERT INTO posts (user_id, item_id, body, image_url) VALUES ($1, $2, $3, $4)
		RETURNING id`, p.UserID, p.ItemID, p.Body, p.ImageURL)
	if err != nil {
		return models.Post{}, dbError("create post", err)
	}
	return r.Get(ctx, p.UserID, id)
}

// Get returns a post if viewerID may see it.
func (r *PostRepository) Get(ctx context.Context, viewerID, id string) (models.Post, error) {
	var out models.Post
	err := r.DB.GetContext(ctx, &out, postSelect+` WHERE p.id = $2 AND `+visibleTo, viewerID, id)
	return out, dbError("get post", err)
}

func (r *PostRepository) Feed(ctx context.Context, viewerID string, q models.FeedQuery) ([]models.Post, error) {
	out := []models.Post{}
	err := r.DB.SelectContext(ctx, &out, postSelect+`
		WHERE `+visibleTo+` AND ($2::timestamptz IS NULL OR p.created_at < $2)
		ORDER BY p.created_at DESC
		LIMIT $3`, viewerID, q.Before, q.Limit)
	return out, dbError("load feed", err)
}

func (r *PostRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM posts WHERE id = $1 AND user_id = $2`, id, userID)
	return requireAffected("delete post", res, err)
}

func (r *PostRepository) SetSentiment(ctx context.Context, id string, score float64) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE posts SET sentiment = $2 WHERE id = $1`, id, score)
	return dbError("set post sentiment", err)
}

// Like is idempotent: liking twice keeps a single row.
func (r *PostRepository) Like(ctx context.Context, userID, postID string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)
		ON CONFLICT (post_id, user_id) DO NOTHING`, postID, userID)
	return dbError("like post", err)
}

func (r *PostRepository) Unlike(ctx context.Context, userID, postID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	return dbError("unlike post", err)
}

func (r *PostRepository) AddComment(ctx context.Context, c models.Comment) (models.Comment, error) {
	var id string
	err := r.DB.GetContext(ctx, &id, `
		INSERT INTO comments (post_id, user_id, body) VALUES ($1, $2, $3)
		RETURNING id`, c.PostID, c.UserID, c.Body)
	if err != nil {
		return models.Comment{}, dbError("create comment", err)
	}
	var out models.Comment
	err = r.DB.GetContext(ctx, &out, commentSelect+` WHERE c.id = $1`, id)
	return out, dbError("get comment", err)
}

func (r *PostRepository) Comments(ctx context.Context, postID string) ([]models.Comment, error) {
	out := []models.Comment{}
	err := r.DB.SelectContext(ctx, &out, commentSelect+` WHERE c.post_id = $1 ORDER BY c.created_at`, postID)
	return out, dbError("list comments", err)
}

func (r *PostRepository) DeleteComment(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM comments WHERE id = $1 AND user_id = $2`, id, userID)
	return requireAffected("delete comment", res, err)
}
