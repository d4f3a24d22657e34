package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"soravault/internal/ai"
	"soravault/internal/models"
	"soravault/internal/realtime"
)

const (
	maxPostLength    = 2000
	maxCommentLength = 1000
)

// SentimentScorer scores free text. The AI client implements it.
type SentimentScorer interface {
	Enabled() bool
	Sentiment(ctx context.Context, text string) (ai.Sentiment, error)
}

type PostService struct {
	Posts      PostStore
	Items      ItemStore
	Sentiment  SentimentScorer
	Background *Background
	changes
}

func NewPostService(posts PostStore, items ItemStore, scorer SentimentScorer, bg *Background, pub realtime.Publisher, logger *slog.Logger) *PostService {
	return &PostService{
		Posts:      posts,
		Items:      items,
		Sentiment:  scorer,
		Background: bg,
		changes:    newChanges(pub, logger),
	}
}

func checkBody(field, body string, limit int) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", models.Invalid(field, "is required")
	}
	if utf8.RuneCountInString(body) > limit {
		return "", models.Invalid(field, "is too long")
	}
	return body, nil
}

func (s *PostService) Create(ctx context.Context, userID string, p models.Post) (models.Post, error) {
	body, err := checkBody("body", p.Body, maxPostLength)
	if err != nil {
		return models.Post{}, err
	}
	p.Body = body
	p.ItemID = trimPtr(p.ItemID)
	p.ImageURL = trimPtr(p.ImageURL)
	if p.ItemID != nil {
		if _, err := s.Items.Get(ctx, userID, *p.ItemID); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return models.Post{}, models.Invalid("item_id", "unknown item")
			}
			return models.Post{}, err
		}
	}
	p.UserID = userID

	out, err := s.Posts.Create(ctx, p)
	if err != nil {
		return models.Post{}, err
	}
	s.emit(ctx, "posts", realtime.Insert, out.ID, userID)
	scoreLater(ctx, s.Background, s.Sentiment, "post", out.Body, func(ctx context.Context, score float64) error {
		return s.Posts.SetSentiment(ctx, out.ID, score)
	})
	return out, nil
}

// scoreLater stores an AI sentiment score once it is available. Without AI
// nothing happens.
func scoreLater(ctx context.Context, bg *Background, scorer SentimentScorer, kind, text string, store func(context.Context, float64) error) {
	if scorer == nil || !scorer.Enabled() {
		return
	}
	bg.Go(ctx, kind+" sentiment", func(ctx context.Context) error {
		res, err := scorer.Sentiment(ctx, text)
		if err != nil {
			return err
		}
		return store(ctx, res.Score)
	})
}

// Feed returns the caller's and their friends' posts, newest first.
func (s *PostService) Feed(ctx context.Context, userID string, q models.FeedQuery) ([]models.Post, error) {
	q.Limit = pageSize(q.Limit)
	return s.Posts.Feed(ctx, userID, q)
}

func (s *PostService) Get(ctx context.Context, userID, id string) (models.Post, error) {
	return s.Posts.Get(ctx, userID, id)
}

func (s *PostService) Delete(ctx context.Context, userID, id string) error {
	if err := s.Posts.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.emit(ctx, "posts", realtime.Delete, id, userID)
	return nil
}

func (s *PostService) Like(ctx context.Context, userID, id string) (models.Post, error) {
	if _, err := s.Posts.Get(ctx, userID, id); err != nil {
		return models.Post{}, err
	}
	if err := s.Posts.Like(ctx, userID, id); err != nil {
		return models.Post{}, err
	}
	return s.Posts.Get(ctx, userID, id)
}

func (s *PostService) Unlike(ctx context.Context, userID, id string) (models.Post, error) {
	if _, err := s.Posts.Get(ctx, userID, id); err != nil {
		return models.Post{}, err
	}
	if err := s.Posts.Unlike(ctx, userID, id); err != nil {
		return models.Post{}, err
	}
	return s.Posts.Get(ctx, userID, id)
}

func (s *PostService) AddComment(ctx context.Context, userID, postID, body string) (models.Comment, error) {
	body, err := checkBody("body", body, maxCommentLength)
	if err != nil {
		return models.Comment{}, err
	}
	post, err := s.Posts.Get(ctx, userID, postID)
	if err != nil {
		return models.Comment{}, err
	}
	c, err := s.Posts.AddComment(ctx, models.Comment{PostID: postID, UserID: userID, Body: body})
	if err != nil {
		return models.Comment{}, err
	}
	s.emit(ctx, "comments", realtime.Insert, c.ID, post.UserID)
	return c, nil
}

func (s *PostService) Comments(ctx context.Context, userID, postID string) ([]models.Comment, error) {
	if _, err := s.Posts.Get(ctx, userID, postID); err != nil {
		return nil, err
	}
	return s.Posts.Comments(ctx, postID)
}

func (s *PostService) DeleteComment(ctx context.Context, userID, id string) error {
	return s.Posts.DeleteComment(ctx, userID, id)
}
