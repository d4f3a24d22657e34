package services

import (
	"context"
	"log/slog"
	"strings"

	"soravault/internal/models"
	"soravault/internal/realtime"
)

const maxThreadTitle = 200

type ForumService struct {
	Forum      ForumStore
	Sentiment  SentimentScorer
	Background *Background
	changes
}

func NewForumService(forum ForumStore, scorer SentimentScorer, bg *Background, pub realtime.Publisher, logger *slog.Logger) *ForumService {
	return &ForumService{Forum: forum, Sentiment: scorer, Background: bg, changes: newChanges(pub, logger)}
}

func (s *ForumService) CreateThread(ctx context.Context, userID string, t models.ForumThread) (models.ForumThread, error) {
	t.Category = strings.ToLower(strings.TrimSpace(t.Category))
	if err := required("category", t.Category); err != nil {
		return models.ForumThread{}, err
	}
	title, err := checkBody("title", t.Title, maxThreadTitle)
	if err != nil {
		return models.ForumThread{}, err
	}
	body, err := checkBody("body", t.Body, maxPostLength)
	if err != nil {
		return models.ForumThread{}, err
	}
	t.Title, t.Body, t.UserID = title, body, userID

	out, err := s.Forum.CreateThread(ctx, t)
	if err != nil {
		return models.ForumThread{}, err
	}
	s.emit(ctx, "forum_threads", realtime.Insert, out.ID, userID)
	scoreLater(ctx, s.Background, s.Sentiment, "thread", out.Title+"\n"+out.Body, func(ctx context.Context, score float64) error {
		return s.Forum.SetSentiment(ctx, out.ID, score)
	})
	return out, nil
}

func (s *ForumService) ListThreads(ctx context.Context, category string, limit int) ([]models.ForumThread, error) {
	return s.Forum.ListThreads(ctx, strings.ToLower(strings.TrimSpace(category)), pageSize(limit))
}

func (s *ForumService) GetThread(ctx context.Context, id string) (models.ForumThread, error) {
	return s.Forum.GetThread(ctx, id)
}

func (s *ForumService) DeleteThread(ctx context.Context, userID, id string) error {
	if err := s.Forum.DeleteThread(ctx, userID, id); err != nil {
		return err
	}
	s.emit(ctx, "forum_threads", realtime.Delete, id, userID)
	return nil
}

func (s *ForumService) AddReply(ctx context.Context, userID, threadID, body string) (models.ForumReply, error) {
	body, err := checkBody("body", body, maxPostLength)
	if err != nil {
		return models.ForumReply{}, err
	}
	thread, err := s.Forum.GetThread(ctx, threadID)
	if err != nil {
		return models.ForumReply{}, err
	}
	reply, err := s.Forum.AddReply(ctx, models.ForumReply{ThreadID: threadID, UserID: userID, Body: body})
	if err != nil {
		return models.ForumReply{}, err
	}
	if thread.UserID != userID {
		s.emit(ctx, "forum_replies", realtime.Insert, reply.ID, thread.UserID)
	}
	return reply, nil
}

func (s *ForumService) Replies(ctx context.Context, threadID string) ([]models.ForumReply, error) {
	if _, err := s.Forum.GetThread(ctx, threadID); err != nil {
		return nil, err
	}
	return s.Forum.Replies(ctx, threadID)
}
