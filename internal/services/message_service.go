package services

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"soravault/internal/models"
	"soravault/internal/notify"
	"soravault/internal/realtime"
)

const (
	maxMessageLength = 4000
	pushPreviewRunes = 120
)

type MessageService struct {
	Messages    MessageStore
	Friendships FriendshipStore
	Profiles    ProfileStore
	Push        notify.Notifier
	Background  *Background
	changes
}

func NewMessageService(messages MessageStore, friendships FriendshipStore, profiles ProfileStore, push notify.Notifier, bg *Background, pub realtime.Publisher, logger *slog.Logger) *MessageService {
	return &MessageService{
		Messages:    messages,
		Friendships: friendships,
		Profiles:    profiles,
		Push:        push,
		Background:  bg,
		changes:     newChanges(pub, logger),
	}
}

// Send delivers a direct message. Only accepted friends can message each other.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID, body string) (models.Message, error) {
	if err := required("receiver_id", receiverID); err != nil {
		return models.Message{}, err
	}
	if receiverID == senderID {
		return models.Message{}, models.Invalid("receiver_id", "cannot message yourself")
	}
	body, err := checkBody("body", body, maxMessageLength)
	if err != nil {
		return models.Message{}, err
	}

	ok, err := s.Friendships.AreFriends(ctx, senderID, receiverID)
	if err != nil {
		return models.Message{}, err
	}
	if !ok {
		return models.Message{}, models.ErrNotFriends
	}

	msg, err := s.Messages.Create(ctx, models.Message{SenderID: senderID, ReceiverID: receiverID, Body: body})
	if err != nil {
		return models.Message{}, err
	}
	s.emit(ctx, "messages", realtime.Insert, msg.ID, receiverID)
	s.emit(ctx, "messages", realtime.Insert, msg.ID, senderID)

	if s.Push != nil {
		s.Background.Go(ctx, "push message", func(ctx context.Context) error {
			sender, err := s.Profiles.Get(ctx, senderID)
			if err != nil {
				return err
			}
			return s.Push.Notify(ctx, receiverID, notify.Notification{
				Title: sender.Name(),
				Body:  preview(body, pushPreviewRunes),
				Data:  map[string]string{"type": "message", "sender_id": senderID, "message_id": msg.ID},
			})
		})
	}
	return msg, nil
}

func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "…"
}

func (s *MessageService) Conversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	return s.Messages.Conversations(ctx, userID)
}

// Thread returns messages exchanged with otherID, newest first, older than
// before when given.
func (s *MessageService) Thread(ctx context.Context, userID, otherID string, before *time.Time, limit int) ([]models.Message, error) {
	return s.Messages.Thread(ctx, userID, otherID, before, pageSize(limit))
}

// MarkRead marks every message from otherID to the caller as read.
func (s *MessageService) MarkRead(ctx context.Context, userID, otherID string) (int64, error) {
	n, err := s.Messages.MarkRead(ctx, userID, otherID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.emit(ctx, "messages", realtime.Update, userID, otherID)
	}
	return n, nil
}
